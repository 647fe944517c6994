package runner

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgerun/runner-lifecycle/cfg"
	"github.com/forgerun/runner-lifecycle/controlplane"
	"github.com/forgerun/runner-lifecycle/exit"
	"github.com/forgerun/runner-lifecycle/logging"
	"github.com/forgerun/runner-lifecycle/registration"
	"github.com/forgerun/runner-lifecycle/run"
	"github.com/forgerun/runner-lifecycle/supervisor"
)

type waitResult struct {
	code int
	err  error
}

// Run the runner lifecycle.  This embodies the execution of the start-runner
// command: validate configuration, exchange the durable credential for a
// registration token, configure the runner identity (skipped when the
// identity record already exists), supervise the job-execution process, and
// deregister on a termination signal.  The returned code is the process exit
// code; when the child exits on its own, its code is propagated unchanged.
func Run(configFile string) (int, error) {
	state := &run.State{}

	advance := func(to run.LifecycleState) {
		// only programming errors can cause this to fail
		if err := state.Advance(to); err != nil {
			panic(err)
		}
	}

	// Termination signals are watched from the very start, so that a signal
	// arriving during configuration still runs the cleanup path rather than
	// killing the process abruptly.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// checked at stage boundaries; outbound calls are already bounded by the
	// client timeout, so a signal is never left waiting for long
	interrupted := func() bool {
		select {
		case sig := <-sigs:
			log.Printf("Received %s", sig)
			return true
		default:
			return false
		}
	}

	// load configuration

	if configFile != "" {
		log.Printf("Loading runner configuration from %s", configFile)
	}
	runnercfg, err := cfg.LoadRunnerConfig(configFile)
	if err != nil {
		return 0, err
	}

	logging.Configure(runnercfg)

	advance(run.Configuring)
	if err := runnercfg.Validate(); err != nil {
		advance(run.Unconfigured)
		return 0, err
	}

	state.Lock()
	state.RunnerConfig = runnercfg
	state.Scope = runnercfg.Scope()
	state.Unlock()

	// log the runner identity; this is useful for finding the runner in logfiles
	log.Printf("Identified as runner %s (%s)", runnercfg.Name, state.Scope)

	shutdown := exit.New(runnercfg, state)

	// configure the identity

	if registration.Configured(runnercfg) {
		log.Printf("Identity record exists; skipping registration")
	} else {
		if interrupted() {
			advance(run.ShuttingDown)
			shutdown.Cleanup()
			advance(run.Terminated)
			return 0, nil
		}

		cp, err := controlplane.New(runnercfg.ControlPlaneURL, runnercfg.Credential)
		if err != nil {
			advance(run.Unconfigured)
			return 0, err
		}

		log.Printf("Requesting registration token for %s", state.Scope)
		token, err := cp.CreateRegistrationToken(state.Scope)
		if err != nil {
			advance(run.Unconfigured)
			return 0, err
		}

		state.Lock()
		state.RegistrationToken = token
		state.Unlock()

		reg := registration.New(runnercfg, state)
		if err := reg.ConfigureRun(token); err != nil {
			advance(run.Unconfigured)
			return 0, err
		}
	}
	advance(run.Configured)

	if interrupted() {
		advance(run.ShuttingDown)
		shutdown.Cleanup()
		advance(run.Terminated)
		return 0, nil
	}

	// start the job-execution process

	log.Printf("Starting job-execution process")
	sup := supervisor.New(runnercfg, state)
	if err := sup.StartRunner(); err != nil {
		return 0, err
	}
	advance(run.Running)

	done := make(chan waitResult, 1)
	go func() {
		code, err := sup.Wait()
		done <- waitResult{code: code, err: err}
	}()

	select {
	case res := <-done:
		// a child exit (any code) is the manager's own terminal condition
		advance(run.Terminated)
		if res.err != nil {
			return 0, res.err
		}
		log.Printf("Job-execution process exited with code %d", res.code)
		return res.code, nil

	case sig := <-sigs:
		log.Printf("Received %s; shutting down", sig)
		advance(run.ShuttingDown)
		sup.ForwardSignal(sig)
		<-done
		shutdown.Cleanup()
		advance(run.Terminated)
		return 0, nil
	}
}
