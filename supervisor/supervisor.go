//go:build linux || darwin || freebsd

// Package supervisor runs the job-execution process in the foreground and
// reflects its exit.  It never restarts a crashed child: restart policy
// belongs to the surrounding orchestrator.
package supervisor

import (
	"errors"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/forgerun/runner-lifecycle/cfg"
	"github.com/forgerun/runner-lifecycle/run"
)

type Supervisor struct {
	runnercfg *cfg.RunnerConfig
	state     *run.State

	// overrides for tests; when empty, the runner installation's run script
	// is used
	execPath string
	execArgs []string

	cmd *exec.Cmd
}

func New(runnercfg *cfg.RunnerConfig, state *run.State) *Supervisor {
	return &Supervisor{runnercfg: runnercfg, state: state}
}

// StartRunner launches the job-execution binary as a foreground child with
// inherited standard streams.  Unless runAsRoot is set, a root-owned
// start-runner drops the child to the configured unprivileged account.
func (s *Supervisor) StartRunner() error {
	attr, err := sysProcAttr(s.runnercfg)
	if err != nil {
		return err
	}

	path := s.execPath
	args := s.execArgs
	if path == "" {
		path = filepath.Join(s.runnercfg.RunnerDir, "run.sh")
	}
	cmd := exec.Command(path, args...)
	cmd.Dir = s.runnercfg.RunnerDir
	cmd.Env = os.Environ()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = attr

	if err := cmd.Start(); err != nil {
		return err
	}
	s.cmd = cmd

	log.Printf("Started job-execution process (pid %d)", cmd.Process.Pid)
	return nil
}

// ForwardSignal delivers the received termination signal to the child's
// process group, so the child can wind down the same way the manager does.
func (s *Supervisor) ForwardSignal(sig os.Signal) {
	if s.cmd == nil || s.cmd.Process == nil {
		return
	}

	unixSig, ok := sig.(syscall.Signal)
	if !ok {
		unixSig = syscall.SIGTERM
	}

	// negative pid targets the process group (the child was started with
	// Setpgid)
	if err := syscall.Kill(-s.cmd.Process.Pid, unixSig); err != nil {
		log.Printf("Error forwarding %s to job-execution process: %v", unixSig, err)
	}
}

// Wait blocks until the child exits and returns its exit code.  A child
// killed by a signal reports 128+signo, shell style.  The error return is
// reserved for system-level failures where no exit code exists.
func (s *Supervisor) Wait() (int, error) {
	err := s.cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal()), nil
		}
		return exitErr.ExitCode(), nil
	}

	return 0, err
}
