package main

import (
	"errors"
	"log"
	"os"

	docopt "github.com/docopt/docopt-go"

	"github.com/forgerun/runner-lifecycle/cfg"
	"github.com/forgerun/runner-lifecycle/controlplane"
	"github.com/forgerun/runner-lifecycle/internal"
	"github.com/forgerun/runner-lifecycle/logging"
	"github.com/forgerun/runner-lifecycle/registration"
	"github.com/forgerun/runner-lifecycle/runner"
)

// ExitCode is the process exit code for a lifecycle failure.  When the
// job-execution process exits on its own, its code is propagated instead.
type ExitCode int

const (
	SUCCESS               ExitCode = 0
	INTERNAL_ERROR        ExitCode = 1
	INVALID_CONFIG        ExitCode = 64
	AUTH_FAILURE          ExitCode = 65
	CONFIGURATION_FAILURE ExitCode = 66
	NETWORK_FAILURE       ExitCode = 67
)

func Usage() string {
	return `
The start-runner command registers a CI runner with the control plane and
supervises its job-execution process, deregistering the runner when it
receives a termination signal.  Configuration comes from the environment,
optionally layered over a YAML config file.  It is typically invoked as the
entry point of a runner container.

Usage:
	start-runner [<runnerConfig>]
`
}

func main() {
	logging.PatchStdLogger(nil)

	opts, err := docopt.ParseArgs(Usage(), os.Args[1:], "start-runner "+internal.Version)
	if err != nil {
		log.Printf("Error parsing command-line arguments: %s", err)
		os.Exit(int(INVALID_CONFIG))
	}

	filename, _ := opts["<runnerConfig>"].(string)
	code, err := runner.Run(filename)
	if err != nil {
		log.Printf("%s", err)
		os.Exit(int(exitCodeFor(err)))
	}
	os.Exit(code)
}

func exitCodeFor(err error) ExitCode {
	var verr *cfg.ValidationError
	if errors.As(err, &verr) {
		return INVALID_CONFIG
	}

	var autherr *controlplane.AuthError
	if errors.As(err, &autherr) {
		return AUTH_FAILURE
	}

	var neterr *controlplane.NetworkError
	if errors.As(err, &neterr) {
		return NETWORK_FAILURE
	}

	var cfgerr *registration.ConfigurationError
	if errors.As(err, &cfgerr) {
		return CONFIGURATION_FAILURE
	}

	return INTERNAL_ERROR
}
