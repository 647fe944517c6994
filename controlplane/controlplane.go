// Package controlplane is a client for the control-plane REST API: the
// remote service that issues registration tokens and tracks runner
// identities.
package controlplane

import "github.com/forgerun/runner-lifecycle/cfg"

// A Runner is a registered runner identity as reported by the control plane.
type Runner struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	OS     string        `json:"os"`
	Status string        `json:"status"`
	Busy   bool          `json:"busy"`
	Labels []RunnerLabel `json:"labels"`
}

// RunnerLabel represents a label attached to a runner.
type RunnerLabel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// An interface containing the control-plane operations the lifecycle needs,
// allowing use of fakes that also match this interface.
type ControlPlane interface {
	// Exchange the durable credential for a short-lived registration token
	// for the given scope.  The returned token is never empty.
	CreateRegistrationToken(scope cfg.Scope) (string, error)

	// List the runner identities registered at the given scope.
	ListRunners(scope cfg.Scope) ([]Runner, error)

	// Remove the registration with the given id.
	RemoveRunner(scope cfg.Scope, runnerID int64) error
}

// A factory type that can create new instances of the ControlPlane
// interface.
type ClientFactory func(baseURL, credential string) (ControlPlane, error)
