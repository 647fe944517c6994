// Package run holds the state of a single runner lifecycle, built up
// bit-by-bit as the start-runner process moves through its stages.
package run

import (
	"fmt"
	"sync"

	"github.com/forgerun/runner-lifecycle/cfg"
)

// LifecycleState names the stage the runner lifecycle is in.  Transitions are
// strictly forward, except that Configuring may fall back to Unconfigured on
// a fatal validation or auth failure (the process then exits; restart policy
// belongs to the surrounding orchestrator).
type LifecycleState int

const (
	Unconfigured LifecycleState = iota
	Configuring
	Configured
	Running
	ShuttingDown
	Terminated
)

func (s LifecycleState) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Configuring:
		return "configuring"
	case Configured:
		return "configured"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting-down"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("LifecycleState(%d)", int(s))
	}
}

// State represents the state of the runner lifecycle.  Access to all fields
// is gated by the mutex.
type State struct {
	sync.RWMutex

	// the validated configuration for this run
	RunnerConfig *cfg.RunnerConfig

	// the registration target
	Scope cfg.Scope

	// the short-lived registration token; fetched fresh on every startup and
	// never persisted
	RegistrationToken string `yaml:"-" json:"-"`

	// the server-side id of this runner, resolved during shutdown
	RunnerID int64

	lifecycle LifecycleState
}

// Lifecycle returns the current lifecycle stage.
func (state *State) Lifecycle() LifecycleState {
	state.RLock()
	defer state.RUnlock()
	return state.lifecycle
}

// Advance moves the lifecycle to the given stage, enforcing forward-only
// transitions.  The single permitted backward edge is Configuring →
// Unconfigured, taken when configuration fails fatally.
func (state *State) Advance(to LifecycleState) error {
	state.Lock()
	defer state.Unlock()

	if to == Unconfigured && state.lifecycle == Configuring {
		state.lifecycle = to
		return nil
	}

	if to <= state.lifecycle {
		return fmt.Errorf("cannot move lifecycle backward from %s to %s", state.lifecycle, to)
	}

	state.lifecycle = to
	return nil
}
