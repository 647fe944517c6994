// Package exit deregisters the runner identity and removes local state when
// the lifecycle ends.  Deregistration is best-effort: the control plane
// garbage-collects stale registrations eventually, so a failed call is only
// worth a warning, never a dirty exit.
package exit

import (
	"log"
	"os"

	"github.com/forgerun/runner-lifecycle/cfg"
	"github.com/forgerun/runner-lifecycle/controlplane"
	"github.com/forgerun/runner-lifecycle/registration"
	"github.com/forgerun/runner-lifecycle/run"
)

// ShutdownManager manages runner exit.
type ShutdownManager struct {
	runnercfg *cfg.RunnerConfig
	state     *run.State

	// Factory for control-plane clients
	factory controlplane.ClientFactory
}

// Make a new ShutdownManager object
func New(runnercfg *cfg.RunnerConfig, state *run.State) *ShutdownManager {
	return new(runnercfg, state, nil)
}

// Private constructor allowing injection of a fake factory
func new(runnercfg *cfg.RunnerConfig, state *run.State, factory controlplane.ClientFactory) *ShutdownManager {
	if factory == nil {
		factory = controlplane.New
	}

	return &ShutdownManager{
		runnercfg: runnercfg,
		state:     state,
		factory:   factory,
	}
}

// Cleanup deregisters the runner (if an identity record exists) and removes
// the record and cached credential material.  It never fails: every problem
// is logged and cleanup continues, so shutdown completes on a bounded
// timeline.
func (sm *ShutdownManager) Cleanup() {
	if !registration.Configured(sm.runnercfg) {
		log.Printf("No identity record; nothing to deregister")
		return
	}

	sm.deregister()

	for _, filename := range []string{
		registration.RecordPath(sm.runnercfg),
		registration.CredentialsPath(sm.runnercfg),
	} {
		if err := os.Remove(filename); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: could not remove %s: %v", filename, err)
		}
	}
}

// Resolve the runner's server-side id by name and remove the registration.
// Called at most once per process, from Cleanup.
func (sm *ShutdownManager) deregister() {
	record, err := registration.LoadRecord(sm.runnercfg)
	if err != nil {
		log.Printf("Warning: could not read identity record: %v", err)
		return
	}

	cp, err := sm.factory(sm.runnercfg.ControlPlaneURL, sm.runnercfg.Credential)
	if err != nil {
		log.Printf("Warning: could not create control-plane client: %v", err)
		return
	}

	sm.state.Lock()
	scope := sm.state.Scope
	sm.state.Unlock()

	runners, err := cp.ListRunners(scope)
	if err != nil {
		log.Printf("Warning: could not list runners to resolve id: %v", err)
		return
	}

	var runnerID int64
	for _, r := range runners {
		if r.Name == record.Name {
			runnerID = r.ID
			break
		}
	}
	if runnerID == 0 {
		log.Printf("Runner %s not registered at %s; skipping deregistration", record.Name, scope)
		return
	}

	log.Printf("Deregistering runner %s (id %d)", record.Name, runnerID)
	if err := cp.RemoveRunner(scope, runnerID); err != nil {
		log.Printf("Warning: deregistration failed: %v", err)
	}
}
