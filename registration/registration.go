// Package registration configures the local runner identity against the
// control plane, exactly once: presence of the identity record on disk is
// the sole signal that configuration has already happened.
package registration

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/forgerun/runner-lifecycle/cfg"
	"github.com/forgerun/runner-lifecycle/perms"
	"github.com/forgerun/runner-lifecycle/run"
)

// The identity record filename, relative to the work directory.  Deleted on
// successful deregistration.
const recordFilename = ".runner"

// The configuration procedure caches credential material here; removed
// together with the record during cleanup.
const credentialsFilename = ".credentials"

// A ConfigurationError means the local identity-configuration procedure
// failed.  It is fatal: the lifecycle must not proceed to supervise jobs
// with an unconfigured identity.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("runner configuration failed: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IdentityRecord is the persisted local state marking "already configured".
type IdentityRecord struct {
	Name         string    `json:"name"`
	Labels       []string  `json:"labels"`
	Group        string    `json:"group"`
	Scope        string    `json:"scope"`
	ConfiguredAt time.Time `json:"configuredAt"`
}

type RegistrationManager struct {
	runnercfg *cfg.RunnerConfig
	state     *run.State

	// the procedure that performs the actual configuration
	configurator Configurator
}

// Make a new RegistrationManager object
func New(runnercfg *cfg.RunnerConfig, state *run.State) *RegistrationManager {
	return new(runnercfg, state, nil)
}

// Private constructor allowing injection of a fake configurator
func new(runnercfg *cfg.RunnerConfig, state *run.State, configurator Configurator) *RegistrationManager {
	if configurator == nil {
		configurator = &scriptConfigurator{runnerDir: runnercfg.RunnerDir}
	}

	return &RegistrationManager{
		runnercfg:    runnercfg,
		state:        state,
		configurator: configurator,
	}
}

// RecordPath is the location of the identity record for the given config.
func RecordPath(runnercfg *cfg.RunnerConfig) string {
	return filepath.Join(runnercfg.WorkDir, recordFilename)
}

// CredentialsPath is the location of the cached credential material.
func CredentialsPath(runnercfg *cfg.RunnerConfig) string {
	return filepath.Join(runnercfg.WorkDir, credentialsFilename)
}

// LoadRecord reads the persisted identity record, returning an error
// satisfying os.IsNotExist when there is none.
func LoadRecord(runnercfg *cfg.RunnerConfig) (*IdentityRecord, error) {
	content, err := perms.ReadPrivateFile(RecordPath(runnercfg))
	if err != nil {
		return nil, err
	}

	var record IdentityRecord
	if err := json.Unmarshal(content, &record); err != nil {
		return nil, fmt.Errorf("corrupt identity record %s: %w", RecordPath(runnercfg), err)
	}
	return &record, nil
}

// Configured reports whether the identity record exists.
func Configured(runnercfg *cfg.RunnerConfig) bool {
	_, err := os.Stat(RecordPath(runnercfg))
	return err == nil
}

// ConfigureRun configures the runner identity with the given registration
// token.  If the identity record already exists this is a no-op: no network
// call and no subprocess.  Otherwise the configuration procedure is invoked
// and, on success, the record is persisted with owner-only permissions.
func (reg *RegistrationManager) ConfigureRun(token string) error {
	if err := os.MkdirAll(reg.runnercfg.WorkDir, 0755); err != nil {
		return &ConfigurationError{Err: err}
	}

	if Configured(reg.runnercfg) {
		log.Printf("Identity record %s exists; skipping configuration", RecordPath(reg.runnercfg))
		return nil
	}

	reg.state.Lock()
	scope := reg.state.Scope
	reg.state.Unlock()

	targetURL := reg.runnercfg.RegistrationURL + scope.RegistrationPath()
	log.Printf("Configuring runner %s for %s", reg.runnercfg.Name, scope)

	if err := reg.configurator.Configure(reg.runnercfg, targetURL, token); err != nil {
		return &ConfigurationError{Err: err}
	}

	record := IdentityRecord{
		Name:         reg.runnercfg.Name,
		Labels:       reg.runnercfg.Labels,
		Group:        reg.runnercfg.Group,
		Scope:        scope.String(),
		ConfiguredAt: time.Now().UTC(),
	}
	content, err := json.MarshalIndent(&record, "", "  ")
	if err != nil {
		return &ConfigurationError{Err: err}
	}
	if err := perms.WritePrivateFile(RecordPath(reg.runnercfg), content); err != nil {
		return &ConfigurationError{Err: err}
	}

	return nil
}
