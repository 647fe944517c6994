package exit

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgerun/runner-lifecycle/cfg"
	"github.com/forgerun/runner-lifecycle/controlplane"
	"github.com/forgerun/runner-lifecycle/perms"
	"github.com/forgerun/runner-lifecycle/registration"
	"github.com/forgerun/runner-lifecycle/run"
)

func testConfig(t *testing.T) *cfg.RunnerConfig {
	runnercfg := &cfg.RunnerConfig{
		Credential:      "x",
		Organization:    "acme",
		Name:            "runner-1",
		WorkDir:         filepath.Join(t.TempDir(), "_work"),
		ControlPlaneURL: "https://cp.example.com",
	}
	require.NoError(t, runnercfg.Validate())
	require.NoError(t, os.MkdirAll(runnercfg.WorkDir, 0755))
	return runnercfg
}

func writeRecord(t *testing.T, runnercfg *cfg.RunnerConfig) {
	record := `{"name": "runner-1", "labels": ["linux"], "group": "default", "scope": "organization acme"}`
	require.NoError(t, perms.WritePrivateFile(registration.RecordPath(runnercfg), []byte(record)))
	require.NoError(t, perms.WritePrivateFile(registration.CredentialsPath(runnercfg), []byte(`{}`)))
}

func TestCleanupDeregisters(t *testing.T) {
	runnercfg := testConfig(t)
	writeRecord(t, runnercfg)

	fake := &controlplane.FakeControlPlane{
		Runners: []controlplane.Runner{
			{ID: 5, Name: "other-runner"},
			{ID: 7, Name: "runner-1"},
		},
	}
	sm := new(runnercfg, &run.State{Scope: runnercfg.Scope()}, fake.Factory())
	sm.Cleanup()

	require.Equal(t, []int64{7}, fake.Removed(), "deregister called exactly once with the resolved id")
	require.NoFileExists(t, registration.RecordPath(runnercfg))
	require.NoFileExists(t, registration.CredentialsPath(runnercfg))
}

func TestCleanupDeregistrationFailureTolerated(t *testing.T) {
	runnercfg := testConfig(t)
	writeRecord(t, runnercfg)

	fake := &controlplane.FakeControlPlane{
		Runners:   []controlplane.Runner{{ID: 7, Name: "runner-1"}},
		RemoveErr: &controlplane.AuthError{StatusCode: http.StatusForbidden, Message: "nope"},
	}
	sm := new(runnercfg, &run.State{Scope: runnercfg.Scope()}, fake.Factory())
	sm.Cleanup()

	require.Equal(t, []int64{7}, fake.Removed())
	require.NoFileExists(t, registration.RecordPath(runnercfg), "local cleanup proceeds despite the failed call")
}

func TestCleanupBeforeConfiguration(t *testing.T) {
	runnercfg := testConfig(t)

	fake := &controlplane.FakeControlPlane{}
	sm := new(runnercfg, &run.State{Scope: runnercfg.Scope()}, fake.Factory())
	sm.Cleanup()

	require.Zero(t, fake.ListCalls(), "no network call before configuration exists")
	require.Empty(t, fake.Removed())
}

func TestCleanupRunnerNotFound(t *testing.T) {
	runnercfg := testConfig(t)
	writeRecord(t, runnercfg)

	fake := &controlplane.FakeControlPlane{
		Runners: []controlplane.Runner{{ID: 5, Name: "other-runner"}},
	}
	sm := new(runnercfg, &run.State{Scope: runnercfg.Scope()}, fake.Factory())
	sm.Cleanup()

	require.Empty(t, fake.Removed(), "no removal when the name is not registered")
	require.NoFileExists(t, registration.RecordPath(runnercfg), "record removed regardless")
}

func TestCleanupListFailureTolerated(t *testing.T) {
	runnercfg := testConfig(t)
	writeRecord(t, runnercfg)

	fake := &controlplane.FakeControlPlane{
		ListErr: &controlplane.NetworkError{Op: "GET", Err: os.ErrDeadlineExceeded},
	}
	sm := new(runnercfg, &run.State{Scope: runnercfg.Scope()}, fake.Factory())
	sm.Cleanup()

	require.Empty(t, fake.Removed())
	require.NoFileExists(t, registration.RecordPath(runnercfg))
}
