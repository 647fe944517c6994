package controlplane

import (
	"fmt"
	"sync"

	"github.com/forgerun/runner-lifecycle/cfg"
)

// FakeControlPlane implements ControlPlane for tests, recording calls and
// returning configured results.
type FakeControlPlane struct {
	mutex sync.Mutex

	// Token is returned from CreateRegistrationToken; TokenErr overrides it.
	Token    string
	TokenErr error

	// Runners is returned from ListRunners; ListErr overrides it.
	Runners []Runner
	ListErr error

	// RemoveErr is returned from RemoveRunner.
	RemoveErr error

	tokenCalls int
	listCalls  int
	removed    []int64
}

func (f *FakeControlPlane) CreateRegistrationToken(scope cfg.Scope) (string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.tokenCalls++
	if f.TokenErr != nil {
		return "", f.TokenErr
	}
	if f.Token == "" {
		return "", fmt.Errorf("FakeControlPlane has no token configured")
	}
	return f.Token, nil
}

func (f *FakeControlPlane) ListRunners(scope cfg.Scope) ([]Runner, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.listCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Runners, nil
}

func (f *FakeControlPlane) RemoveRunner(scope cfg.Scope, runnerID int64) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.removed = append(f.removed, runnerID)
	return f.RemoveErr
}

// TokenCalls reports how many times CreateRegistrationToken was called.
func (f *FakeControlPlane) TokenCalls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.tokenCalls
}

// ListCalls reports how many times ListRunners was called.
func (f *FakeControlPlane) ListCalls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.listCalls
}

// Removed returns the runner ids passed to RemoveRunner, in order.
func (f *FakeControlPlane) Removed() []int64 {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	removed := make([]int64, len(f.removed))
	copy(removed, f.removed)
	return removed
}

// Factory returns a ClientFactory that always yields this fake, for
// injection into components that construct their own clients.
func (f *FakeControlPlane) Factory() ClientFactory {
	return func(baseURL, credential string) (ControlPlane, error) {
		return f, nil
	}
}
