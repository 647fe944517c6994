package controlplane

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgerun/runner-lifecycle/cfg"
)

func TestFakeControlPlane(t *testing.T) {
	fake := &FakeControlPlane{
		Token:   "tok-1",
		Runners: []Runner{{ID: 3, Name: "r"}},
	}

	factory := fake.Factory()
	cp, err := factory("https://cp.example.com", "cred")
	require.NoError(t, err)

	token, err := cp.CreateRegistrationToken(cfg.OrganizationScope("acme"))
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)
	require.Equal(t, 1, fake.TokenCalls())

	runners, err := cp.ListRunners(cfg.OrganizationScope("acme"))
	require.NoError(t, err)
	require.Len(t, runners, 1)
	require.Equal(t, 1, fake.ListCalls())

	require.NoError(t, cp.RemoveRunner(cfg.OrganizationScope("acme"), 3))
	require.Equal(t, []int64{3}, fake.Removed())
}

func TestFakeControlPlaneUnconfiguredToken(t *testing.T) {
	fake := &FakeControlPlane{}
	_, err := fake.CreateRegistrationToken(cfg.OrganizationScope("acme"))
	require.Error(t, err)
}
