package controlplane

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgerun/runner-lifecycle/cfg"
)

func TestCreateRegistrationToken(t *testing.T) {
	var gotPath, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"token": "tok-1", "expires_at": "2026-09-01T00:00:00Z"}`)
	}))
	defer ts.Close()

	cp, err := New(ts.URL, "seekrit")
	require.NoError(t, err)

	token, err := cp.CreateRegistrationToken(cfg.OrganizationScope("acme"))
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)
	require.Equal(t, "/orgs/acme/actions/runners/registration-token", gotPath)
	require.Equal(t, "Bearer seekrit", gotAuth)
}

func TestCreateRegistrationTokenRepositoryScope(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"token": "tok-2"}`)
	}))
	defer ts.Close()

	cp, err := New(ts.URL, "seekrit")
	require.NoError(t, err)

	_, err = cp.CreateRegistrationToken(cfg.RepositoryScope("acme", "widgets"))
	require.NoError(t, err)
	require.Equal(t, "/repos/acme/widgets/actions/runners/registration-token", gotPath)
}

func TestCreateRegistrationTokenBadCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	}))
	defer ts.Close()

	cp, err := New(ts.URL, "wrong")
	require.NoError(t, err)

	_, err = cp.CreateRegistrationToken(cfg.OrganizationScope("acme"))
	var autherr *AuthError
	require.ErrorAs(t, err, &autherr)
	require.Equal(t, http.StatusUnauthorized, autherr.StatusCode)
	require.Equal(t, "Bad credentials", autherr.Message)
	require.Contains(t, err.Error(), "Bad credentials")
}

func TestCreateRegistrationTokenEmptyToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"token": ""}`)
	}))
	defer ts.Close()

	cp, err := New(ts.URL, "seekrit")
	require.NoError(t, err)

	_, err = cp.CreateRegistrationToken(cfg.OrganizationScope("acme"))
	var autherr *AuthError
	require.ErrorAs(t, err, &autherr, "an empty token is always an AuthError")
}

func TestErrorMessageFallbackChain(t *testing.T) {
	for _, test := range []struct {
		name     string
		body     string
		expected string
	}{
		{"message field", `{"message": "nope"}`, "nope"},
		{"detail field", `{"detail": "still nope"}`, "still nope"},
		{"message preferred over detail", `{"message": "m", "detail": "d"}`, "m"},
		{"unrecognized shape", `{"oops": true}`, "unknown error"},
		{"non-json body", `<html>502</html>`, "unknown error"},
	} {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, extractErrorMessage([]byte(test.body)))
		})
	}
}

func TestNetworkErrorDistinguished(t *testing.T) {
	// a server that is not listening
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	cp, err := New(ts.URL, "seekrit")
	require.NoError(t, err)

	_, err = cp.CreateRegistrationToken(cfg.OrganizationScope("acme"))
	var neterr *NetworkError
	require.ErrorAs(t, err, &neterr)
	var autherr *AuthError
	require.NotErrorAs(t, err, &autherr)
}

func TestListRunners(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/orgs/acme/actions/runners", r.URL.Path)
		fmt.Fprint(w, `{
			"total_count": 2,
			"runners": [
				{"id": 7, "name": "runner-a", "os": "linux", "status": "online", "busy": false,
				 "labels": [{"id": 1, "name": "linux", "type": "read-only"}]},
				{"id": 9, "name": "runner-b", "os": "linux", "status": "offline", "busy": false, "labels": []}
			]
		}`)
	}))
	defer ts.Close()

	cp, err := New(ts.URL, "seekrit")
	require.NoError(t, err)

	runners, err := cp.ListRunners(cfg.OrganizationScope("acme"))
	require.NoError(t, err)
	require.Len(t, runners, 2)
	require.Equal(t, int64(7), runners[0].ID)
	require.Equal(t, "runner-a", runners[0].Name)
	require.Equal(t, "linux", runners[0].Labels[0].Name)
}

func TestRemoveRunner(t *testing.T) {
	var gotPath, gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	cp, err := New(ts.URL, "seekrit")
	require.NoError(t, err)

	require.NoError(t, cp.RemoveRunner(cfg.RepositoryScope("acme", "widgets"), 42))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/repos/acme/widgets/actions/runners/42", gotPath)
}

func TestRemoveRunnerFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	}))
	defer ts.Close()

	cp, err := New(ts.URL, "seekrit")
	require.NoError(t, err)

	err = cp.RemoveRunner(cfg.OrganizationScope("acme"), 42)
	var autherr *AuthError
	require.ErrorAs(t, err, &autherr)
	require.Equal(t, http.StatusNotFound, autherr.StatusCode)
}
