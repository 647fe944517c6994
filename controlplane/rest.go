package controlplane

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/forgerun/runner-lifecycle/cfg"
)

// Every outbound call is bounded by this timeout; the lifecycle must never
// hang indefinitely on the network, least of all during shutdown.
const callTimeout = 30 * time.Second

type restClient struct {
	baseURL    string
	credential string
	client     *http.Client
}

// New creates a ControlPlane client talking to the REST API at baseURL,
// authenticating every call with the given durable credential.
func New(baseURL, credential string) (ControlPlane, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("control plane base URL is empty")
	}
	return &restClient{
		baseURL:    baseURL,
		credential: credential,
		client:     &http.Client{Timeout: callTimeout},
	}, nil
}

func (c *restClient) CreateRegistrationToken(scope cfg.Scope) (string, error) {
	body, err := c.call(http.MethodPost, scope.APIPath()+"/actions/runners/registration-token")
	if err != nil {
		return "", err
	}

	var res struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", &AuthError{StatusCode: http.StatusCreated, Message: fmt.Sprintf("malformed registration-token response: %v", err)}
	}
	if res.Token == "" {
		return "", &AuthError{StatusCode: http.StatusCreated, Message: "registration-token response contained no token"}
	}

	return res.Token, nil
}

func (c *restClient) ListRunners(scope cfg.Scope) ([]Runner, error) {
	body, err := c.call(http.MethodGet, scope.APIPath()+"/actions/runners?per_page=100")
	if err != nil {
		return nil, err
	}

	var res struct {
		TotalCount int      `json:"total_count"`
		Runners    []Runner `json:"runners"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &AuthError{StatusCode: http.StatusOK, Message: fmt.Sprintf("malformed runners response: %v", err)}
	}

	return res.Runners, nil
}

func (c *restClient) RemoveRunner(scope cfg.Scope, runnerID int64) error {
	_, err := c.call(http.MethodDelete, fmt.Sprintf("%s/actions/runners/%d", scope.APIPath(), runnerID))
	return err
}

// call performs a single authenticated request, distinguishing transport
// failures (NetworkError) from API failures (AuthError).  There are no
// retries: a fatal error exits the process and the surrounding orchestrator
// decides whether to start over.
func (c *restClient) call(method, path string) ([]byte, error) {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.credential)
	req.Header.Set("Accept", "application/vnd.github+json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer res.Body.Close()

	// bound the read; error payloads are small
	body, err := io.ReadAll(io.LimitReader(res.Body, 1024*1024))
	if err != nil {
		return nil, &NetworkError{Op: fmt.Sprintf("%s %s", method, path), Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &AuthError{StatusCode: res.StatusCode, Message: extractErrorMessage(body)}
	}

	return body, nil
}
