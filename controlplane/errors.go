package controlplane

import (
	"encoding/json"
	"fmt"
)

// An AuthError is an API-level failure: a non-2xx response, or a response
// missing a required field.  It carries the HTTP status and the best-effort
// error message extracted from the response body.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("control plane returned HTTP %d: %s", e.StatusCode, e.Message)
}

// A NetworkError is a transport-level failure contacting the control plane:
// timeout, DNS, connection refused.  It is kept distinct from AuthError so a
// future retry policy can treat the two differently, although both are fatal.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("error contacting control plane (%s): %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// The control plane reports error details under several different field
// names, so extraction is a prioritized fallback chain rather than a single
// schema.
func extractErrorMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, field := range []string{"message", "detail"} {
			if msg, ok := payload[field].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return "unknown error"
}
