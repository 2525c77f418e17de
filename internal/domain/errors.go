package domain

import "errors"

// Sentinel errors shared by the client, its transports and the mock API.
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrRateLimited    = errors.New("rate limited")
	ErrBodyTooLarge   = errors.New("response body too large")
	ErrNoResponse     = errors.New("no response")
	ErrTransportPanic = errors.New("transport panic")
)

// ErrorResponse is the standard JSON error envelope spoken by the API.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after,omitempty"`
}
