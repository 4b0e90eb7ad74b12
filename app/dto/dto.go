// Package dto contains request and response structures for the API layer
package dto

// APIResponse is the envelope every endpoint returns. Data carries the
// payload on success; Error carries an ErrorDetail on failure.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// ErrorDetail identifies a failure with a stable machine-readable code
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
