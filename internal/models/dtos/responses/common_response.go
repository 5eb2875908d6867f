package responses

import "time"

type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
	// Code is the machine-readable error kind, e.g. INVALID_TRANSITION.
	Code string `json:"code,omitempty"`
	// Reason narrows a FORBIDDEN code, e.g. SELF_VERIFICATION.
	Reason string `json:"reason,omitempty"`
	Data   *T     `json:"data,omitempty"`
}
