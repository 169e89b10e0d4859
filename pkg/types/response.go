// Package types holds the JSON envelopes shared by every API response.
package types

// SuccessEnvelope wraps successful payloads as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a pkg/errors code plus message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps failures as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
