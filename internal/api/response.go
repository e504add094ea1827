// Package api holds the JSON envelopes and error rendering shared by every HTTP handler.
package api

// ErrorResponse is the body of every non-2xx response.
// Code is machine readable; Message is safe to show to end users.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries a session token.
type TokenResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
}
