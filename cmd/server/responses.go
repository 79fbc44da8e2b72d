package main

import "github.com/icco/recall"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string      `json:"error" example:"Game not found"`
	Kind  recall.Kind `json:"kind,omitempty" swaggertype:"string" example:"NOT_FOUND"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Healthy  string `json:"healthy" example:"true"`
	Revision string `json:"revision,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Branch   string `json:"branch,omitempty"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  recall.User `json:"user"`
}
