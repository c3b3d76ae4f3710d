// Package common defines shared helpers and sentinel errors used across
// the application layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Credential errors (stored hash mismatch).
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Input rejected before it reaches a store call.
	ErrorValidation = errors.New("validation error")

	// Session errors (operation requires a logged-in user).
	ErrorUnauthorized = errors.New("unauthorized")
)
