// Package common defines sentinel errors shared by the store, the services
// and the conversation engine. Callers should use errors.Is to match them.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Validation errors.
	ErrMalformedInput = errors.New("malformed input")

	// Gateway auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
