package service

import "errors"

var (
	// ErrInvalidInput is returned when a request fails validation. It is
	// wrapped with the detail shown to the client.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when a unique name or email is already taken.
	ErrConflict = errors.New("already exists")
	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned for unknown or expired tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
