package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing or stale bearer credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrDuplicate indicates a uniqueness constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
)
