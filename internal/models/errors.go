package models

import "errors"

// Domain errors shared across repositories, services and handlers.
// The HTTP layer maps each of these to a fixed status code.
var (
	// ErrUserExists is returned when a registration or email change
	// conflicts with an existing record.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned on any login failure. It is
	// deliberately the same for unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when the targeted user record does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotAllowed is returned when an authenticated user lacks
	// permission for the requested operation.
	ErrNotAllowed = errors.New("not authorized for this operation")

	// ErrValidation wraps user-correctable input validation failures.
	ErrValidation = errors.New("validation failed")
)
