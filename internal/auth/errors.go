package auth

import "errors"

var (
	// ErrEmailAlreadyExists indicates the email is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned when the password comparison fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound signals that no account matches the email.
	ErrUserNotFound = errors.New("user not found")
)
