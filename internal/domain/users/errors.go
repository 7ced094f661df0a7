package users

import "errors"

var (
	// ErrNotFound indicates no account exists for the given email.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)
