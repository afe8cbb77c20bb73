package artist

import "errors"

var (
	// ErrEmailTaken indicates a registration attempt with an address that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound indicates the artist does not exist.
	ErrNotFound = errors.New("artist not found")
)
