package user

import "errors"

var (
	// ErrEmailTaken indicates a registration attempt with an address that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so authentication failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound indicates the user does not exist.
	ErrNotFound = errors.New("user not found")
)
