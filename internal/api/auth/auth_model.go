package auth

import "errors"

var (
	// ErrUsernameTaken is returned by Register when the username exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords; callers must not reveal which.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	bcryptCost       = 10
	accessTokenHours = 24
)
