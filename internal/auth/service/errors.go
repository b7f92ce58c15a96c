package service

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInvalidRefresh covers a refresh token that is unknown, expired,
	// revoked, or whose owning user no longer exists.
	ErrInvalidRefresh = errors.New("invalid_refresh_token")
)
