package service

import "errors"

var (
	// ErrInvalidCredentials is returned on any authentication failure that
	// must not reveal whether the account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountLocked is returned when a login hits an account whose
	// lockout window has not yet elapsed.
	ErrAccountLocked = errors.New("account is temporarily locked")

	// ErrAccountInactive is returned when the account behind a token has
	// been soft-deactivated.
	ErrAccountInactive = errors.New("account is deactivated")

	// ErrWrongPassword is returned by ChangePassword when the current
	// password does not verify.
	ErrWrongPassword = errors.New("wrong password")

	ErrTokenIsExpired      = errors.New("token is expired")
	ErrTokenIsInvalid      = errors.New("token is invalid")
	ErrRefreshTokenRevoked = errors.New("refresh token is revoked")

	ErrTokenCreationFailed = errors.New("token creation failed")
)
