package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEmail      = errors.New("invalid email address")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters long")
	ErrPasswordTooWeak   = errors.New("password must contain an upper-case letter, a lower-case letter and a digit")
	ErrInvalidRole       = errors.New("invalid role")
	ErrEmptyPassword     = errors.New("password is required")
	ErrEmptyRefreshToken = errors.New("refresh token is required")
)
