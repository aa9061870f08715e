package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when the merged
// configuration violates a startup invariant.
var (
	// ErrInsecureTokenSignKey indicates that production mode is enabled
	// while the token signing key is still the well-known development
	// default. This is a fatal startup error.
	ErrInsecureTokenSignKey = errors.New("token sign key is the development default; refusing to start in production mode")

	// ErrInvalidTokenTTL indicates a negative access or refresh token
	// lifetime.
	ErrInvalidTokenTTL = errors.New("invalid token TTL configuration")

	// ErrInvalidLockoutConfigs indicates an unusable lockout policy
	// (non-positive threshold or negative lock duration).
	ErrInvalidLockoutConfigs = errors.New("invalid lockout configuration")
)
