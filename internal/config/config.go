// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// marketplace-auth application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Auth holds token signing parameters, token lifetimes, and the
	// password-hashing work factor.
	Auth Auth `envPrefix:"AUTH_"`

	// Lockout holds the brute-force mitigation parameters: the consecutive
	// failure threshold and the lock window duration.
	Lockout Lockout `envPrefix:"LOCKOUT_"`

	// Storage holds configuration for the persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Audit holds configuration for the asynchronous audit trail: sink
	// buffer size and the optional webhook collector endpoint.
	Audit Audit `envPrefix:"AUDIT_"`

	// Production enables production-mode safety checks. When true, startup
	// fails fatally if the token signing key is still the well-known
	// development default.
	// Env: PRODUCTION
	Production bool `env:"PRODUCTION"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Auth holds token and credential parameters that control security and
// token lifecycle.
type Auth struct {
	// TokenSignKey is the symmetric secret used to sign and verify both
	// access and refresh tokens. Must be kept confidential.
	// Env: AUTH_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token and
	// validated on every verification.
	// Env: AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// AccessTokenTTL specifies how long an access token remains valid after
	// issuance (e.g. "24h").
	// Env: AUTH_ACCESS_TOKEN_TTL
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL"`

	// RefreshTokenTTL specifies how long a refresh token remains valid
	// after issuance (e.g. "168h" for 7 days).
	// Env: AUTH_REFRESH_TOKEN_TTL
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL"`

	// HashIterations is the PBKDF2 iteration count used when hashing
	// passwords. Tuned so one hash costs ~100ms on commodity hardware.
	// Env: AUTH_HASH_ITERATIONS
	HashIterations int `env:"HASH_ITERATIONS"`
}

// Lockout holds the progressive account-lockout parameters.
type Lockout struct {
	// Threshold is the number of consecutive failed logins after which the
	// account is temporarily locked.
	// Env: LOCKOUT_THRESHOLD
	Threshold int `env:"THRESHOLD"`

	// Duration is the length of the lock window applied once Threshold is
	// reached (e.g. "15m"). Expiry is checked lazily at login time.
	// Env: LOCKOUT_DURATION
	Duration time.Duration `env:"DURATION"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the Data Source Name used to open the database connection.
	// A "postgres://..." DSN selects the PostgreSQL backend; any other
	// value is treated as a SQLite file path for local development.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s"). Every storage and
	// ledger call inherits this bound through the request context.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Audit holds configuration for the asynchronous audit event dispatcher.
type Audit struct {
	// WebhookURL is the optional HTTP endpoint of the external
	// security-report collector. When empty, events are only logged.
	// Env: AUDIT_WEBHOOK_URL
	WebhookURL string `env:"WEBHOOK_URL"`

	// BufferSize is the capacity of the in-memory event queue. When the
	// queue is full, events are dropped (and counted) rather than blocking
	// the authentication path.
	// Env: AUDIT_BUFFER_SIZE
	BufferSize int `env:"BUFFER_SIZE"`

	// WebhookTimeout bounds a single webhook delivery attempt.
	// Env: AUDIT_WEBHOOK_TIMEOUT
	WebhookTimeout time.Duration `env:"WEBHOOK_TIMEOUT"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
