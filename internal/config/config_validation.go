// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// DefaultTokenSignKey is the well-known development signing secret applied
// when no key is configured. It is rejected at startup in production mode.
const DefaultTokenSignKey = "marketplace-dev-insecure-secret"

// Default values applied to any field left unset by all configuration
// sources. They mirror the reference behavior of the auth core: 24h access
// tokens, 7-day refresh tokens, 5-failure lockout with a 15-minute window,
// and a PBKDF2 work factor of 100 000 iterations.
const (
	defaultTokenIssuer     = "marketplace"
	defaultAccessTokenTTL  = 24 * time.Hour
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
	defaultHashIterations  = 100_000

	defaultLockoutThreshold = 5
	defaultLockoutDuration  = 15 * time.Minute

	defaultHTTPAddress    = "localhost:8080"
	defaultReqTimeout     = 30 * time.Second
	defaultDSN            = "marketplace-auth.db"
	defaultAuditBuffer    = 256
	defaultWebhookTimeout = 5 * time.Second
)

// applyDefaults fills every zero-valued field of the merged configuration
// with its safe default. Called by the builder after merging all sources and
// before validation.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Auth.TokenSignKey == "" {
		cfg.Auth.TokenSignKey = DefaultTokenSignKey
	}
	if cfg.Auth.TokenIssuer == "" {
		cfg.Auth.TokenIssuer = defaultTokenIssuer
	}
	if cfg.Auth.AccessTokenTTL == 0 {
		cfg.Auth.AccessTokenTTL = defaultAccessTokenTTL
	}
	if cfg.Auth.RefreshTokenTTL == 0 {
		cfg.Auth.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	if cfg.Auth.HashIterations == 0 {
		cfg.Auth.HashIterations = defaultHashIterations
	}

	if cfg.Lockout.Threshold == 0 {
		cfg.Lockout.Threshold = defaultLockoutThreshold
	}
	if cfg.Lockout.Duration == 0 {
		cfg.Lockout.Duration = defaultLockoutDuration
	}

	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultReqTimeout
	}

	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = defaultDSN
	}

	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = defaultAuditBuffer
	}
	if cfg.Audit.WebhookTimeout == 0 {
		cfg.Audit.WebhookTimeout = defaultWebhookTimeout
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The signing key check is deliberately fatal: running production traffic
// on the well-known development secret would make every issued token
// forgeable by anyone who has read this repository.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Production && cfg.Auth.TokenSignKey == DefaultTokenSignKey {
		return ErrInsecureTokenSignKey
	}

	if cfg.Auth.AccessTokenTTL < 0 || cfg.Auth.RefreshTokenTTL < 0 {
		return ErrInvalidTokenTTL
	}

	if cfg.Lockout.Threshold < 1 || cfg.Lockout.Duration < 0 {
		return ErrInvalidLockoutConfigs
	}

	return nil
}
