// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/marketplace-auth/internal/config"
	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/utils"
	"github.com/MKhiriev/marketplace-auth/models"
)

const (
	// audienceAccess marks tokens accepted by the API middleware.
	audienceAccess = "marketplace-api"

	// audienceRefresh marks tokens accepted only by the refresh endpoint.
	// An access token presented there is invalid, and vice versa.
	audienceRefresh = "marketplace-refresh"
)

// tokenService is the concrete implementation of TokenService.
// Both token kinds are HS256-signed JWTs sharing one symmetric key; they
// are told apart by the "aud" claim, which is always checked explicitly.
type tokenService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// accessTokenTTL controls how long a newly issued access token remains valid.
	accessTokenTTL time.Duration

	// refreshTokenTTL controls how long a newly issued refresh token remains valid.
	refreshTokenTTL time.Duration

	// ids generates "jti" values for access tokens.
	ids *utils.UUIDGenerator

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewTokenService constructs a TokenService populated with signing
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewTokenService(cfg config.Auth, logger *logger.Logger) TokenService {
	return &tokenService{
		tokenSignKey:    cfg.TokenSignKey,
		tokenIssuer:     cfg.TokenIssuer,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		ids:             utils.NewUUIDGenerator(),
		logger:          logger,
	}
}

// IssueAccessToken signs a short-lived access token for the given user.
//
// The token carries the user ID as "sub", the configured issuer, the API
// audience, and the email/role attributes needed for stateless
// authorization.
//
// Returns the compact JWS string or a wrapped ErrTokenCreationFailed.
func (t *tokenService) IssueAccessToken(user models.User) (string, error) {
	now := time.Now().UTC()

	claims := models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.tokenIssuer,
			Subject:   strconv.FormatInt(user.UserID, 10),
			Audience:  jwt.ClaimStrings{audienceAccess},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        t.ids.Generate(),
		},
		Email: user.Email,
		Role:  user.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.tokenSignKey))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return signed, nil
}

// IssueRefreshToken signs a refresh token whose "jti" claim is tokenID —
// the ID of the ledger record that tracks its revocation state.
//
// Refresh tokens deliberately carry no email/role: the refresh flow
// re-reads the account, so stale attributes cannot leak into new access
// tokens.
func (t *tokenService) IssueRefreshToken(user models.User, tokenID string) (string, error) {
	now := time.Now().UTC()

	claims := jwt.RegisteredClaims{
		Issuer:    t.tokenIssuer,
		Subject:   strconv.FormatInt(user.UserID, 10),
		Audience:  jwt.ClaimStrings{audienceRefresh},
		ExpiresAt: jwt.NewNumericDate(now.Add(t.refreshTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        tokenID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.tokenSignKey))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return signed, nil
}

// VerifyAccessToken validates a raw access token string.
//
// Signature, expiry, issuer and the API audience are all checked; any
// failure is normalised to ErrTokenIsExpired or ErrTokenIsInvalid so that
// callers do not need to inspect low-level JWT errors.
func (t *tokenService) VerifyAccessToken(tokenString string) (models.Identity, error) {
	claims := &models.AccessClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, t.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.tokenIssuer),
		jwt.WithAudience(audienceAccess),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Identity{}, classifyTokenError(err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return models.Identity{}, ErrTokenIsInvalid
	}
	if !claims.Role.Valid() {
		return models.Identity{}, ErrTokenIsInvalid
	}

	return models.Identity{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// VerifyRefreshToken validates a raw refresh token string and returns the
// subject user ID together with the "jti" ledger record ID. The ledger
// itself (revocation, hash match) is the orchestrator's concern.
func (t *tokenService) VerifyRefreshToken(tokenString string) (int64, string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, t.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.tokenIssuer),
		jwt.WithAudience(audienceRefresh),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, "", classifyTokenError(err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", ErrTokenIsInvalid
	}
	if claims.ID == "" {
		return 0, "", ErrTokenIsInvalid
	}

	return userID, claims.ID, nil
}

func (t *tokenService) keyFunc(*jwt.Token) (any, error) {
	return []byte(t.tokenSignKey), nil
}

// classifyTokenError collapses the jwt library's error tree into the two
// sentinels callers care about: expired vs everything else.
func classifyTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenIsExpired
	}
	return ErrTokenIsInvalid
}
