// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/marketplace-auth/internal/config"
	"github.com/MKhiriev/marketplace-auth/internal/crypto"
	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/store"
	"github.com/MKhiriev/marketplace-auth/internal/utils"
	"github.com/MKhiriev/marketplace-auth/models"
)

// authService is the concrete implementation of AuthService.
// It composes the user repository, the refresh token ledger, the token
// service, the password hasher and the lockout policy, and reports every
// outcome to the audit trail.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokenRepository is the refresh token revocation ledger.
	tokenRepository store.RefreshTokenRepository

	// tokenService signs and verifies both JWT kinds.
	tokenService TokenService

	// hasher derives and verifies password hashes.
	hasher crypto.PasswordHasher

	// lockout applies the progressive lockout policy on failed logins.
	lockout *lockoutManager

	// refreshTokenTTL bounds the ledger-side expiry of issued refresh
	// tokens; kept in sync with the token service through shared config.
	refreshTokenTTL time.Duration

	// ids generates ledger record IDs, which double as refresh token "jti".
	ids *utils.UUIDGenerator

	// audit receives one event per auth decision; delivery is asynchronous
	// and never gates the decision itself.
	audit AuditRecorder

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repositories
// and collaborators.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(
	userRepository store.UserRepository,
	tokenRepository store.RefreshTokenRepository,
	tokenService TokenService,
	hasher crypto.PasswordHasher,
	lockout *lockoutManager,
	cfg config.Auth,
	audit AuditRecorder,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		tokenService:    tokenService,
		hasher:          hasher,
		lockout:         lockout,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		ids:             utils.NewUUIDGenerator(),
		audit:           audit,
		logger:          logger,
	}
}

// Register creates a new account and issues the initial token pair.
//
// The request is assumed to be validated (email format, password policy,
// role enum) by the transport layer; this method normalises the email,
// hashes the password and delegates persistence to the UserRepository.
//
// Returns the persisted user and token pair, or:
//   - store.ErrEmailAlreadyExists if the email is taken.
//   - A wrapped error on hashing or storage failure.
func (a *authService) Register(ctx context.Context, request models.RegisterRequest) (models.User, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	role, err := models.ParseRole(request.Role)
	if err != nil {
		a.recordAudit(ctx, models.AuditActorUnknown, models.AuditActionRegister, models.AuditOutcomeFailure, err)
		return models.User{}, models.TokenPair{}, err
	}

	passwordHash, err := a.hasher.Hash(request.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("password hashing ended with error")
		a.recordAudit(ctx, models.AuditActorUnknown, models.AuditActionRegister, models.AuditOutcomeFailure, err)
		return models.User{}, models.TokenPair{}, fmt.Errorf("password hashing ended with error: %w", err)
	}

	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(request.Email)),
		PasswordHash: passwordHash,
		Role:         role,
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("email", user.Email).Str("func", "*authService.Register").Msg("user creation ended with error")
		a.recordAudit(ctx, models.AuditActorUnknown, models.AuditActionRegister, models.AuditOutcomeFailure, err)
		return models.User{}, models.TokenPair{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	pair, err := a.issueTokenPair(ctx, registeredUser)
	if err != nil {
		a.recordAudit(ctx, actorID(registeredUser.UserID), models.AuditActionRegister, models.AuditOutcomeFailure, err)
		return models.User{}, models.TokenPair{}, err
	}

	a.recordAudit(ctx, actorID(registeredUser.UserID), models.AuditActionRegister, models.AuditOutcomeSuccess, nil)
	return registeredUser, pair, nil
}

// Login authenticates an existing account and issues a fresh token pair.
//
// Order of checks: account lookup, lock window, active flag, password.
// When the account does not exist a dummy verification runs anyway so the
// response time does not reveal which emails are registered. All failures
// except the lock collapse into ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, request models.LoginRequest) (models.User, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	email := strings.ToLower(strings.TrimSpace(request.Email))

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			// level the timing against the lookup-hit path
			_, _ = a.hasher.Verify(request.Password, a.hasher.DummyHash())
			a.recordAudit(ctx, models.AuditActorUnknown, models.AuditActionLogin, models.AuditOutcomeFailure, ErrInvalidCredentials)
			return models.User{}, models.TokenPair{}, ErrInvalidCredentials
		}
		log.Err(err).Str("func", "*authService.Login").Msg("user search by email failed")
		return models.User{}, models.TokenPair{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if a.lockout.isLocked(user) {
		a.recordAudit(ctx, actorID(user.UserID), models.AuditActionLogin, models.AuditOutcomeFailure, ErrAccountLocked)
		return models.User{}, models.TokenPair{}, ErrAccountLocked
	}

	if !user.Active {
		a.recordAudit(ctx, actorID(user.UserID), models.AuditActionLogin, models.AuditOutcomeFailure, ErrAccountInactive)
		return models.User{}, models.TokenPair{}, ErrInvalidCredentials
	}

	match, err := a.hasher.Verify(request.Password, user.PasswordHash)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Str("func", "*authService.Login").Msg("password verification ended with error")
		return models.User{}, models.TokenPair{}, fmt.Errorf("password verification ended with error: %w", err)
	}

	if !match {
		locked, failErr := a.lockout.registerFailure(ctx, user.UserID)
		if failErr != nil {
			log.Err(failErr).Int64("id", user.UserID).Str("func", "*authService.Login").Msg("lockout accounting failed")
		}
		if locked {
			a.recordAudit(ctx, actorID(user.UserID), models.AuditActionLockout, models.AuditOutcomeSuccess, nil)
		}
		a.recordAudit(ctx, actorID(user.UserID), models.AuditActionLogin, models.AuditOutcomeFailure, ErrInvalidCredentials)
		return models.User{}, models.TokenPair{}, ErrInvalidCredentials
	}

	if err = a.lockout.registerSuccess(ctx, user.UserID); err != nil {
		log.Err(err).Int64("id", user.UserID).Str("func", "*authService.Login").Msg("resetting lockout counter failed")
	}

	pair, err := a.issueTokenPair(ctx, user)
	if err != nil {
		a.recordAudit(ctx, actorID(user.UserID), models.AuditActionLogin, models.AuditOutcomeFailure, err)
		return models.User{}, models.TokenPair{}, err
	}

	a.recordAudit(ctx, actorID(user.UserID), models.AuditActionLogin, models.AuditOutcomeSuccess, nil)
	return user, pair, nil
}

// Refresh exchanges a live refresh token for a new access token.
//
// Two ordered gates: the token itself (signature, expiry, issuer, refresh
// audience), then the ledger (known, not revoked, not past its recorded
// expiry). The refresh token is NOT rotated: it stays valid until its own
// expiry or an explicit revocation.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	log := logger.FromContext(ctx)

	userID, tokenID, err := a.tokenService.VerifyRefreshToken(refreshToken)
	if err != nil {
		a.recordAudit(ctx, models.AuditActorUnknown, models.AuditActionRefresh, models.AuditOutcomeFailure, err)
		return "", err
	}

	record, err := a.tokenRepository.FindToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrRefreshTokenNotFound) {
			a.recordAudit(ctx, actorID(userID), models.AuditActionRefresh, models.AuditOutcomeFailure, ErrTokenIsInvalid)
			return "", ErrTokenIsInvalid
		}
		log.Err(err).Str("func", "*authService.Refresh").Msg("refresh token lookup failed")
		return "", fmt.Errorf("refresh token lookup failed: %w", err)
	}

	if record.Revoked {
		a.recordAudit(ctx, actorID(userID), models.AuditActionRefresh, models.AuditOutcomeFailure, ErrRefreshTokenRevoked)
		return "", ErrRefreshTokenRevoked
	}
	if time.Now().UTC().After(record.ExpiresAt) {
		a.recordAudit(ctx, actorID(userID), models.AuditActionRefresh, models.AuditOutcomeFailure, ErrTokenIsExpired)
		return "", ErrTokenIsExpired
	}
	if record.ID != tokenID || record.UserID != userID {
		a.recordAudit(ctx, actorID(userID), models.AuditActionRefresh, models.AuditOutcomeFailure, ErrTokenIsInvalid)
		return "", ErrTokenIsInvalid
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			a.recordAudit(ctx, actorID(userID), models.AuditActionRefresh, models.AuditOutcomeFailure, ErrTokenIsInvalid)
			return "", ErrTokenIsInvalid
		}
		log.Err(err).Int64("id", userID).Str("func", "*authService.Refresh").Msg("user search by id failed")
		return "", fmt.Errorf("user search by id failed: %w", err)
	}

	if !user.Active {
		a.recordAudit(ctx, actorID(userID), models.AuditActionRefresh, models.AuditOutcomeFailure, ErrAccountInactive)
		return "", ErrAccountInactive
	}

	accessToken, err := a.tokenService.IssueAccessToken(user)
	if err != nil {
		log.Err(err).Int64("id", userID).Str("func", "*authService.Refresh").Msg("access token issuance failed")
		a.recordAudit(ctx, actorID(userID), models.AuditActionRefresh, models.AuditOutcomeFailure, err)
		return "", err
	}

	a.recordAudit(ctx, actorID(userID), models.AuditActionRefresh, models.AuditOutcomeSuccess, nil)
	return accessToken, nil
}

// Logout revokes the given refresh token in the ledger.
//
// Idempotent by design: revoking an unknown or already-revoked token
// succeeds silently, so a client retrying a logout never sees an error.
// The token signature is not re-verified — possession of the raw value is
// enough to void it.
func (a *authService) Logout(ctx context.Context, refreshToken string) error {
	log := logger.FromContext(ctx)

	actor := models.AuditActorUnknown
	if userID, _, err := a.tokenService.VerifyRefreshToken(refreshToken); err == nil {
		actor = actorID(userID)
	}

	if err := a.tokenRepository.RevokeToken(ctx, refreshToken); err != nil {
		log.Err(err).Str("func", "*authService.Logout").Msg("refresh token revocation failed")
		a.recordAudit(ctx, actor, models.AuditActionLogout, models.AuditOutcomeFailure, err)
		return fmt.Errorf("refresh token revocation failed: %w", err)
	}

	a.recordAudit(ctx, actor, models.AuditActionLogout, models.AuditOutcomeSuccess, nil)
	return nil
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every live refresh token of the account, forcing other sessions
// to re-authenticate.
//
// Returns ErrWrongPassword when the current password does not verify.
func (a *authService) ChangePassword(ctx context.Context, userID int64, request models.ChangePasswordRequest) error {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("id", userID).Str("func", "*authService.ChangePassword").Msg("user search by id failed")
		return fmt.Errorf("user search by id failed: %w", err)
	}

	match, err := a.hasher.Verify(request.CurrentPassword, user.PasswordHash)
	if err != nil {
		log.Err(err).Int64("id", userID).Str("func", "*authService.ChangePassword").Msg("password verification ended with error")
		return fmt.Errorf("password verification ended with error: %w", err)
	}
	if !match {
		a.recordAudit(ctx, actorID(userID), models.AuditActionChangePassword, models.AuditOutcomeFailure, ErrWrongPassword)
		return ErrWrongPassword
	}

	newHash, err := a.hasher.Hash(request.NewPassword)
	if err != nil {
		log.Err(err).Int64("id", userID).Str("func", "*authService.ChangePassword").Msg("password hashing ended with error")
		return fmt.Errorf("password hashing ended with error: %w", err)
	}

	if err = a.userRepository.UpdatePassword(ctx, userID, newHash); err != nil {
		log.Err(err).Int64("id", userID).Str("func", "*authService.ChangePassword").Msg("password update ended with error")
		a.recordAudit(ctx, actorID(userID), models.AuditActionChangePassword, models.AuditOutcomeFailure, err)
		return fmt.Errorf("password update ended with error: %w", err)
	}

	revoked, err := a.tokenRepository.RevokeAllUserTokens(ctx, userID)
	if err != nil {
		// the password is already changed; report the revocation failure
		// without rolling anything back
		log.Err(err).Int64("id", userID).Str("func", "*authService.ChangePassword").Msg("revoking user sessions failed")
		a.recordAudit(ctx, actorID(userID), models.AuditActionChangePassword, models.AuditOutcomeFailure, err)
		return fmt.Errorf("revoking user sessions failed: %w", err)
	}

	log.Info().Int64("id", userID).Int64("revoked", revoked).Msg("password changed, live sessions revoked")
	a.recordAudit(ctx, actorID(userID), models.AuditActionChangePassword, models.AuditOutcomeSuccess, nil)
	return nil
}

// GetUser loads the account behind an authenticated identity.
func (a *authService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("id", userID).Str("func", "*authService.GetUser").Msg("user search by id failed")
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return user, nil
}

// DeactivateUser soft-deactivates an account and revokes every live refresh
// token it holds. Outstanding access tokens stay cryptographically valid
// until expiry; the refresh path is cut immediately.
func (a *authService) DeactivateUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if err := a.userRepository.DeactivateUser(ctx, userID); err != nil {
		log.Err(err).Int64("id", userID).Str("func", "*authService.DeactivateUser").Msg("user deactivation ended with error")
		a.recordAudit(ctx, actorID(userID), models.AuditActionDeactivate, models.AuditOutcomeFailure, err)
		return fmt.Errorf("user deactivation ended with error: %w", err)
	}

	revoked, err := a.tokenRepository.RevokeAllUserTokens(ctx, userID)
	if err != nil {
		log.Err(err).Int64("id", userID).Str("func", "*authService.DeactivateUser").Msg("revoking user sessions failed")
		a.recordAudit(ctx, actorID(userID), models.AuditActionDeactivate, models.AuditOutcomeFailure, err)
		return fmt.Errorf("revoking user sessions failed: %w", err)
	}

	log.Info().Int64("id", userID).Int64("revoked", revoked).Msg("user deactivated, live sessions revoked")
	a.recordAudit(ctx, actorID(userID), models.AuditActionDeactivate, models.AuditOutcomeSuccess, nil)
	return nil
}

// issueTokenPair signs both tokens and records the refresh token in the
// ledger. The ledger record ID is generated first so it can be embedded as
// the refresh token's "jti" claim.
func (a *authService) issueTokenPair(ctx context.Context, user models.User) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	accessToken, err := a.tokenService.IssueAccessToken(user)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Str("func", "*authService.issueTokenPair").Msg("access token issuance failed")
		return models.TokenPair{}, err
	}

	tokenID := a.ids.Generate()
	refreshToken, err := a.tokenService.IssueRefreshToken(user, tokenID)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Str("func", "*authService.issueTokenPair").Msg("refresh token issuance failed")
		return models.TokenPair{}, err
	}

	record := models.RefreshToken{
		ID:        tokenID,
		UserID:    user.UserID,
		ExpiresAt: time.Now().UTC().Add(a.refreshTokenTTL),
	}
	if _, err = a.tokenRepository.RecordToken(ctx, record, refreshToken); err != nil {
		log.Err(err).Int64("id", user.UserID).Str("func", "*authService.issueTokenPair").Msg("recording refresh token failed")
		return models.TokenPair{}, fmt.Errorf("recording refresh token failed: %w", err)
	}

	return models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// recordAudit emits one audit event for an auth decision. The origin is
// taken from the request context when the transport layer put it there.
func (a *authService) recordAudit(ctx context.Context, actor, action, outcome string, cause error) {
	event := models.AuditEvent{
		Actor:   actor,
		Action:  action,
		Outcome: outcome,
		Origin:  utils.GetClientOriginFromContext(ctx),
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	a.audit.Record(ctx, event)
}

func actorID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
