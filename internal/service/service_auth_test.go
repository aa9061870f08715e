// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/marketplace-auth/internal/config"
	"github.com/MKhiriev/marketplace-auth/internal/crypto"
	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/store"
	"github.com/MKhiriev/marketplace-auth/models"
)

const testHashIterations = 1_000

func newTestHasher(t *testing.T) crypto.PasswordHasher {
	t.Helper()

	hasher, err := crypto.NewPasswordHasher(testHashIterations)
	require.NoError(t, err)
	return hasher
}

func newTestAuthService(
	t *testing.T,
	users store.UserRepository,
	ledger store.RefreshTokenRepository,
	hasher crypto.PasswordHasher,
	audit AuditRecorder,
) (AuthService, TokenService) {
	t.Helper()

	cfg := testAuthConfig()
	tokens := NewTokenService(cfg, logger.Nop())
	lockout := newLockoutManager(users, config.Lockout{Threshold: 5, Duration: 15 * time.Minute}, logger.Nop())

	return NewAuthService(users, ledger, tokens, hasher, lockout, cfg, audit, logger.Nop()), tokens
}

func mustHash(t *testing.T, hasher crypto.PasswordHasher, password string) string {
	t.Helper()

	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	return hash
}

// ─────────────────────────────────────────────
// Register
// ─────────────────────────────────────────────

func TestAuthService_Register_Success(t *testing.T) {
	var recorded models.RefreshToken

	users := &mockUserRepository{
		createUserFn: func(_ context.Context, user models.User) (models.User, error) {
			user.UserID = 7
			user.Active = true
			return user, nil
		},
	}
	ledger := &mockRefreshTokenRepository{
		recordTokenFn: func(_ context.Context, record models.RefreshToken, _ string) (models.RefreshToken, error) {
			recorded = record
			return record, nil
		},
	}
	audit := &mockAuditRecorder{}
	auth, tokens := newTestAuthService(t, users, ledger, newTestHasher(t), audit)

	user, pair, err := auth.Register(context.Background(), models.RegisterRequest{
		Email:    "Buyer@Example.com",
		Password: "Password1",
		Role:     "BUYER",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), user.UserID)
	assert.Equal(t, "buyer@example.com", user.Email, "email must be normalised to lower case")
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// the ledger record must carry the owner and the refresh token's jti
	assert.Equal(t, int64(7), recorded.UserID)
	_, tokenID, err := tokens.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, recorded.ID, tokenID)

	assert.True(t, audit.has(models.AuditActionRegister, models.AuditOutcomeSuccess))
}

func TestAuthService_Register_EmailAlreadyTaken(t *testing.T) {
	users := &mockUserRepository{
		createUserFn: func(context.Context, models.User) (models.User, error) {
			return models.User{}, store.ErrEmailAlreadyExists
		},
	}
	audit := &mockAuditRecorder{}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, newTestHasher(t), audit)

	_, _, err := auth.Register(context.Background(), models.RegisterRequest{
		Email:    "taken@example.com",
		Password: "Password1",
		Role:     "SELLER",
	})

	assert.ErrorIs(t, err, store.ErrEmailAlreadyExists)
	assert.True(t, audit.has(models.AuditActionRegister, models.AuditOutcomeFailure))
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	auth, _ := newTestAuthService(t, &mockUserRepository{}, &mockRefreshTokenRepository{}, newTestHasher(t), &mockAuditRecorder{})

	_, _, err := auth.Register(context.Background(), models.RegisterRequest{
		Email:    "buyer@example.com",
		Password: "Password1",
		Role:     "SUPERUSER",
	})

	assert.Error(t, err)
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func TestAuthService_Login_Success(t *testing.T) {
	hasher := newTestHasher(t)
	successRecorded := false

	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{
				UserID:       9,
				Email:        email,
				PasswordHash: mustHash(t, hasher, "Password1"),
				Role:         models.RoleBuyer,
				Active:       true,
			}, nil
		},
		recordLoginSuccessFn: func(context.Context, int64, time.Time) error {
			successRecorded = true
			return nil
		},
	}
	audit := &mockAuditRecorder{}
	auth, tokens := newTestAuthService(t, users, &mockRefreshTokenRepository{}, hasher, audit)

	user, pair, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "buyer@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9), user.UserID)
	assert.True(t, successRecorded, "successful login must reset the lockout counter")

	identity, err := tokens.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(9), identity.UserID)
	assert.Equal(t, models.RoleBuyer, identity.Role)

	assert.True(t, audit.has(models.AuditActionLogin, models.AuditOutcomeSuccess))
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	users := &mockUserRepository{
		findUserByEmailFn: func(context.Context, string) (models.User, error) {
			return models.User{}, store.ErrNoUserWasFound
		},
	}
	audit := &mockAuditRecorder{}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, newTestHasher(t), audit)

	_, _, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Password1",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, audit.has(models.AuditActionLogin, models.AuditOutcomeFailure))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hasher := newTestHasher(t)
	failureRecorded := false

	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{
				UserID:       9,
				Email:        email,
				PasswordHash: mustHash(t, hasher, "Password1"),
				Role:         models.RoleBuyer,
				Active:       true,
			}, nil
		},
		recordLoginFailureFn: func(context.Context, int64, int, time.Time) (int, *time.Time, error) {
			failureRecorded = true
			return 1, nil, nil
		},
	}
	audit := &mockAuditRecorder{}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, hasher, audit)

	_, _, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "buyer@example.com",
		Password: "not-the-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, failureRecorded, "wrong password must feed the lockout counter")
	assert.False(t, audit.has(models.AuditActionLockout, models.AuditOutcomeSuccess))
}

func TestAuthService_Login_WrongPasswordTripsLock(t *testing.T) {
	hasher := newTestHasher(t)

	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{
				UserID:       9,
				Email:        email,
				PasswordHash: mustHash(t, hasher, "Password1"),
				Role:         models.RoleBuyer,
				Active:       true,
			}, nil
		},
		recordLoginFailureFn: func(_ context.Context, _ int64, _ int, lockUntil time.Time) (int, *time.Time, error) {
			return 5, &lockUntil, nil
		},
	}
	audit := &mockAuditRecorder{}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, hasher, audit)

	_, _, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "buyer@example.com",
		Password: "not-the-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, audit.has(models.AuditActionLockout, models.AuditOutcomeSuccess))
}

func TestAuthService_Login_LockedAccount(t *testing.T) {
	hasher := newTestHasher(t)
	lockedUntil := time.Now().UTC().Add(10 * time.Minute)
	passwordChecked := false

	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{
				UserID:              9,
				Email:               email,
				PasswordHash:        mustHash(t, hasher, "Password1"),
				Role:                models.RoleBuyer,
				Active:              true,
				FailedLoginAttempts: 5,
				LockedUntil:         &lockedUntil,
			}, nil
		},
		recordLoginFailureFn: func(context.Context, int64, int, time.Time) (int, *time.Time, error) {
			passwordChecked = true
			return 6, &lockedUntil, nil
		},
	}
	audit := &mockAuditRecorder{}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, hasher, audit)

	_, _, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "buyer@example.com",
		Password: "Password1",
	})

	assert.ErrorIs(t, err, ErrAccountLocked)
	assert.False(t, passwordChecked, "locked accounts must be rejected before password verification")
}

func TestAuthService_Login_ExpiredLockAdmitsUser(t *testing.T) {
	hasher := newTestHasher(t)
	lockedUntil := time.Now().UTC().Add(-time.Minute)

	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{
				UserID:              9,
				Email:               email,
				PasswordHash:        mustHash(t, hasher, "Password1"),
				Role:                models.RoleBuyer,
				Active:              true,
				FailedLoginAttempts: 5,
				LockedUntil:         &lockedUntil,
			}, nil
		},
	}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, hasher, &mockAuditRecorder{})

	_, _, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "buyer@example.com",
		Password: "Password1",
	})

	assert.NoError(t, err)
}

func TestAuthService_Login_ExpiredLockGrantsFreshAllowance(t *testing.T) {
	hasher := newTestHasher(t)
	lockedUntil := time.Now().UTC().Add(-time.Minute)

	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{
				UserID:              9,
				Email:               email,
				PasswordHash:        mustHash(t, hasher, "Password1"),
				Role:                models.RoleBuyer,
				Active:              true,
				FailedLoginAttempts: 5,
				LockedUntil:         &lockedUntil,
			}, nil
		},
		// the guarded UPDATE resets the stale counter before counting this
		// failure, so the account restarts at 1 with no lock
		recordLoginFailureFn: func(context.Context, int64, int, time.Time) (int, *time.Time, error) {
			return 1, nil, nil
		},
	}
	audit := &mockAuditRecorder{}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, hasher, audit)

	// a single mistype after the lock window elapsed must not re-lock
	_, _, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "buyer@example.com",
		Password: "not-the-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrAccountLocked)
	assert.False(t, audit.has(models.AuditActionLockout, models.AuditOutcomeSuccess))
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	hasher := newTestHasher(t)

	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{
				UserID:       9,
				Email:        email,
				PasswordHash: mustHash(t, hasher, "Password1"),
				Role:         models.RoleBuyer,
				Active:       false,
			}, nil
		},
	}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, hasher, &mockAuditRecorder{})

	_, _, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "buyer@example.com",
		Password: "Password1",
	})

	// deactivation is not disclosed to the caller
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ─────────────────────────────────────────────
// Refresh
// ─────────────────────────────────────────────

func refreshFixture(t *testing.T, tokens TokenService, user models.User, tokenID string) (string, models.RefreshToken) {
	t.Helper()

	raw, err := tokens.IssueRefreshToken(user, tokenID)
	require.NoError(t, err)

	return raw, models.RefreshToken{
		ID:        tokenID,
		UserID:    user.UserID,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}
}

func TestAuthService_Refresh_Success(t *testing.T) {
	user := testUser()
	users := &mockUserRepository{
		findUserByIDFn: func(context.Context, int64) (models.User, error) {
			return user, nil
		},
	}

	audit := &mockAuditRecorder{}
	ledger := &mockRefreshTokenRepository{}
	auth, tokens := newTestAuthService(t, users, ledger, newTestHasher(t), audit)

	raw, record := refreshFixture(t, tokens, user, "tid-1")
	ledger.findTokenFn = func(context.Context, string) (models.RefreshToken, error) {
		return record, nil
	}

	accessToken, err := auth.Refresh(context.Background(), raw)
	require.NoError(t, err)

	identity, err := tokens.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, identity.UserID)

	assert.True(t, audit.has(models.AuditActionRefresh, models.AuditOutcomeSuccess))
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	user := testUser()
	ledger := &mockRefreshTokenRepository{}
	auth, tokens := newTestAuthService(t, &mockUserRepository{}, ledger, newTestHasher(t), &mockAuditRecorder{})

	raw, record := refreshFixture(t, tokens, user, "tid-1")
	record.Revoked = true
	ledger.findTokenFn = func(context.Context, string) (models.RefreshToken, error) {
		return record, nil
	}

	_, err := auth.Refresh(context.Background(), raw)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
}

func TestAuthService_Refresh_LedgerExpiry(t *testing.T) {
	user := testUser()
	ledger := &mockRefreshTokenRepository{}
	auth, tokens := newTestAuthService(t, &mockUserRepository{}, ledger, newTestHasher(t), &mockAuditRecorder{})

	raw, record := refreshFixture(t, tokens, user, "tid-1")
	record.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	ledger.findTokenFn = func(context.Context, string) (models.RefreshToken, error) {
		return record, nil
	}

	_, err := auth.Refresh(context.Background(), raw)
	assert.ErrorIs(t, err, ErrTokenIsExpired)
}

func TestAuthService_Refresh_UnknownLedgerRow(t *testing.T) {
	ledger := &mockRefreshTokenRepository{
		findTokenFn: func(context.Context, string) (models.RefreshToken, error) {
			return models.RefreshToken{}, store.ErrRefreshTokenNotFound
		},
	}
	auth, tokens := newTestAuthService(t, &mockUserRepository{}, ledger, newTestHasher(t), &mockAuditRecorder{})

	raw, _ := refreshFixture(t, tokens, testUser(), "tid-1")

	_, err := auth.Refresh(context.Background(), raw)
	assert.ErrorIs(t, err, ErrTokenIsInvalid)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	auth, tokens := newTestAuthService(t, &mockUserRepository{}, &mockRefreshTokenRepository{}, newTestHasher(t), &mockAuditRecorder{})

	access, err := tokens.IssueAccessToken(testUser())
	require.NoError(t, err)

	_, err = auth.Refresh(context.Background(), access)
	assert.ErrorIs(t, err, ErrTokenIsInvalid)
}

func TestAuthService_Refresh_DeactivatedAccount(t *testing.T) {
	user := testUser()
	user.Active = false

	users := &mockUserRepository{
		findUserByIDFn: func(context.Context, int64) (models.User, error) {
			return user, nil
		},
	}
	ledger := &mockRefreshTokenRepository{}
	auth, tokens := newTestAuthService(t, users, ledger, newTestHasher(t), &mockAuditRecorder{})

	raw, record := refreshFixture(t, tokens, user, "tid-1")
	ledger.findTokenFn = func(context.Context, string) (models.RefreshToken, error) {
		return record, nil
	}

	_, err := auth.Refresh(context.Background(), raw)
	assert.ErrorIs(t, err, ErrAccountInactive)
}

// ─────────────────────────────────────────────
// Logout
// ─────────────────────────────────────────────

func TestAuthService_Logout_Success(t *testing.T) {
	revoked := false
	ledger := &mockRefreshTokenRepository{
		revokeTokenFn: func(context.Context, string) error {
			revoked = true
			return nil
		},
	}
	audit := &mockAuditRecorder{}
	auth, tokens := newTestAuthService(t, &mockUserRepository{}, ledger, newTestHasher(t), audit)

	raw, _ := refreshFixture(t, tokens, testUser(), "tid-1")

	require.NoError(t, auth.Logout(context.Background(), raw))
	assert.True(t, revoked)
	assert.True(t, audit.has(models.AuditActionLogout, models.AuditOutcomeSuccess))
}

func TestAuthService_Logout_UnknownTokenIsIdempotent(t *testing.T) {
	auth, _ := newTestAuthService(t, &mockUserRepository{}, &mockRefreshTokenRepository{}, newTestHasher(t), &mockAuditRecorder{})

	// a garbage token revokes nothing and still succeeds
	assert.NoError(t, auth.Logout(context.Background(), "not-a-token"))
}

func TestAuthService_Logout_StorageError(t *testing.T) {
	dbErr := errors.New("connection reset")
	ledger := &mockRefreshTokenRepository{
		revokeTokenFn: func(context.Context, string) error {
			return dbErr
		},
	}
	auth, _ := newTestAuthService(t, &mockUserRepository{}, ledger, newTestHasher(t), &mockAuditRecorder{})

	err := auth.Logout(context.Background(), "whatever")
	assert.ErrorIs(t, err, dbErr)
}

// ─────────────────────────────────────────────
// ChangePassword
// ─────────────────────────────────────────────

func TestAuthService_ChangePassword_Success(t *testing.T) {
	hasher := newTestHasher(t)
	var storedHash string
	sessionsRevoked := false

	users := &mockUserRepository{
		findUserByIDFn: func(_ context.Context, userID int64) (models.User, error) {
			return models.User{
				UserID:       userID,
				Email:        "buyer@example.com",
				PasswordHash: mustHash(t, hasher, "OldPassword1"),
				Role:         models.RoleBuyer,
				Active:       true,
			}, nil
		},
		updatePasswordFn: func(_ context.Context, _ int64, passwordHash string) error {
			storedHash = passwordHash
			return nil
		},
	}
	ledger := &mockRefreshTokenRepository{
		revokeAllUserTokensFn: func(context.Context, int64) (int64, error) {
			sessionsRevoked = true
			return 2, nil
		},
	}
	audit := &mockAuditRecorder{}
	auth, _ := newTestAuthService(t, users, ledger, hasher, audit)

	err := auth.ChangePassword(context.Background(), 9, models.ChangePasswordRequest{
		CurrentPassword: "OldPassword1",
		NewPassword:     "NewPassword1",
	})
	require.NoError(t, err)

	match, err := hasher.Verify("NewPassword1", storedHash)
	require.NoError(t, err)
	assert.True(t, match, "the stored hash must verify against the new password")

	assert.True(t, sessionsRevoked, "a password change must revoke every live session")
	assert.True(t, audit.has(models.AuditActionChangePassword, models.AuditOutcomeSuccess))
}

func TestAuthService_ChangePassword_WrongCurrentPassword(t *testing.T) {
	hasher := newTestHasher(t)
	passwordUpdated := false

	users := &mockUserRepository{
		findUserByIDFn: func(_ context.Context, userID int64) (models.User, error) {
			return models.User{
				UserID:       userID,
				PasswordHash: mustHash(t, hasher, "OldPassword1"),
				Active:       true,
			}, nil
		},
		updatePasswordFn: func(context.Context, int64, string) error {
			passwordUpdated = true
			return nil
		},
	}
	audit := &mockAuditRecorder{}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, hasher, audit)

	err := auth.ChangePassword(context.Background(), 9, models.ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "NewPassword1",
	})

	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.False(t, passwordUpdated)
	assert.True(t, audit.has(models.AuditActionChangePassword, models.AuditOutcomeFailure))
}

// ─────────────────────────────────────────────
// DeactivateUser
// ─────────────────────────────────────────────

func TestAuthService_DeactivateUser(t *testing.T) {
	deactivated := false
	sessionsRevoked := false

	users := &mockUserRepository{
		deactivateUserFn: func(_ context.Context, userID int64) error {
			deactivated = true
			assert.Equal(t, int64(9), userID)
			return nil
		},
	}
	ledger := &mockRefreshTokenRepository{
		revokeAllUserTokensFn: func(context.Context, int64) (int64, error) {
			sessionsRevoked = true
			return 1, nil
		},
	}
	audit := &mockAuditRecorder{}
	auth, _ := newTestAuthService(t, users, ledger, newTestHasher(t), audit)

	require.NoError(t, auth.DeactivateUser(context.Background(), 9))
	assert.True(t, deactivated)
	assert.True(t, sessionsRevoked, "deactivation must cut the refresh path immediately")
	assert.True(t, audit.has(models.AuditActionDeactivate, models.AuditOutcomeSuccess))
}

func TestAuthService_DeactivateUser_UnknownUser(t *testing.T) {
	users := &mockUserRepository{
		deactivateUserFn: func(context.Context, int64) error {
			return store.ErrNoUserWasFound
		},
	}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, newTestHasher(t), &mockAuditRecorder{})

	err := auth.DeactivateUser(context.Background(), 9)
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

// ─────────────────────────────────────────────
// GetUser
// ─────────────────────────────────────────────

func TestAuthService_GetUser(t *testing.T) {
	users := &mockUserRepository{
		findUserByIDFn: func(_ context.Context, userID int64) (models.User, error) {
			return models.User{UserID: userID, Email: "buyer@example.com"}, nil
		},
	}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, newTestHasher(t), &mockAuditRecorder{})

	user, err := auth.GetUser(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.UserID)
}

func TestAuthService_GetUser_NotFound(t *testing.T) {
	users := &mockUserRepository{
		findUserByIDFn: func(context.Context, int64) (models.User, error) {
			return models.User{}, store.ErrNoUserWasFound
		},
	}
	auth, _ := newTestAuthService(t, users, &mockRefreshTokenRepository{}, newTestHasher(t), &mockAuditRecorder{})

	_, err := auth.GetUser(context.Background(), 9)
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}
