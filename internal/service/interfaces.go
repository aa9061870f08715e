package service

import (
	"context"

	"github.com/MKhiriev/marketplace-auth/models"
)

// AuthService orchestrates the full authentication lifecycle: account
// creation, credential verification with lockout accounting, token
// issuance/renewal, revocation, and password changes. Every operation
// records an audit event as a side effect.
type AuthService interface {
	// Register creates a new account from validated registration data and
	// issues the initial token pair.
	Register(ctx context.Context, request models.RegisterRequest) (models.User, models.TokenPair, error)

	// Login verifies credentials and issues a fresh token pair. Failed
	// attempts feed the lockout counter; locked or deactivated accounts
	// are rejected before password verification.
	Login(ctx context.Context, request models.LoginRequest) (models.User, models.TokenPair, error)

	// Refresh exchanges a live refresh token for a new access token.
	// The refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// Logout revokes the given refresh token. Revoking an already-revoked
	// or unknown token is a no-op, not an error.
	Logout(ctx context.Context, refreshToken string) error

	// ChangePassword verifies the current password, stores the new hash and
	// revokes every live refresh token of the account.
	ChangePassword(ctx context.Context, userID int64, request models.ChangePasswordRequest) error

	// GetUser loads the account behind an authenticated identity.
	GetUser(ctx context.Context, userID int64) (models.User, error)

	// DeactivateUser soft-deactivates an account and revokes its live
	// refresh tokens. Records are never physically deleted.
	DeactivateUser(ctx context.Context, userID int64) error
}

// TokenService issues and verifies the two JWT kinds. It is stateless:
// revocation lives in the refresh token ledger, not here.
type TokenService interface {
	// IssueAccessToken signs a short-lived access token carrying the
	// user's id, email and role.
	IssueAccessToken(user models.User) (string, error)

	// IssueRefreshToken signs a longer-lived refresh token whose "jti"
	// claim is the given ledger record ID.
	IssueRefreshToken(user models.User, tokenID string) (string, error)

	// VerifyAccessToken checks signature, expiry, issuer and the access
	// audience, and returns the identity the token asserts.
	VerifyAccessToken(tokenString string) (models.Identity, error)

	// VerifyRefreshToken checks signature, expiry, issuer and the refresh
	// audience, and returns the subject user ID and the "jti" claim.
	VerifyRefreshToken(tokenString string) (int64, string, error)
}

// AuditRecorder accepts audit events for asynchronous delivery.
// Satisfied by [*audit.Dispatcher].
type AuditRecorder interface {
	Record(ctx context.Context, event models.AuditEvent)
}
