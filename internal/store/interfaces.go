package store

import (
	"context"
	"time"

	"github.com/MKhiriev/marketplace-auth/models"
)

// UserRepository is the persistence boundary for marketplace accounts.
// All mutations of the lockout counters happen through single guarded
// UPDATE statements so concurrent login attempts never race in Go code.
type UserRepository interface {
	// CreateUser persists a new account and returns the canonical database
	// representation with server-assigned fields populated.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail retrieves the account with the given email.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByID retrieves the account with the given identifier.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// RecordLoginFailure atomically increments the failed-attempt counter
	// and, when the incremented counter reaches threshold, sets the lock
	// expiry to lockUntil. Returns the new counter value and the current
	// lock expiry (nil when the account is not locked).
	RecordLoginFailure(ctx context.Context, userID int64, threshold int, lockUntil time.Time) (int, *time.Time, error)

	// RecordLoginSuccess resets the failed-attempt counter, clears the lock
	// and stamps the last successful login time.
	RecordLoginSuccess(ctx context.Context, userID int64, loginAt time.Time) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	// DeactivateUser soft-deactivates the account. Records are never
	// physically deleted.
	DeactivateUser(ctx context.Context, userID int64) error
}

// RefreshTokenRepository is the persistence boundary for the refresh-token
// revocation ledger. Raw tokens never reach the database: every method
// fingerprints them with a one-way hash first.
type RefreshTokenRepository interface {
	// RecordToken inserts a ledger row for a freshly issued token.
	// record carries the ledger ID, owner and expiry; the raw token is
	// hashed inside the repository.
	RecordToken(ctx context.Context, record models.RefreshToken, rawToken string) (models.RefreshToken, error)

	// FindToken retrieves the ledger row matching the raw token.
	FindToken(ctx context.Context, rawToken string) (models.RefreshToken, error)

	// RevokeToken marks the ledger row matching the raw token as revoked.
	// Revoking an unknown or already revoked token is a no-op.
	RevokeToken(ctx context.Context, rawToken string) error

	// RevokeAllUserTokens revokes every live token of the given user and
	// returns the number of tokens revoked.
	RevokeAllUserTokens(ctx context.Context, userID int64) (int64, error)
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying. Implementations are driver-specific.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
