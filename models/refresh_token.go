package models

import "time"

// RefreshToken represents one issued refresh token as recorded in the
// revocation ledger. Only a one-way hash of the raw token value is ever
// persisted, so a database read cannot yield a usable token.
type RefreshToken struct {
	// ID is the unique identifier of the ledger record. It doubles as the
	// "jti" claim of the signed refresh token.
	ID string `json:"-"`

	// UserID is the owner of the token.
	UserID int64 `json:"-"`

	// TokenHash is the hex-encoded SHA-256 digest of the raw token value.
	// The raw token is never stored.
	TokenHash string `json:"-"`

	// ExpiresAt is the natural expiry of the token. Expired tokens fail
	// validity checks even when not explicitly revoked.
	ExpiresAt time.Time `json:"-"`

	// Revoked is flipped to true on logout or password change. A revoked
	// token can never become valid again.
	Revoked bool `json:"-"`

	// CreatedAt is the timestamp when the token was issued.
	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the RefreshToken model.
func (t RefreshToken) TableName() string {
	return "refresh_tokens"
}
