package models

import "time"

// User represents a marketplace account used for authentication and
// authorization. It contains identity attributes, credential data, and the
// lockout counters mutated on every login attempt.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Email is the unique, lower-cased login identifier of the account.
	Email string `json:"email"`

	// PasswordHash stores the derived password representation in the
	// self-contained "saltHex:keyHex" format produced by the password
	// hasher. This value MUST be a KDF output, never plaintext.
	// It is never exposed via JSON.
	PasswordHash string `json:"-"`

	// Role is the account role, immutable after creation.
	Role Role `json:"role"`

	// Active is false for soft-deactivated accounts. Deactivated accounts
	// cannot authenticate; records are never physically deleted.
	Active bool `json:"-"`

	// FailedLoginAttempts counts consecutive failed logins. Reset to zero
	// on a successful login. Mutated only via atomic storage-level updates.
	FailedLoginAttempts int `json:"-"`

	// LockedUntil is the lockout expiry timestamp, nil when the account has
	// never been locked or the lock has been cleared. Checked lazily on
	// every login attempt; there is no background sweeper.
	LockedUntil *time.Time `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last mutation of the record.
	UpdatedAt time.Time `json:"-"`

	// LastLoginAt is the timestamp of the last successful login, nil for
	// accounts that have never logged in.
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// LockedAt reports whether the account is locked at the given instant.
// A nil LockedUntil or an expired lock window both mean "not locked" —
// lock expiry is wall-clock based and requires no storage mutation to clear.
func (u User) LockedAt(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
