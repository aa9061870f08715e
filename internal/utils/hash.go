package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken computes a SHA-256 digest over the given token string and
// returns it as a hex-encoded string.
//
// Used to fingerprint refresh tokens before they touch the database:
// only the digest is persisted, so a leaked table never yields a
// replayable token.
//
// Parameters:
//
//	token - raw signed token string
//
// Returns:
//
//	string - hex-encoded SHA-256 digest (64 characters)
//
// Example usage:
//
//	fingerprint := utils.HashToken(signedRefreshToken)
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
