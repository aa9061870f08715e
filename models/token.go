package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the claim set embedded in every access token.
//
// It extends the standard JWT registered claims (sub, exp, iat, iss, aud,
// jti) with the account attributes needed to authorize a request without a
// storage round-trip: email and role. Possession of a token with a valid
// signature, unexpired, and carrying the expected issuer/audience is the
// whole authentication decision — access tokens are not persisted and not
// revocable (accepted tradeoff of statelessness).
type AccessClaims struct {
	jwt.RegisteredClaims

	// Email is the account email at issuance time.
	Email string `json:"email"`

	// Role is the account role at issuance time.
	Role Role `json:"role"`
}

// Identity is the decoded, verified content of an access token. It is what
// the auth middleware stores in the request context and what RBAC checks
// operate on.
type Identity struct {
	// UserID is the account identifier parsed from the "sub" claim.
	UserID int64 `json:"id"`

	// Email is the account email carried by the token.
	Email string `json:"email"`

	// Role is the account role carried by the token.
	Role Role `json:"role"`
}

// TokenPair bundles a freshly issued access token with its companion
// refresh token, as returned by registration and login.
type TokenPair struct {
	// AccessToken is the compact JWS form of the short-lived access token.
	AccessToken string `json:"access_token"`

	// RefreshToken is the compact JWS form of the longer-lived refresh
	// token. Its hash is recorded in the ledger at issuance.
	RefreshToken string `json:"refresh_token"`
}
