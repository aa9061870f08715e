package models

// AuthResponse is returned by registration and login: the public view of
// the account plus a fresh token pair.
type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is returned by POST /api/auth/refresh. Only a new access
// token is issued; the refresh token itself is not rotated.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// UserResponse is returned by GET /api/auth/me.
type UserResponse struct {
	User User `json:"user"`
}

// AckResponse is the generic acknowledgement body for operations with no
// meaningful payload (logout, password change).
type AckResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the machine-readable error envelope returned on every
// failed request.
type ErrorResponse struct {
	// Error is a short human-readable message. It never carries stack
	// traces or internal identifiers.
	Error string `json:"error"`

	// Code is a stable machine-readable error code
	// (e.g. AUTH_TOKEN_EXPIRED, AUTHZ_FORBIDDEN).
	Code string `json:"code"`
}
