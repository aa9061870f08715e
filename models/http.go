package models

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	// Email is the desired account email. Uniqueness and format are
	// validated before any storage mutation.
	Email string `json:"email"`

	// Password is the plaintext password. It is hashed immediately and
	// never logged or persisted.
	Password string `json:"password"`

	// Role is the requested account role; must be one of the declared
	// enumeration values.
	Role string `json:"role"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest is the body of POST /api/auth/logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest is the body of PUT /api/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
