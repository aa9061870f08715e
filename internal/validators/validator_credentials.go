package validators

import (
	"context"
	"regexp"
	"unicode"

	"github.com/MKhiriev/marketplace-auth/models"
)

const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldRole            = "role"
	FieldRefreshToken    = "refresh_token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
)

const minPasswordLength = 8

// emailPattern is deliberately permissive: one local part, one domain with a
// dot, no whitespace. Deliverability is the mail server's problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CredentialsValidator validates authentication request payloads before they
// reach the service layer.
type CredentialsValidator struct {
}

func NewCredentialsValidator() Validator {
	return &CredentialsValidator{}
}

func (v *CredentialsValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegisterRequest(ctx, value, fields...)
	case *models.RegisterRequest:
		return v.validateRegisterRequest(ctx, *value, fields...)

	case models.LoginRequest:
		return v.validateLoginRequest(ctx, value, fields...)
	case *models.LoginRequest:
		return v.validateLoginRequest(ctx, *value, fields...)

	case models.RefreshRequest:
		return v.validateRefreshRequest(ctx, value, fields...)
	case *models.RefreshRequest:
		return v.validateRefreshRequest(ctx, *value, fields...)

	case models.LogoutRequest:
		return v.validateLogoutRequest(ctx, value, fields...)
	case *models.LogoutRequest:
		return v.validateLogoutRequest(ctx, *value, fields...)

	case models.ChangePasswordRequest:
		return v.validateChangePasswordRequest(ctx, value, fields...)
	case *models.ChangePasswordRequest:
		return v.validateChangePasswordRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validatePassword enforces the account password policy: minimum length plus
// at least one upper-case letter, one lower-case letter and one digit.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return ErrPasswordTooWeak
	}

	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func (v *CredentialsValidator) validateRegisterRequest(ctx context.Context, request models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword, FieldRole}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if err := validateEmail(request.Email); err != nil {
				return err
			}
		case FieldPassword:
			if err := validatePassword(request.Password); err != nil {
				return err
			}
		case FieldRole:
			if _, err := models.ParseRole(request.Role); err != nil {
				return ErrInvalidRole
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validateLoginRequest(ctx context.Context, request models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if err := validateEmail(request.Email); err != nil {
				return err
			}
		case FieldPassword:
			// Login only needs presence; the policy applies at registration.
			if request.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validateRefreshRequest(ctx context.Context, request models.RefreshRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRefreshToken}
	}

	for _, f := range fields {
		switch f {
		case FieldRefreshToken:
			if request.RefreshToken == "" {
				return ErrEmptyRefreshToken
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validateLogoutRequest(ctx context.Context, request models.LogoutRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRefreshToken}
	}

	for _, f := range fields {
		switch f {
		case FieldRefreshToken:
			if request.RefreshToken == "" {
				return ErrEmptyRefreshToken
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validateChangePasswordRequest(ctx context.Context, request models.ChangePasswordRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCurrentPassword, FieldNewPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldCurrentPassword:
			if request.CurrentPassword == "" {
				return ErrEmptyPassword
			}
		case FieldNewPassword:
			if err := validatePassword(request.NewPassword); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
