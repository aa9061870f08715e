package models

import "fmt"

// Role is the closed enumeration of marketplace account roles.
// Roles are validated once at the boundary (registration and token
// verification); internal code can rely on a Role value being one of the
// declared constants.
type Role string

const (
	// RoleAdmin grants unrestricted access to every role-gated operation
	// and bypasses ownership checks.
	RoleAdmin Role = "ADMIN"

	// RoleSeller marks accounts allowed to manage their own product listings.
	RoleSeller Role = "SELLER"

	// RoleBuyer is the default customer role.
	RoleBuyer Role = "BUYER"
)

// ParseRole validates a raw role string against the declared enumeration.
//
// Returns the matching Role constant or an error if the value is not part
// of the enumeration. An empty string is rejected as well — callers that
// want a default must apply it explicitly.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether the role is one of the declared constants.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// In reports whether the role is a member of the given allow-list.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
