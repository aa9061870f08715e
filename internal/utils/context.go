// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, token hashing,
// HTTP response writing, bearer-token parsing, UUID generation
// and other common operations.
package utils

import (
	"context"

	"github.com/MKhiriev/marketplace-auth/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey is the key used to store the authenticated caller identity
// in the context. Used together with GetIdentityFromContext for type-safe
// retrieval of [models.Identity] from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.IdentityCtxKey, identity)
var IdentityCtxKey = contextKey("identity")

// ClientOriginCtxKey is the key used to store the caller's network origin
// (remote address or forwarded-for value) in the context. The origin is
// attached to audit events emitted downstream of the HTTP layer.
var ClientOriginCtxKey = contextKey("clientOrigin")

// GetIdentityFromContext retrieves the authenticated caller identity
// from the context.
//
// Returns the [models.Identity] and an ok flag:
//   - ok == true  — value is found and has the correct type
//   - ok == false — value is missing or has an unexpected type
//
// Example usage:
//
//	identity, ok := utils.GetIdentityFromContext(ctx)
//	if !ok {
//	    // handle missing identity in context
//	}
func GetIdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(models.Identity)
	return identity, ok
}

// GetClientOriginFromContext retrieves the caller's network origin from the
// context. Returns the empty string when no origin was recorded.
func GetClientOriginFromContext(ctx context.Context) string {
	origin, _ := ctx.Value(ClientOriginCtxKey).(string)
	return origin
}
