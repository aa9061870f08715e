package models

import "time"

// Audit actions emitted by the auth core. One event is recorded per
// security-relevant action regardless of whether the failure is returned to
// the caller.
const (
	AuditActionRegister       = "register"
	AuditActionLogin          = "login"
	AuditActionRefresh        = "refresh"
	AuditActionLogout         = "logout"
	AuditActionChangePassword = "change_password"
	AuditActionLockout        = "lockout"
	AuditActionDeactivate     = "deactivate"
	AuditActionAuthorize      = "authorize"
)

// Audit outcomes.
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
	AuditOutcomeDenied  = "denied"
)

// AuditActorUnknown is used as the actor when the acting account cannot be
// identified (e.g. login with an unknown email).
const AuditActorUnknown = "unknown"

// AuditEvent is one append-only record of a security-relevant action.
// Events are emitted asynchronously; recording is a side effect and never
// gates the authentication or authorization decision itself.
type AuditEvent struct {
	// Timestamp is the moment the event was produced.
	Timestamp time.Time `json:"timestamp"`

	// Actor is the acting user id as a string, or AuditActorUnknown.
	Actor string `json:"actor"`

	// Action names the attempted operation (see AuditAction constants).
	Action string `json:"action"`

	// Outcome is one of the AuditOutcome constants.
	Outcome string `json:"outcome"`

	// Resource optionally names the resource an authorization decision was
	// made about (e.g. a route pattern).
	Resource string `json:"resource,omitempty"`

	// Origin is the caller network origin (remote IP) when known.
	Origin string `json:"origin,omitempty"`

	// Error carries the failure reason for non-success outcomes.
	Error string `json:"error,omitempty"`
}
