// Package audit provides the asynchronous security audit trail: an
// in-memory dispatcher that fans events out to pluggable sinks without ever
// blocking the authentication path.
package audit

import (
	"context"

	"github.com/MKhiriev/marketplace-auth/models"
)

// Sink is a destination for audit events. Emit must tolerate delivery
// failures silently: auditing is a side effect and never gates the
// authentication or authorization decision.
type Sink interface {
	Emit(ctx context.Context, event models.AuditEvent)
}

// NoOpSink discards every event. Used when auditing is disabled.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, models.AuditEvent) {}
