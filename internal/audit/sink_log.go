package audit

import (
	"context"

	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/models"
)

// LogSink writes audit events to the structured application log. This is
// the default sink: every deployment gets a queryable audit trail even
// without an external collector.
type LogSink struct {
	logger *logger.Logger
}

// NewLogSink constructs a [LogSink] over the given logger.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

// Emit implements [Sink].
func (s *LogSink) Emit(_ context.Context, event models.AuditEvent) {
	entry := s.logger.Info().
		Time("timestamp", event.Timestamp).
		Str("actor", event.Actor).
		Str("action", event.Action).
		Str("outcome", event.Outcome)

	if event.Resource != "" {
		entry = entry.Str("resource", event.Resource)
	}
	if event.Origin != "" {
		entry = entry.Str("origin", event.Origin)
	}
	if event.Error != "" {
		entry = entry.Str("error", event.Error)
	}

	entry.Msg("audit event")
}
