package audit

import (
	"context"

	"github.com/MKhiriev/marketplace-auth/models"
)

// MultiSink fans one event out to several sinks in order. Used to combine
// the always-on log sink with an optional webhook collector.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink constructs a [MultiSink]. Nil sinks are skipped.
func NewMultiSink(sinks ...Sink) *MultiSink {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &MultiSink{sinks: kept}
}

// Emit implements [Sink].
func (s *MultiSink) Emit(ctx context.Context, event models.AuditEvent) {
	for _, sink := range s.sinks {
		sink.Emit(ctx, event)
	}
}
