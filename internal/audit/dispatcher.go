// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/models"
)

// Dispatcher decouples audit event production from delivery. Producers call
// [Dispatcher.Record], which enqueues onto a bounded channel and returns
// immediately; a single background goroutine drains the channel into the
// configured [Sink]. When the buffer is full the event is dropped and
// counted, never blocking the caller.
type Dispatcher struct {
	sink   Sink
	logger *logger.Logger

	ch   chan models.AuditEvent
	done chan struct{}
	wg   sync.WaitGroup

	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewDispatcher constructs a running [Dispatcher] over the given sink.
// A nil sink is replaced with [NoOpSink]; a non-positive bufferSize is
// clamped to 1.
func NewDispatcher(bufferSize int, sink Sink, log *logger.Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:   sink,
		logger: log,
		ch:     make(chan models.AuditEvent, bufferSize),
		done:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.sink.Emit(context.Background(), event)
		case <-d.done:
			// drain whatever is still buffered, then exit
			for {
				select {
				case event := <-d.ch:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Record enqueues one audit event for asynchronous delivery. A zero
// Timestamp is stamped with the current time. Record never blocks: when the
// buffer is full the event is dropped and the drop counter incremented.
// Calls on a nil or closed dispatcher are silently ignored.
func (d *Dispatcher) Record(ctx context.Context, event models.AuditEvent) {
	if d == nil || d.closed.Load() {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case d.ch <- event:
	case <-d.done:
	default:
		dropped := d.dropped.Add(1)
		d.logger.Warn().Uint64("dropped_total", dropped).Str("action", event.Action).Msg("audit buffer full, event dropped")
	}
}

// Close stops the dispatcher after draining all buffered events. Safe to
// call multiple times and on a nil receiver.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped returns the number of events discarded because the buffer was full.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
