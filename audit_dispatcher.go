package authcore

import (
	"context"
	"sync"
	"sync/atomic"
)

// auditDropReason classifies why an event was not delivered to the sink.
// Per-reason counts separate "the buffer was full" (a sizing problem) from
// "emission raced shutdown" (an ordering problem).
type auditDropReason int

const (
	dropBufferFull auditDropReason = iota
	dropCanceled
	dropAfterClose
	auditDropReasonCount
)

// auditDispatcher decouples audit emission from the request path. Events are
// handed to a buffered channel and delivered by a single goroutine; a failed
// or slow sink can therefore never abort a primary operation.
type auditDispatcher struct {
	sink       AuditSink
	dropIfFull bool

	events chan AuditEvent
	quit   chan struct{}

	drops     [auditDropReasonCount]atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
	stopped   sync.WaitGroup
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		sink:       sink,
		dropIfFull: cfg.DropIfFull,
		events:     make(chan AuditEvent, cfg.BufferSize),
		quit:       make(chan struct{}),
	}

	d.stopped.Add(1)
	go d.deliver()

	return d
}

// deliver is the single consumer. After quit it drains whatever is still
// buffered, so events accepted before Close are never lost.
func (d *auditDispatcher) deliver() {
	defer d.stopped.Done()

	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		case <-d.quit:
			for {
				select {
				case event := <-d.events:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Emit hands an event to the delivery goroutine. In drop mode a full buffer
// discards the event immediately; in blocking mode Emit waits until the
// buffer accepts it, the context is canceled, or the dispatcher shuts down.
// Every discarded event is counted under its reason.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil {
		return
	}
	if d.closed.Load() {
		d.drops[dropAfterClose].Add(1)
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.dropIfFull {
		select {
		case d.events <- event:
		case <-d.quit:
			d.drops[dropAfterClose].Add(1)
		default:
			d.drops[dropBufferFull].Add(1)
		}
		return
	}

	select {
	case d.events <- event:
	case <-ctx.Done():
		d.drops[dropCanceled].Add(1)
	case <-d.quit:
		d.drops[dropAfterClose].Add(1)
	}
}

// Close stops the dispatcher after draining buffered events. Safe to call
// more than once.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.quit)
		d.stopped.Wait()
	})
}

// Dropped returns the total number of discarded events across all reasons.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	var total uint64
	for i := range d.drops {
		total += d.drops[i].Load()
	}
	return total
}

// DroppedFor returns the count of events discarded for one reason.
func (d *auditDispatcher) DroppedFor(reason auditDropReason) uint64 {
	if d == nil || reason < 0 || reason >= auditDropReasonCount {
		return 0
	}
	return d.drops[reason].Load()
}
