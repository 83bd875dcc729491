package clock

import "github.com/simgo/simgo/internal/simtime"

// Continuation is invoked by the loop when an event fires: in practice a
// coroutine resume, a message-handler dispatch, or a source/agent
// callback. It does not return an error directly — a body that fails
// reports the failure through Loop.Halt instead, so the loop can stop
// between events rather than unwind out of an arbitrary dispatch.
type Continuation func()

// Event is one scheduled unit of work: (time, sequence, kind, payload).
// Ordering is strictly by Time, ties broken by Seq (insertion order).
type Event struct {
	Time      simtime.T
	Seq       uint64
	Kind      string
	Payload   any
	fn        Continuation
	cancelled bool
	index     int // heap bookkeeping, unused outside container/heap
}

// Handle lets callers cancel a previously scheduled event.
type Handle struct {
	event *Event
}

// Cancel marks the underlying event cancelled. Idempotent; cancelling an
// already-fired or already-cancelled event has no effect.
func (h Handle) Cancel() {
	if h.event != nil {
		h.event.cancelled = true
	}
}

// Cancelled reports whether the event was cancelled (for tests/introspection).
func (h Handle) Cancelled() bool {
	return h.event != nil && h.event.cancelled
}
