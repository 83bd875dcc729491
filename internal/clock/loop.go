// Package clock implements the simulation clock and event loop: a
// monotonic "now" mutated only by the loop, and a min-heap of pending
// events dispatched one at a time in (time, sequence) order.
package clock

import (
	"container/heap"
	"fmt"

	"github.com/simgo/simgo/internal/simerr"
	"github.com/simgo/simgo/internal/simtime"
)

func mustCmp(a, b simtime.T) int {
	c, err := simtime.Cmp(a, b)
	if err != nil {
		panic(fmt.Errorf("%w: %v", simerr.SchedulerInvariantViolated, err))
	}
	return c
}

// Loop owns the clock value and the pending-event heap. It is not
// goroutine-safe by design: exactly one goroutine (the loop's own
// driver) ever calls Step/Run, matching the single-threaded cooperative
// dispatch model.
type Loop struct {
	now     simtime.T
	queue   eventQueue
	seq     uint64
	haltErr error
}

// New creates a loop with the given start time.
func New(start simtime.T) *Loop {
	l := &Loop{now: start}
	heap.Init(&l.queue)
	return l
}

// Now returns the current simulated time.
func (l *Loop) Now() simtime.T { return l.now }

// Schedule enqueues fn to run at now+delay. delay must be >= 0 in its own
// unit; negative delays are InvalidScheduleTime (InvalidRequest).
func (l *Loop) Schedule(delay simtime.T, kind string, payload any, fn Continuation) (Handle, error) {
	if delay.Value < 0 {
		return Handle{}, simerr.Wrap(simerr.InvalidRequest, "clock: negative schedule delay")
	}
	at, err := simtime.Add(l.now, delay)
	if err != nil {
		return Handle{}, simerr.Wrap(simerr.UnitMismatch, err.Error())
	}
	return l.scheduleAt(at, kind, payload, fn)
}

// ScheduleAt enqueues fn to run at an absolute time, which must be >= now.
func (l *Loop) ScheduleAt(at simtime.T, kind string, payload any, fn Continuation) (Handle, error) {
	if less, err := simtime.Less(at, l.now); err != nil {
		return Handle{}, simerr.Wrap(simerr.UnitMismatch, err.Error())
	} else if less {
		return Handle{}, simerr.Wrap(simerr.InvalidRequest, "clock: scheduled time precedes now")
	}
	return l.scheduleAt(at, kind, payload, fn)
}

func (l *Loop) scheduleAt(at simtime.T, kind string, payload any, fn Continuation) (Handle, error) {
	e := &Event{Time: at, Seq: l.seq, Kind: kind, Payload: payload, fn: fn}
	l.seq++
	heap.Push(&l.queue, e)
	return Handle{event: e}, nil
}

// Halt records err as the reason the loop must stop dispatching, if
// nothing has halted it already. Step, RunUntil, and RunWhile all refuse
// to dispatch further events once halted; RunUntil and RunWhile return err
// to their caller, and Step returns false.
// process.Process calls this when a run() body returns uncaught, wrapping
// the error in simerr.ModelError first, so a failed process stops the
// simulation rather than letting the loop quietly keep going.
func (l *Loop) Halt(err error) {
	if l.haltErr == nil {
		l.haltErr = err
	}
}

// Halted returns the error passed to the first Halt call, or nil.
func (l *Loop) Halted() error { return l.haltErr }

// Step pops and dispatches the single earliest non-cancelled event,
// advancing now to its time first. Returns false if the queue is empty
// or the loop has been halted.
func (l *Loop) Step() bool {
	if l.haltErr != nil {
		return false
	}
	for l.queue.Len() > 0 {
		e := heap.Pop(&l.queue).(*Event)
		if e.cancelled {
			continue
		}
		if less := mustCmp(e.Time, l.now); less < 0 {
			panic(simerr.Wrap(simerr.SchedulerInvariantViolated, "clock: event time precedes now"))
		}
		l.now = e.Time
		e.fn()
		return true
	}
	return false
}

// RunUntil dispatches events until the queue is empty, the next event's
// time would exceed stopTime (that event remains pending; now is left at
// the last dispatched event's time, never advanced past stopTime), or the
// loop halts, in which case the halt error is returned.
func (l *Loop) RunUntil(stopTime simtime.T) error {
	for l.queue.Len() > 0 {
		if l.haltErr != nil {
			return l.haltErr
		}
		next := l.queue[0]
		if next.cancelled {
			heap.Pop(&l.queue)
			continue
		}
		cmp, err := simtime.Cmp(next.Time, stopTime)
		if err != nil {
			return simerr.Wrap(simerr.UnitMismatch, err.Error())
		}
		if cmp > 0 {
			return nil
		}
		l.Step()
	}
	return l.haltErr
}

// RunWhile dispatches events as long as pred(now) holds before each step.
// It stops early, returning the halt error, if the loop halts mid-run.
func (l *Loop) RunWhile(pred func(now simtime.T) bool) error {
	for pred(l.now) {
		if !l.Step() {
			break
		}
	}
	return l.haltErr
}

// Pending reports how many events remain queued (cancelled ones included
// until popped).
func (l *Loop) Pending() int { return l.queue.Len() }
