// Package process wraps a coroutine with the entity/priority bookkeeping
// and acquire/release accounting a model's run() body needs: wait_for
// (with downtime extension), acquire/acquire_from scoped to the owning
// process, and guaranteed release of anything still held on completion
// or an uncaught exception.
package process

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/simgo/simgo/internal/clock"
	"github.com/simgo/simgo/internal/coroutine"
	"github.com/simgo/simgo/internal/resource"
	"github.com/simgo/simgo/internal/simerr"
	"github.com/simgo/simgo/internal/simtime"
)

// Body is a model's run() implementation. It receives the Process so it
// can call WaitFor/Acquire/AcquireFrom, directly or from nested helpers —
// the process is not threaded explicitly because the underlying coroutine
// is stackful.
type Body func(p *Process) error

// held is a scoped acquisition tracked for forced release on completion.
type held struct {
	agent      *resource.Agent
	assignment *resource.Assignment
}

// Process is a wrapper around a coroutine plus an associated entity and
// priority. The zero value is not usable; construct with
// New.
type Process struct {
	ID       string
	EntityID string
	Priority int

	loop *clock.Loop
	co   *coroutine.Coroutine

	mu      sync.Mutex
	heldSet []*held
	done    bool
	err     error

	// OnComplete, if set, is invoked exactly once after the run() body
	// returns (normally or by exception) and every still-held assignment
	// has been force-released. Used by the model layer to emit
	// process-complete bookkeeping (entries, process-time dataset).
	OnComplete func(p *Process, err error)
}

// New constructs a process wrapping body on a dedicated coroutine. The
// coroutine does not run until Start is called.
func New(entityID string, priority int, loop *clock.Loop, body Body) *Process {
	p := &Process{
		ID:       uuid.NewString(),
		EntityID: entityID,
		Priority: priority,
		loop:     loop,
	}
	p.co = coroutine.Spawn(func(c *coroutine.Coroutine, _ any) (any, error) {
		return nil, body(p)
	})
	p.co.OnDone(func(_ any, err error) {
		p.finish(err)
	})
	return p
}

// finish runs on the coroutine's own goroutine via OnDone, strictly
// before the Resume call that triggered completion returns. An error
// escaping run() uncaught is wrapped as simerr.ModelError and halts the
// owning loop immediately, so whichever event dispatched the final
// resume is the last one the loop ever runs.
func (p *Process) finish(err error) {
	if err != nil {
		err = fmt.Errorf("%w: %v", simerr.ModelError, err)
	}

	p.mu.Lock()
	p.done = true
	p.err = err
	still := append([]*held(nil), p.heldSet...)
	p.heldSet = nil
	p.mu.Unlock()

	for _, h := range still {
		h.agent.Release(h.assignment)
	}
	if err != nil {
		p.loop.Halt(err)
	}
	if p.OnComplete != nil {
		p.OnComplete(p, err)
	}
}

// Done reports whether the process has completed (normally or by
// exception). Err returns the terminal error, if any (wrapped in
// simerr.ModelError when it escaped run() uncaught).
func (p *Process) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Err returns the process's terminal error, if any.
func (p *Process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Start schedules the process-start event at now+0: its run() body
// begins on the dedicated coroutine the next time the loop dispatches.
func (p *Process) Start() {
	p.loop.Schedule(simtime.New(0, p.loop.Now().Unit), "process-start", p.ID, func() {
		p.co.Resume(nil, nil)
	})
}

// WaitFor schedules a resume event at now+delta and suspends the calling
// coroutine. If downResource is non-nil and extendThroughDowntime is
// true, a ResourceDown exception arriving while suspended here is
// swallowed: the elapsed portion is computed, the call blocks until
// downResource comes back up (via resource.AwaitUp), and then waits out
// the remaining delta — transparently to the caller. Any other
// suspension error, or a ResourceDown with extendThroughDowntime false,
// is returned as-is.
func (p *Process) WaitFor(delta simtime.T, extendThroughDowntime bool, downResource *resource.Resource) error {
	for {
		start := p.loop.Now()
		h, err := p.loop.Schedule(delta, "process-wait", p.ID, func() {
			p.co.Resume(nil, nil)
		})
		if err != nil {
			return err
		}
		_, werr := p.co.Suspend(nil)
		if werr == nil {
			return nil
		}
		// The wake event never fired (we were interrupted first); cancel
		// it so it doesn't spuriously resume us again later.
		h.Cancel()
		if !extendThroughDowntime || downResource == nil || !isResourceDown(werr) {
			return werr
		}

		elapsed, cmpErr := simtime.Sub(p.loop.Now(), start)
		if cmpErr != nil {
			return werr
		}
		remaining, cmpErr := simtime.Sub(delta, elapsed)
		if cmpErr != nil || remaining.Value < 0 {
			remaining = simtime.T{Unit: delta.Unit}
		}

		downResource.AwaitUp(func() { p.co.Resume(nil, nil) })
		if _, err := p.co.Suspend(nil); err != nil {
			return err
		}
		delta = remaining
	}
}

func isResourceDown(err error) bool {
	return errors.Is(err, simerr.ResourceDown)
}

// Acquire requests n units of a single-resource agent's resource,
// suspending until fulfilled or timed out. The assignment is tracked on
// the process and released automatically on completion if Release is
// never called explicitly.
func (p *Process) Acquire(r *resource.Resource, n uint32, priority int, timeout simtime.T, infinite bool) (*resource.Assignment, error) {
	a := r.Agent()
	if a == nil {
		return nil, simerr.Wrap(simerr.InvalidRequest, "process: resource has no owning agent")
	}
	return p.acquireFrom(a, resource.ExactSelector{ID: r.ID}, n, priority, timeout, infinite)
}

// AcquireFrom requests n units from a pool (or single-resource agent)
// matching sel.
func (p *Process) AcquireFrom(a *resource.Agent, sel resource.Selector, n uint32, priority int, timeout simtime.T, infinite bool) (*resource.Assignment, error) {
	return p.acquireFrom(a, sel, n, priority, timeout, infinite)
}

func (p *Process) acquireFrom(a *resource.Agent, sel resource.Selector, n uint32, priority int, timeout simtime.T, infinite bool) (*resource.Assignment, error) {
	assignment, err := a.Acquire(p.co, p.ID, sel, n, priority, timeout, infinite)
	if err != nil {
		return nil, err
	}
	assignment.Notify = func(err error) { p.co.Resume(nil, err) }

	p.mu.Lock()
	p.heldSet = append(p.heldSet, &held{agent: a, assignment: assignment})
	p.mu.Unlock()

	return assignment, nil
}

// Release returns assignment's units early. A second call, or a call
// after completion already force-released it, is a no-op (Agent.Release
// is idempotent).
func (p *Process) Release(a *resource.Agent, assignment *resource.Assignment) {
	a.Release(assignment)

	p.mu.Lock()
	for i, h := range p.heldSet {
		if h.assignment == assignment {
			p.heldSet = append(p.heldSet[:i], p.heldSet[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
}
