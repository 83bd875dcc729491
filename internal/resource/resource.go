// Package resource implements capacity-constrained resources, the
// request/assignment records they're acquired through, and the
// single-resource and pool assignment agents that decide who gets them.
package resource

import "sync"

// Resource is a capacity-constrained object required by processes. The
// zero value is not usable; construct with New.
type Resource struct {
	ID       string
	Classes  []string // declared class tags; pool selection matches any of these
	Capacity uint32

	mu         sync.Mutex
	inUse      uint32
	downUnits  uint32
	goingDown  bool
	agent      *Agent
	upWaiters  []*waiter
}

type waiter struct {
	resume func()
}

// New constructs a resource with the given capacity (>=1) and class tags.
// ID is always included as an implicit class so a selector may target a
// specific resource by name.
func New(id string, capacity uint32, classes ...string) *Resource {
	return &Resource{ID: id, Capacity: capacity, Classes: append([]string{id}, classes...)}
}

// Agent returns the assignment agent this resource belongs to — itself
// for a single-resource agent, or the owning pool.
func (r *Resource) Agent() *Agent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.agent
}

func (r *Resource) setAgent(a *Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agent = a
}

// AwaitUp parks fn to be invoked (exactly once) the next time this
// resource transitions to up. Used by process.WaitFor's
// extend-through-downtime handling.
func (r *Resource) AwaitUp(fn func()) {
	r.mu.Lock()
	r.upWaiters = append(r.upWaiters, &waiter{resume: fn})
	r.mu.Unlock()
}

// InUse returns units currently assigned.
func (r *Resource) InUse() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inUse
}

// DownUnits returns units currently down.
func (r *Resource) DownUnits() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.downUnits
}

// GoingDown reports whether the resource is in the going-down state.
func (r *Resource) GoingDown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.goingDown
}

// Available returns the units assignable to a new request right now: 0
// whenever GoingDown is set, even if capacity would otherwise allow it.
func (r *Resource) Available() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.availableLocked()
}

func (r *Resource) availableLocked() uint32 {
	if r.goingDown {
		return 0
	}
	return r.Capacity - r.inUse - r.downUnits
}

// HasClass reports whether class is one of the resource's declared tags
// (which always includes its own ID).
func (r *Resource) HasClass(class string) bool {
	for _, c := range r.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func (r *Resource) reserve(units uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inUse += units
}

func (r *Resource) unreserve(units uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if units > r.inUse {
		units = r.inUse
	}
	r.inUse -= units
}

func (r *Resource) takeDown() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	held := r.inUse
	r.downUnits = r.Capacity
	r.inUse = 0
	r.goingDown = false
	return held
}

func (r *Resource) setGoingDown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goingDown = true
}

func (r *Resource) bringUp() {
	r.mu.Lock()
	r.goingDown = false
	r.downUnits = 0
	waiters := r.upWaiters
	r.upWaiters = nil
	r.mu.Unlock()
	for _, w := range waiters {
		w.resume()
	}
}
