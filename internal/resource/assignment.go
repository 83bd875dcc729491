package resource

import (
	"sync"

	"github.com/simgo/simgo/internal/simtime"
)

// Assignment is the record of units of one or more resources handed to a
// process. Units are returned either explicitly via Agent.Release or
// automatically when a scoped acquire's scope exits (see package
// process).
type Assignment struct {
	ID          string
	ProcessID   string
	AcquireTime simtime.T
	Units       map[string]uint32 // resource ID -> units held

	// Notify, if set, is invoked by a forced resource takedown (see
	// TakeDown) with simerr.ResourceDown, once, before the agent
	// force-releases the assignment's units. Set by package process so a
	// held acquire can be translated into an exception in the holder's
	// coroutine.
	Notify func(error)

	mu       sync.Mutex
	released bool
	owner    *Agent
}

// Released reports whether the assignment's units have already been
// returned.
func (a *Assignment) Released() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.released
}

// TotalUnits sums units held across all resources in the assignment.
func (a *Assignment) TotalUnits() uint32 {
	var total uint32
	for _, u := range a.Units {
		total += u
	}
	return total
}
