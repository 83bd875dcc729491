package resource

import "github.com/simgo/simgo/internal/coroutine"

// Selector decides whether a resource is an eligible fulfillment target
// for a request — either a specific resource reference or a class filter
// for pool requests.
type Selector interface {
	Matches(r *Resource) bool
}

// ExactSelector matches a single resource by ID.
type ExactSelector struct{ ID string }

func (s ExactSelector) Matches(r *Resource) bool { return r.ID == s.ID }

// ClassSelector matches any resource declaring Class among its tags.
type ClassSelector struct{ Class string }

func (s ClassSelector) Matches(r *Resource) bool { return r.HasClass(s.Class) }

// Request is a single acquire() call parked in an agent's queue.
type Request struct {
	ID         string
	ProcessID  string
	Co         *coroutine.Coroutine
	Selector   Selector
	NumUnits   uint32
	Priority   int
	EnqueueSeq uint64

	fulfilled bool
}

// PriorityFunc ranks a request for ordering purposes; lower is serviced
// first. The default is the request's own Priority field.
type PriorityFunc func(*Request) int

func defaultPriorityFunc(r *Request) int { return r.Priority }
