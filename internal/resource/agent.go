package resource

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/simgo/simgo/internal/agent"
	"github.com/simgo/simgo/internal/clock"
	"github.com/simgo/simgo/internal/coroutine"
	"github.com/simgo/simgo/internal/simerr"
	"github.com/simgo/simgo/internal/simtime"
)

// MsgResourceUp is published when a resource transitions back to up.
const MsgResourceUp agent.MsgType = "RSRC_UP"

// pendingAcquire tracks a suspended acquire() call so ProcessQueuedRequests
// or a timeout can resume it.
type pendingAcquire struct {
	req       *Request
	suspended bool
	done      bool
	result    *Assignment
	err       error
	timeout   clock.Handle
}

// ProcessFunc is the process_queued_requests() extension seam: given the
// agent, inspect its priority-ordered queue (QueueSnapshot) and commit
// zero or more requests via AssignResource. Implementations must never
// violate capacity invariants; AssignResource removes each committed
// request from the queue.
type ProcessFunc func(a *Agent)

// Agent is a resource assignment agent: single-resource by default, or a
// pool spanning several resources when constructed with NewPool. Both
// share the same request queue, timeout, and commit machinery; only the
// default ProcessFunc differs.
type Agent struct {
	*agent.Agent
	loop *clock.Loop

	mu         sync.Mutex
	resources  map[string]*Resource
	order      []string // resource IDs sorted by ID, for deterministic iteration
	queue      []*Request
	priority   PriorityFunc
	process    ProcessFunc
	pending    map[string]*pendingAcquire
	seq        uint64
	nextAssign int
	holders    map[string][]*Assignment // resource ID -> live assignments touching it
}

// NewAgent creates a single-resource assignment agent. Its default
// ProcessFunc implements the hard-priority algorithm: highest
// priority first, and a request that cannot be fulfilled blocks all
// lower-priority requests behind it (no backfill).
func NewAgent(id string, loop *clock.Loop, r *Resource) *Agent {
	a := &Agent{
		Agent:     agent.New(id, loop),
		loop:      loop,
		resources: map[string]*Resource{r.ID: r},
		order:     []string{r.ID},
		priority:  defaultPriorityFunc,
		pending:   make(map[string]*pendingAcquire),
		holders:   make(map[string][]*Assignment),
	}
	a.process = a.defaultSingleAlgorithm
	r.setAgent(a)
	return a
}

// NewPool creates a pool assignment agent over the given resources. Its
// default ProcessFunc implements the maximizing algorithm: a
// lower-priority request is fulfilled in a pass only if doing so could
// not have helped fulfill any still-unfulfilled higher-priority request.
// The tiebreak among equally-valid maximizing assignments is lowest
// Resource.ID first (see DESIGN.md).
func NewPool(id string, loop *clock.Loop, resources ...*Resource) *Agent {
	a := &Agent{
		Agent:     agent.New(id, loop),
		loop:      loop,
		resources: make(map[string]*Resource),
		priority:  defaultPriorityFunc,
		pending:   make(map[string]*pendingAcquire),
		holders:   make(map[string][]*Assignment),
	}
	for _, r := range resources {
		a.resources[r.ID] = r
		a.order = append(a.order, r.ID)
		r.setAgent(a)
	}
	sort.Strings(a.order)
	a.process = a.defaultPoolAlgorithm
	return a
}

// SetPriorityFunc overrides request ranking (lower ranks first).
func (a *Agent) SetPriorityFunc(fn PriorityFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.priority = fn
}

// SetProcessFunc replaces process_queued_requests() entirely — the
// engine's published extension point for custom assignment algorithms
// (e.g. "merchants first, but regulars may use idle merchant tellers").
func (a *Agent) SetProcessFunc(fn ProcessFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.process = fn
}

// Resources returns the resources this agent may assign, in deterministic
// (sorted-by-ID) order.
func (a *Agent) Resources() []*Resource {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Resource, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.resources[id])
	}
	return out
}

// AvailableResources returns resources matching sel that currently have
// assignable capacity, sorted by ID for deterministic selection.
func (a *Agent) AvailableResources(sel Selector) []*Resource {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*Resource
	for _, id := range a.order {
		r := a.resources[id]
		if sel.Matches(r) && r.Available() > 0 {
			out = append(out, r)
		}
	}
	return out
}

// Acquire requests n units matching sel, suspending co until fulfilled or
// timeout. infinite=true means wait forever (timeout ignored).
func (a *Agent) Acquire(co *coroutine.Coroutine, processID string, sel Selector, n uint32, priority int, timeout simtime.T, infinite bool) (*Assignment, error) {
	if n == 0 {
		return nil, simerr.Wrap(simerr.InvalidRequest, "resource: acquire requires n >= 1")
	}
	if es, ok := sel.(ExactSelector); ok {
		a.mu.Lock()
		r, known := a.resources[es.ID]
		a.mu.Unlock()
		if known && n > r.Capacity {
			return nil, simerr.Wrap(simerr.InvalidRequest, "resource: acquire n exceeds capacity")
		}
	}

	req := &Request{ID: uuid.NewString(), ProcessID: processID, Co: co, Selector: sel, NumUnits: n, Priority: priority}
	pa := &pendingAcquire{req: req}

	a.mu.Lock()
	req.EnqueueSeq = a.seq
	a.seq++
	a.queue = append(a.queue, req)
	a.sortQueueLocked()
	a.pending[req.ID] = pa
	a.mu.Unlock()

	a.ProcessQueuedRequests()

	a.mu.Lock()
	if pa.done {
		delete(a.pending, req.ID)
		res, err := pa.result, pa.err
		a.mu.Unlock()
		return res, err
	}
	if !infinite && a.loop != nil {
		h, err := a.loop.Schedule(timeout, "acquire-timeout", req.ID, func() { a.expire(req.ID) })
		if err == nil {
			pa.timeout = h
		}
	}
	pa.suspended = true
	a.mu.Unlock()

	v, err := co.Suspend(nil)
	if err != nil {
		return nil, err
	}
	return v.(*Assignment), nil
}

func (a *Agent) expire(reqID string) {
	a.mu.Lock()
	pa, ok := a.pending[reqID]
	if !ok || pa.done {
		a.mu.Unlock()
		return
	}
	pa.done = true
	pa.err = simerr.TimedOut
	delete(a.pending, reqID)
	for i, r := range a.queue {
		if r.ID == reqID {
			a.queue = append(a.queue[:i], a.queue[i+1:]...)
			break
		}
	}
	suspended := pa.suspended
	co := pa.req.Co
	a.mu.Unlock()
	if suspended {
		co.Resume(nil, simerr.TimedOut)
	}
}

// Release returns every unit in assignment, then re-triggers
// ProcessQueuedRequests so newly-free capacity can be handed out.
func (a *Agent) Release(assignment *Assignment) {
	assignment.mu.Lock()
	if assignment.released {
		assignment.mu.Unlock()
		return
	}
	assignment.released = true
	assignment.mu.Unlock()

	a.mu.Lock()
	for rid, units := range assignment.Units {
		if r, ok := a.resources[rid]; ok {
			r.unreserve(units)
		}
		a.removeHolderLocked(rid, assignment)
	}
	a.mu.Unlock()

	a.Publish("resource-release", assignment)
	a.ProcessQueuedRequests()
}

func (a *Agent) removeHolderLocked(rid string, assignment *Assignment) {
	list := a.holders[rid]
	for i, held := range list {
		if held == assignment {
			a.holders[rid] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// HoldersOf returns the live assignments currently holding units of the
// named resource, for use by forced takedown.
func (a *Agent) HoldersOf(resourceID string) []*Assignment {
	a.mu.Lock()
	defer a.mu.Unlock()
	list := a.holders[resourceID]
	out := make([]*Assignment, len(list))
	copy(out, list)
	return out
}

// TakeDown forces the named resource hard-down: its capacity is zeroed,
// every in-flight assignment touching it is notified with
// simerr.ResourceDown (if it registered a Notify callback) and then
// force-released, and the queue is reprocessed against the reduced
// capacity. Queued-but-not-yet-fulfilled requests are untouched — they
// keep waiting (or time out) exactly as before.
func (a *Agent) TakeDown(resourceID string) {
	a.mu.Lock()
	r, ok := a.resources[resourceID]
	if !ok {
		a.mu.Unlock()
		return
	}
	holders := append([]*Assignment(nil), a.holders[resourceID]...)
	a.mu.Unlock()

	r.takeDown()

	for _, assignment := range holders {
		if assignment.Notify != nil {
			assignment.Notify(simerr.ResourceDown)
		}
		a.Release(assignment)
	}
	a.ProcessQueuedRequests()
}

// SetGoingDown marks the named resource going-down: no new capacity is
// assignable, but current holders are left alone until a subsequent
// TakeDown.
func (a *Agent) SetGoingDown(resourceID string) {
	a.mu.Lock()
	r, ok := a.resources[resourceID]
	a.mu.Unlock()
	if ok {
		r.setGoingDown()
	}
}

// BringUp restores the named resource to full capacity and reprocesses
// the queue so waiting requests can be assigned.
func (a *Agent) BringUp(resourceID string) {
	a.mu.Lock()
	r, ok := a.resources[resourceID]
	a.mu.Unlock()
	if !ok {
		return
	}
	r.bringUp()
	a.Publish(MsgResourceUp, resourceID)
	a.ProcessQueuedRequests()
}

// ProcessQueuedRequests runs the current ProcessFunc (default or custom)
// against the priority-ordered queue.
func (a *Agent) ProcessQueuedRequests() {
	a.process(a)
}

// AssignResource is the commit primitive every ProcessFunc must use: it
// removes req from the queue, reserves units on the named resources, and
// resumes (or records the result for) the waiting acquire call.
func (a *Agent) AssignResource(req *Request, units map[string]uint32) {
	var total uint32
	for rid, n := range units {
		if r, ok := a.resources[rid]; ok {
			r.reserve(n)
			total += n
		}
	}
	assignment := &Assignment{
		ID:        uuid.NewString(),
		ProcessID: req.ProcessID,
		Units:     units,
		owner:     a,
	}
	_ = total

	a.mu.Lock()
	for i, r := range a.queue {
		if r == req {
			a.queue = append(a.queue[:i], a.queue[i+1:]...)
			break
		}
	}
	pa, ok := a.pending[req.ID]
	if !ok {
		a.mu.Unlock()
		return
	}
	pa.done = true
	pa.result = assignment
	pa.timeout.Cancel()
	suspended := pa.suspended
	delete(a.pending, req.ID)
	for rid := range units {
		a.holders[rid] = append(a.holders[rid], assignment)
	}
	a.mu.Unlock()

	req.fulfilled = true
	if suspended {
		req.Co.Resume(assignment, nil)
	}
}

func (a *Agent) sortQueueLocked() {
	priority := a.priority
	sort.SliceStable(a.queue, func(i, j int) bool {
		pi, pj := priority(a.queue[i]), priority(a.queue[j])
		if pi != pj {
			return pi < pj
		}
		return a.queue[i].EnqueueSeq < a.queue[j].EnqueueSeq
	})
}

// QueueSnapshot returns a copy of the pending-request queue in priority
// order, for custom ProcessFuncs and tests.
func (a *Agent) QueueSnapshot() []*Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Request, len(a.queue))
	copy(out, a.queue)
	return out
}

// defaultSingleAlgorithm implements hard-priority discipline for a
// single-resource agent: iterate in priority order, fulfill while
// capacity allows, and stop entirely at the first request that doesn't
// fit — no opportunistic backfill of lower-priority requests.
func (a *Agent) defaultSingleAlgorithm() {
	a.mu.Lock()
	if len(a.order) != 1 {
		a.mu.Unlock()
		return
	}
	rid := a.order[0]
	r := a.resources[rid]
	queue := append([]*Request(nil), a.queue...)
	a.mu.Unlock()

	for _, req := range queue {
		if r.Available() >= req.NumUnits {
			a.AssignResource(req, map[string]uint32{rid: req.NumUnits})
		} else {
			break
		}
	}
}

// defaultPoolAlgorithm implements the maximizing pool algorithm: walk
// the priority-ordered queue maintaining a provisional availability map;
// a request reserves whatever eligible units it touches even when it
// can't be fully met, so a later lower-priority request can never use
// capacity a higher-priority one needed.
func (a *Agent) defaultPoolAlgorithm() {
	a.mu.Lock()
	avail := make(map[string]uint32, len(a.order))
	for _, id := range a.order {
		avail[id] = a.resources[id].Available()
	}
	queue := append([]*Request(nil), a.queue...)
	order := append([]string(nil), a.order...)
	a.mu.Unlock()

	type plan struct {
		req   *Request
		units map[string]uint32
	}
	var commits []plan

	for _, req := range queue {
		need := req.NumUnits
		chosen := make(map[string]uint32)
		for _, rid := range order {
			if need == 0 {
				break
			}
			a.mu.Lock()
			r := a.resources[rid]
			a.mu.Unlock()
			if !req.Selector.Matches(r) {
				continue
			}
			free := avail[rid]
			if free == 0 {
				continue
			}
			take := free
			if take > need {
				take = need
			}
			chosen[rid] = take
			need -= take
		}
		for rid, units := range chosen {
			avail[rid] -= units
		}
		if need == 0 {
			commits = append(commits, plan{req: req, units: chosen})
		}
	}

	for _, c := range commits {
		a.AssignResource(c.req, c.units)
	}
}
