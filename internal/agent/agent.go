// Package agent implements the message-passing layer shared by resource
// assignment agents, pools, and downtime agents: a per-agent FIFO
// mailbox, pluggable handlers, publish/subscribe fan-out, and
// synchronous sends that suspend the caller's coroutine until a response
// or a timeout arrives.
package agent

import (
	"sync"

	"github.com/google/uuid"

	"github.com/simgo/simgo/internal/clock"
	"github.com/simgo/simgo/internal/coroutine"
	"github.com/simgo/simgo/internal/simerr"
	"github.com/simgo/simgo/internal/simtime"
)

// MsgType names a message kind; handlers and subscriptions are keyed by it.
type MsgType string

// Message is the unit exchanged between agents.
type Message struct {
	ID         string
	Type       MsgType
	Sender     *Agent
	Receiver   *Agent
	Payload    any
	ResponseTo string // non-empty if this message answers an earlier one
}

// Handler processes one message. Returning true means "handled, remove
// from the queue"; false leaves it queued for a later ProcessQueue pass.
type Handler func(msg Message) bool

// Agent is the base message-passing object. Embed it (or hold one) in
// resource agents, pools, and downtime agents.
type Agent struct {
	ID   string
	loop *clock.Loop

	mu          sync.Mutex
	queue       []Message
	handlers    map[MsgType]Handler
	subscribers map[MsgType][]*Agent
	processing  bool // re-entrancy guard for ProcessQueue
	pending     map[string]*pendingSync
}

type pendingSync struct {
	co        *coroutine.Coroutine
	suspended bool
	done      bool
	response  any
	err       error
	timeout   clock.Handle
}

// New creates an agent identified by id, driven by loop for any scheduled
// timeouts.
func New(id string, loop *clock.Loop) *Agent {
	return &Agent{
		ID:          id,
		loop:        loop,
		handlers:    make(map[MsgType]Handler),
		subscribers: make(map[MsgType][]*Agent),
		pending:     make(map[string]*pendingSync),
	}
}

// On registers the handler invoked for messages of the given type.
func (a *Agent) On(msgType MsgType, h Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers[msgType] = h
}

// AddSubscriber registers subscriber to receive an async copy of every
// future Publish(msgType, ...) call.
func (a *Agent) AddSubscriber(subscriber *Agent, msgType MsgType) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscribers[msgType] = append(a.subscribers[msgType], subscriber)
}

// RemoveSubscriber undoes AddSubscriber.
func (a *Agent) RemoveSubscriber(subscriber *Agent, msgType MsgType) {
	a.mu.Lock()
	defer a.mu.Unlock()
	subs := a.subscribers[msgType]
	for i, s := range subs {
		if s == subscriber {
			a.subscribers[msgType] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Publish fans out an async copy of payload to every subscriber of msgType.
func (a *Agent) Publish(msgType MsgType, payload any) {
	a.mu.Lock()
	subs := append([]*Agent(nil), a.subscribers[msgType]...)
	a.mu.Unlock()
	for _, s := range subs {
		a.SendAsync(s, msgType, payload)
	}
}

// SendAsync appends a message to to's mailbox and returns immediately
// after triggering to's queue processing.
func (a *Agent) SendAsync(to *Agent, msgType MsgType, payload any) Message {
	msg := Message{ID: uuid.NewString(), Type: msgType, Sender: a, Receiver: to, Payload: payload}
	to.deliver(msg)
	return msg
}

// Respond sends an async reply to original, waking any sender suspended
// in SendSync on it.
func (a *Agent) Respond(original Message, msgType MsgType, payload any) {
	msg := Message{ID: uuid.NewString(), Type: msgType, Sender: a, Receiver: original.Sender, Payload: payload, ResponseTo: original.ID}
	original.Sender.deliver(msg)
}

// SendSync sends a message to 'to' and suspends co until a Respond()
// naming this message's ID arrives, or timeout elapses first (Zero-value
// simtime.T with non-positive Value is treated as "no timeout" when
// infinite is true).
func (a *Agent) SendSync(co *coroutine.Coroutine, to *Agent, msgType MsgType, payload any, timeout simtime.T, infinite bool) (any, error) {
	msg := Message{ID: uuid.NewString(), Type: msgType, Sender: a, Receiver: to, Payload: payload}

	ps := &pendingSync{co: co}
	a.mu.Lock()
	a.pending[msg.ID] = ps
	a.mu.Unlock()

	to.deliver(msg)

	a.mu.Lock()
	already := ps.done
	a.mu.Unlock()
	if already {
		a.mu.Lock()
		delete(a.pending, msg.ID)
		a.mu.Unlock()
		return ps.response, ps.err
	}

	if !infinite && a.loop != nil {
		h, err := a.loop.Schedule(timeout, "sync-timeout", msg.ID, func() {
			a.mu.Lock()
			p, ok := a.pending[msg.ID]
			if !ok || p.done {
				a.mu.Unlock()
				return
			}
			p.done = true
			delete(a.pending, msg.ID)
			shouldResume := p.suspended
			a.mu.Unlock()
			if shouldResume {
				p.co.Resume(nil, simerr.TimedOut)
			} else {
				p.err = simerr.TimedOut
			}
		})
		if err == nil {
			ps.timeout = h
		}
	}

	a.mu.Lock()
	ps.suspended = true
	a.mu.Unlock()
	return co.Suspend(nil)
}

func (a *Agent) receiveResponse(msg Message) {
	a.mu.Lock()
	ps, ok := a.pending[msg.ResponseTo]
	if !ok || ps.done {
		a.mu.Unlock()
		return
	}
	ps.done = true
	ps.response = msg.Payload
	ps.timeout.Cancel()
	delete(a.pending, msg.ResponseTo)
	suspended := ps.suspended
	a.mu.Unlock()

	if suspended {
		ps.co.Resume(msg.Payload, nil)
	}
}

func (a *Agent) deliver(msg Message) {
	if msg.ResponseTo != "" {
		a.mu.Lock()
		_, isPending := a.pending[msg.ResponseTo]
		a.mu.Unlock()
		if isPending {
			a.receiveResponse(msg)
			return
		}
	}
	a.mu.Lock()
	a.queue = append(a.queue, msg)
	a.mu.Unlock()
	a.ProcessQueue()
}

// ProcessQueue scans the mailbox once in FIFO order, invoking the
// handler registered for each message's type. Messages whose handler
// returns false remain queued. Re-entrant calls while already processing
// are no-ops (the in-progress pass will pick up new arrivals itself is
// not guaranteed, so explicit triggers re-invoke ProcessQueue after
// mutating state).
func (a *Agent) ProcessQueue() {
	a.mu.Lock()
	if a.processing {
		a.mu.Unlock()
		return
	}
	a.processing = true
	snapshot := append([]Message(nil), a.queue...)
	a.mu.Unlock()

	var remaining []Message
	for _, msg := range snapshot {
		a.mu.Lock()
		h, ok := a.handlers[msg.Type]
		a.mu.Unlock()
		handled := false
		if ok {
			handled = h(msg)
		}
		if !handled {
			remaining = append(remaining, msg)
		}
	}

	a.mu.Lock()
	// Preserve any messages that arrived while we were processing.
	arrived := a.queue[len(snapshot):]
	a.queue = append(append([]Message(nil), remaining...), arrived...)
	a.processing = false
	a.mu.Unlock()
}

// QueueLen reports the number of messages currently queued (for tests).
func (a *Agent) QueueLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}
