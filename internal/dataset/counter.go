package dataset

import (
	"sync"

	"github.com/simgo/simgo/internal/coroutine"
	"github.com/simgo/simgo/internal/simtime"
)

// pendingIncrement is a suspended Increment call waiting for headroom.
type pendingIncrement struct {
	need uint64
	co   *coroutine.Coroutine
}

// Counter is a time-weighted value with an optional capacity. An
// Increment that would exceed capacity suspends the caller exactly like
// acquire; requests are granted strictly in FIFO order (no
// backfill of a later, smaller increment ahead of an unmet one), mirroring
// the resource agent's hard-priority discipline.
type Counter struct {
	tw *TimeWeightedCollector

	mu       sync.Mutex
	value    uint64
	capacity uint64 // 0 means unbounded
	queue    []*pendingIncrement
}

// NewCounter constructs a counter registered under elementID/datasetID.
// capacity == 0 means unbounded (Increment never suspends).
func NewCounter(rec *Recorder, elementID, datasetID, name string, unit simtime.Unit, capacity uint64, start simtime.T) *Counter {
	return &Counter{
		tw:       NewTimeWeightedCollector(rec, elementID, datasetID, name, unit, start),
		capacity: capacity,
	}
}

// Value returns the counter's current value.
func (c *Counter) Value() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Increment adds n to the counter's value, emitting the resulting
// time-weighted span. If capacity is set and n would exceed it, or earlier
// increments are still waiting, co suspends until enough capacity is freed
// by Decrement calls, granted in FIFO arrival order.
func (c *Counter) Increment(co *coroutine.Coroutine, now simtime.T, n uint64) error {
	c.mu.Lock()
	if c.capacity == 0 || (len(c.queue) == 0 && c.value+n <= c.capacity) {
		c.value += n
		v := c.value
		c.mu.Unlock()
		c.tw.Set(now, float64(v))
		return nil
	}
	c.queue = append(c.queue, &pendingIncrement{need: n, co: co})
	c.mu.Unlock()

	// Decrement commits the queued increment (and emits its span) at the
	// moment it fits; by the time Suspend returns, value and the
	// time-weighted series already reflect it.
	_, err := co.Suspend(nil)
	return err
}

// Decrement subtracts n (clamped at 0) and grants any now-fitting queued
// increments, in FIFO order.
func (c *Counter) Decrement(now simtime.T, n uint64) {
	c.mu.Lock()
	if n > c.value {
		n = c.value
	}
	c.value -= n

	var toResume []*coroutine.Coroutine
	for len(c.queue) > 0 {
		head := c.queue[0]
		if c.value+head.need > c.capacity {
			break
		}
		c.value += head.need
		toResume = append(toResume, head.co)
		c.queue = c.queue[1:]
	}
	v := c.value
	c.mu.Unlock()

	c.tw.Set(now, float64(v))
	for _, co := range toResume {
		co.Resume(nil, nil)
	}
}
