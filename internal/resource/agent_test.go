package resource

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simgo/simgo/internal/clock"
	"github.com/simgo/simgo/internal/coroutine"
	"github.com/simgo/simgo/internal/simerr"
	"github.com/simgo/simgo/internal/simtime"
)

func spawnAcquirer(t *testing.T, run func(co *coroutine.Coroutine) (any, error)) (*coroutine.Coroutine, *any, *error) {
	t.Helper()
	var result any
	var resultErr error
	co := coroutine.Spawn(func(c *coroutine.Coroutine, first any) (any, error) {
		v, err := run(c)
		result, resultErr = v, err
		return v, err
	})
	return co, &result, &resultErr
}

func TestAcquireRelease_RoundTrip(t *testing.T) {
	loop := clock.New(simtime.Zero)
	r := New("server", 1)
	a := NewAgent("agent", loop, r)

	co, result, resultErr := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		return a.Acquire(c, "p1", ExactSelector{ID: "server"}, 1, 0, simtime.Zero, true)
	})
	_, _, finished := co.Resume(nil, nil)
	require.True(t, finished)
	require.NoError(t, *resultErr)
	assignment := (*result).(*Assignment)
	require.Equal(t, uint32(1), r.InUse())

	a.Release(assignment)
	require.Equal(t, uint32(0), r.InUse())
}

func TestAcquire_NExceedsCapacityFails(t *testing.T) {
	loop := clock.New(simtime.Zero)
	r := New("server", 1)
	a := NewAgent("agent", loop, r)

	co, _, resultErr := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		return a.Acquire(c, "p1", ExactSelector{ID: "server"}, 2, 0, simtime.Zero, true)
	})
	co.Resume(nil, nil)
	require.ErrorIs(t, *resultErr, simerr.InvalidRequest)
}

// Hard priority: a lower-priority request is never backfilled ahead of
// an unfulfilled higher-priority one.
func TestHardPriority_NoBackfill(t *testing.T) {
	loop := clock.New(simtime.Zero)
	r := New("server", 2)
	a := NewAgent("agent", loop, r)

	// Pre-occupy one of the two units: the high-priority request below
	// needs both and waits; the low-priority one would fit the free unit
	// but must wait behind it.
	holder, _, _ := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		return a.Acquire(c, "holder", ExactSelector{ID: "server"}, 1, 0, simtime.Zero, true)
	})
	holder.Resume(nil, nil)

	highDone, lowDone := false, false
	high, _, _ := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		v, err := a.Acquire(c, "high", ExactSelector{ID: "server"}, 2, 0, simtime.Zero, true)
		highDone = true
		return v, err
	})
	high.Resume(nil, nil)

	low, _, _ := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		v, err := a.Acquire(c, "low", ExactSelector{ID: "server"}, 1, 10, simtime.Zero, true)
		lowDone = true
		return v, err
	})
	low.Resume(nil, nil)

	require.False(t, highDone)
	require.False(t, lowDone)
	require.Equal(t, 2, len(a.QueueSnapshot()))
}

func TestAcquireTimeout_NotGivenToTimedOutWaiter(t *testing.T) {
	loop := clock.New(simtime.Zero)
	r := New("server", 1)
	a := NewAgent("agent", loop, r)

	holder, holderResult, _ := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		return a.Acquire(c, "holder", ExactSelector{ID: "server"}, 1, 0, simtime.Zero, true)
	})
	holder.Resume(nil, nil)

	var waiterErr error
	waiter, _, _ := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		_, err := a.Acquire(c, "waiter", ExactSelector{ID: "server"}, 1, 0, simtime.New(5, simtime.None), false)
		waiterErr = err
		return nil, err
	})
	waiter.Resume(nil, nil)

	var nextErr error
	var nextResult any
	nextDone := false
	next, _, _ := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		v, err := a.Acquire(c, "next", ExactSelector{ID: "server"}, 1, 0, simtime.Zero, true)
		nextResult, nextErr, nextDone = v, err, true
		return v, err
	})
	next.Resume(nil, nil)

	// Release after the waiter's timeout has elapsed.
	loop.Schedule(simtime.New(10, simtime.None), "release", nil, func() {
		assignment := (*holderResult).(*Assignment)
		a.Release(assignment)
	})
	loop.RunWhile(func(simtime.T) bool { return true })

	require.ErrorIs(t, waiterErr, simerr.TimedOut)
	require.True(t, nextDone)
	require.NoError(t, nextErr)
	require.NotNil(t, nextResult)
}

// Pool with class filter.
func TestPool_ClassFilterAndBackfillOnRelease(t *testing.T) {
	loop := clock.New(simtime.Zero)
	merchant := New("merchant-teller", 1, "Teller", "MerchantTeller")
	reg1 := New("teller-1", 1, "Teller")
	reg2 := New("teller-2", 1, "Teller")
	pool := NewPool("tellers", loop, merchant, reg1, reg2)

	merchantCo, merchantResult, merchantErr := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		return pool.Acquire(c, "merchant-cust", ClassSelector{Class: "MerchantTeller"}, 1, 0, simtime.Zero, true)
	})
	merchantCo.Resume(nil, nil)
	require.NoError(t, *merchantErr)
	require.Equal(t, map[string]uint32{"merchant-teller": 1}, (*merchantResult).(*Assignment).Units)

	var r1, r2, r3 *Assignment
	var r3waiting bool
	c1, res1, _ := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		return pool.Acquire(c, "reg1", ClassSelector{Class: "Teller"}, 1, 0, simtime.Zero, true)
	})
	c1.Resume(nil, nil)
	r1 = (*res1).(*Assignment)

	c2, res2, _ := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		return pool.Acquire(c, "reg2", ClassSelector{Class: "Teller"}, 1, 0, simtime.Zero, true)
	})
	c2.Resume(nil, nil)
	r2 = (*res2).(*Assignment)

	var res3 any
	var res3err error
	c3, _, _ := spawnAcquirer(t, func(c *coroutine.Coroutine) (any, error) {
		v, err := pool.Acquire(c, "reg3", ClassSelector{Class: "Teller"}, 1, 0, simtime.Zero, true)
		res3, res3err, r3waiting = v, err, false
		return v, err
	})
	r3waiting = true
	c3.Resume(nil, nil)
	require.True(t, r3waiting)

	pool.Release(r1)
	require.False(t, r3waiting)
	require.NoError(t, res3err)
	r3 = res3.(*Assignment)
	require.NotNil(t, r3)

	_ = r2
}
