package clock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simgo/simgo/internal/simtime"
)

func TestStep_OrdersByTimeThenSequence(t *testing.T) {
	l := New(simtime.Zero)
	var order []string

	_, err := l.Schedule(simtime.New(5, simtime.None), "b", nil, func() { order = append(order, "b") })
	require.NoError(t, err)
	_, err = l.Schedule(simtime.New(1, simtime.None), "a", nil, func() { order = append(order, "a") })
	require.NoError(t, err)
	_, err = l.Schedule(simtime.New(1, simtime.None), "a2", nil, func() { order = append(order, "a2") })
	require.NoError(t, err)

	l.RunWhile(func(simtime.T) bool { return true })

	require.Equal(t, []string{"a", "a2", "b"}, order)
	require.Equal(t, 5.0, l.Now().Value)
}

func TestCancel_EventNeverFires(t *testing.T) {
	l := New(simtime.Zero)
	fired := false
	h, err := l.Schedule(simtime.New(1, simtime.None), "x", nil, func() { fired = true })
	require.NoError(t, err)
	h.Cancel()
	l.RunWhile(func(simtime.T) bool { return true })
	require.False(t, fired)
}

func TestCancel_Idempotent(t *testing.T) {
	l := New(simtime.Zero)
	h, _ := l.Schedule(simtime.New(1, simtime.None), "x", nil, func() {})
	h.Cancel()
	h.Cancel() // must not panic
	require.True(t, h.Cancelled())
}

func TestSchedule_NegativeDelayFails(t *testing.T) {
	l := New(simtime.Zero)
	_, err := l.Schedule(simtime.New(-1, simtime.None), "x", nil, func() {})
	require.Error(t, err)
}

func TestClockMonotonic(t *testing.T) {
	l := New(simtime.Zero)
	var seen []float64
	l.Schedule(simtime.New(3, simtime.None), "a", nil, func() { seen = append(seen, l.Now().Value) })
	l.Schedule(simtime.New(1, simtime.None), "b", nil, func() {
		seen = append(seen, l.Now().Value)
		// dispatch-time scheduling lands after all current now-events
		l.Schedule(simtime.New(0, simtime.None), "c", nil, func() { seen = append(seen, l.Now().Value) })
	})
	l.RunWhile(func(simtime.T) bool { return true })
	require.Equal(t, []float64{1, 1, 3}, seen)
}

func TestRunUntil_StopsBeforeLaterEvents(t *testing.T) {
	l := New(simtime.Zero)
	count := 0
	l.Schedule(simtime.New(5, simtime.None), "a", nil, func() { count++ })
	l.Schedule(simtime.New(15, simtime.None), "b", nil, func() { count++ })
	err := l.RunUntil(simtime.New(10, simtime.None))
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, 1, l.Pending())
}

func TestHalt_StopsStepAndIsSticky(t *testing.T) {
	l := New(simtime.Zero)
	boom := errors.New("boom")
	var ran []string

	l.Schedule(simtime.New(1, simtime.None), "a", nil, func() {
		ran = append(ran, "a")
		l.Halt(boom)
	})
	l.Schedule(simtime.New(2, simtime.None), "b", nil, func() { ran = append(ran, "b") })

	require.True(t, l.Step()) // dispatches "a", which halts
	require.Same(t, boom, l.Halted())
	require.False(t, l.Step()) // refuses to dispatch "b"
	require.Equal(t, []string{"a"}, ran)

	l.Halt(errors.New("second halt is ignored"))
	require.Same(t, boom, l.Halted())
}

func TestRunUntil_StopsOnHalt(t *testing.T) {
	l := New(simtime.Zero)
	boom := errors.New("boom")
	count := 0
	l.Schedule(simtime.New(1, simtime.None), "a", nil, func() {
		count++
		l.Halt(boom)
	})
	l.Schedule(simtime.New(2, simtime.None), "b", nil, func() { count++ })

	err := l.RunUntil(simtime.New(10, simtime.None))
	require.Same(t, boom, err)
	require.Equal(t, 1, count)
}

func TestRunWhile_StopsOnHalt(t *testing.T) {
	l := New(simtime.Zero)
	boom := errors.New("boom")
	count := 0
	l.Schedule(simtime.New(1, simtime.None), "a", nil, func() {
		count++
		l.Halt(boom)
	})
	l.Schedule(simtime.New(2, simtime.None), "b", nil, func() { count++ })

	err := l.RunWhile(func(simtime.T) bool { return true })
	require.Same(t, boom, err)
	require.Equal(t, 1, count)
}
