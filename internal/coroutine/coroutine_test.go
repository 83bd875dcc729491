package coroutine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResume_YieldsSuspendedValue(t *testing.T) {
	c := Spawn(func(c *Coroutine, first any) (any, error) {
		n := first.(int)
		got, err := c.Suspend(n * 2)
		if err != nil {
			return nil, err
		}
		return got.(int) + 1, nil
	})

	yielded, err, finished := c.Resume(21, nil)
	require.NoError(t, err)
	require.False(t, finished)
	require.Equal(t, 42, yielded)

	final, err, finished := c.Resume(100, nil)
	require.NoError(t, err)
	require.True(t, finished)
	require.Equal(t, 101, final)
}

func TestResume_NestedSuspendFromHelper(t *testing.T) {
	// acquire-from-helper: Suspend called from a function other than the
	// top-level body, exercising the stackful requirement.
	helper := func(c *Coroutine) (any, error) {
		return c.Suspend("deep")
	}
	c := Spawn(func(c *Coroutine, first any) (any, error) {
		v, err := helper(c)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	yielded, _, finished := c.Resume(nil, nil)
	require.False(t, finished)
	require.Equal(t, "deep", yielded)
	final, _, finished := c.Resume("resumed", nil)
	require.True(t, finished)
	require.Equal(t, "resumed", final)
}

func TestResume_InjectsError(t *testing.T) {
	boom := errors.New("boom")
	c := Spawn(func(c *Coroutine, first any) (any, error) {
		_, err := c.Suspend(nil)
		return nil, err
	})
	c.Resume(nil, nil)
	_, err, finished := c.Resume(nil, boom)
	require.True(t, finished)
	require.ErrorIs(t, err, boom)
}

func TestResume_AfterCompletionErrors(t *testing.T) {
	c := Spawn(func(c *Coroutine, first any) (any, error) { return "done", nil })
	c.Resume(nil, nil)
	_, err, finished := c.Resume(nil, nil)
	require.Error(t, err)
	require.True(t, finished)
}
