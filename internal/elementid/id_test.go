package elementid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoin_RootVsChild(t *testing.T) {
	require.Equal(t, "queue", Join("", "queue"))
	require.Equal(t, "queue.population", Join("queue", "population"))
}

func TestRegistry_RegisterThenHas(t *testing.T) {
	r := NewRegistry()
	require.False(t, r.Has("queue"))

	require.NoError(t, r.Register("queue"))
	require.True(t, r.Has("queue"))
}

func TestRegistry_RegisterTwiceFails(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("queue"))

	err := r.Register("queue")
	require.Error(t, err)
	require.True(t, r.Has("queue")) // the failed second call didn't clobber the first
}

func TestRegistry_DistinctIDsCoexist(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Join("queue", "population")))
	require.NoError(t, r.Register(Join("queue", "entries")))
	require.True(t, r.Has("queue.population"))
	require.True(t, r.Has("queue.entries"))
}
