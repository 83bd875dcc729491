package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simgo/simgo/internal/dataset"
	"github.com/simgo/simgo/internal/simtime"
)

func TestSink_RoundTripsElementDatasetAndPoints(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	s.OnElement("queue", "Location", "location")
	s.OnDataset("queue.population", "queue", "population", dataset.Float, true, simtime.None)
	s.OnDataset("queue.entries", "queue", "entries", dataset.Integer, false, simtime.None)

	s.BeginRun(1)
	s.BeginBatch(1, 1)
	s.PutTimeWeighted("queue.population", 1, 1, simtime.New(0, simtime.None), simtime.New(5, simtime.None), 2)
	s.PutUnweighted("queue.entries", 1, 1, simtime.New(5, simtime.None), 1)
	s.EndBatch(1, 1)
	s.EndRun(1)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM timeweighted_points`).Scan(&count))
	require.Equal(t, 1, count)

	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM elements`).Scan(&count))
	require.Equal(t, 1, count)

	var endedAt *string
	require.NoError(t, s.db.QueryRow(`SELECT ended_at FROM runs WHERE run = 1`).Scan(&endedAt))
	require.NotNil(t, endedAt)
}
