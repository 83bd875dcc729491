package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simgo/simgo/internal/simtime"
)

type capturingSink struct {
	NullSink
	elements   []string
	datasets   []string
	unweighted []float64
	weighted   []float64
}

func (s *capturingSink) OnElement(elementID, _, _ string) {
	s.elements = append(s.elements, elementID)
}

func (s *capturingSink) OnDataset(datasetID, _, _ string, _ ValueType, _ bool, _ simtime.Unit) {
	s.datasets = append(s.datasets, datasetID)
}

func (s *capturingSink) PutUnweighted(_ string, _, _ int, _ simtime.T, value float64) {
	s.unweighted = append(s.unweighted, value)
}

func (s *capturingSink) PutTimeWeighted(_ string, _, _ int, _, _ simtime.T, value float64) {
	s.weighted = append(s.weighted, value)
}

func TestRecorder_NoSuppressionForwardsEverything(t *testing.T) {
	sink := &capturingSink{}
	rec := NewRecorder()
	rec.SetSink(sink)

	rec.OnElement("queue", "Location", "location")
	c := NewUnweightedCollector(rec, "queue", "queue.entries", "entries", Integer)
	c.Add(simtime.New(1, simtime.None), 3)

	require.Equal(t, []string{"queue"}, sink.elements)
	require.Equal(t, []string{"queue.entries"}, sink.datasets)
	require.Equal(t, []float64{3}, sink.unweighted)
}

func TestRecorder_OnElement_DuplicateIDPanics(t *testing.T) {
	rec := NewRecorder()
	rec.SetSink(&capturingSink{})
	rec.OnElement("queue", "Location", "location")

	require.Panics(t, func() {
		rec.OnElement("queue", "Location", "location")
	})
}

func TestRecorder_DisableElements_SuppressesElementAndItsDatasets(t *testing.T) {
	sink := &capturingSink{}
	rec := NewRecorder()
	rec.SetSink(sink)
	rec.SetSuppression([]string{"queue*"}, nil)

	rec.OnElement("queue1", "Location", "location")
	c := NewUnweightedCollector(rec, "queue1", "queue1.entries", "entries", Integer)
	c.Add(simtime.New(1, simtime.None), 3)

	require.Empty(t, sink.elements)
	require.Empty(t, sink.datasets)
	require.Empty(t, sink.unweighted)
}

func TestRecorder_DisableElements_LeavesOtherElementsAlone(t *testing.T) {
	sink := &capturingSink{}
	rec := NewRecorder()
	rec.SetSink(sink)
	rec.SetSuppression([]string{"queue*"}, nil)

	rec.OnElement("server1", "Resource", "resource")
	c := NewUnweightedCollector(rec, "server1", "server1.busy", "busy", Integer)
	c.Add(simtime.New(1, simtime.None), 1)

	require.Equal(t, []string{"server1"}, sink.elements)
	require.Equal(t, []float64{1}, sink.unweighted)
}

func TestRecorder_DisableDatasets_ScopedToElementGlob(t *testing.T) {
	sink := &capturingSink{}
	rec := NewRecorder()
	rec.SetSink(sink)
	rec.SetSuppression(nil, []string{"[queue*] *.entries"})

	rec.OnElement("queue1", "Location", "location")
	entries := NewUnweightedCollector(rec, "queue1", "queue1.entries", "entries", Integer)
	population := NewTimeWeightedCollector(rec, "queue1", "queue1.population", "population", simtime.None, simtime.Zero)

	entries.Add(simtime.New(1, simtime.None), 2)
	population.Set(simtime.New(1, simtime.None), 4)

	require.Equal(t, []string{"queue1"}, sink.elements)
	require.Equal(t, []string{"queue1.population"}, sink.datasets) // entries dataset never registered
	require.Empty(t, sink.unweighted)
	require.Equal(t, []float64{0}, sink.weighted) // span for the population's initial value
}

func TestRecorder_DisableDatasets_BareGlobMatchesAnyElement(t *testing.T) {
	sink := &capturingSink{}
	rec := NewRecorder()
	rec.SetSink(sink)
	rec.SetSuppression(nil, []string{"*.entries"})

	rec.OnElement("queue1", "Location", "location")
	rec.OnElement("queue2", "Location", "location")
	NewUnweightedCollector(rec, "queue1", "queue1.entries", "entries", Integer).Add(simtime.New(1, simtime.None), 1)
	NewUnweightedCollector(rec, "queue2", "queue2.entries", "entries", Integer).Add(simtime.New(1, simtime.None), 1)

	require.Empty(t, sink.datasets)
	require.Empty(t, sink.unweighted)
}
