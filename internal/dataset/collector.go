package dataset

import "github.com/simgo/simgo/internal/simtime"

// TimeWeightedCollector emits (from, to, value) spans to the recorder's
// active sink every time the tracked value changes; the current value
// holds until the next Set call.
type TimeWeightedCollector struct {
	rec       *Recorder
	elementID string
	datasetID string
	value     float64
	since     simtime.T
}

// NewTimeWeightedCollector registers the dataset with the recorder
// (subject to DisableElements/DisableDatasets suppression) and returns a
// collector starting at value 0 from start.
func NewTimeWeightedCollector(rec *Recorder, elementID, datasetID, name string, unit simtime.Unit, start simtime.T) *TimeWeightedCollector {
	rec.OnDataset(datasetID, elementID, name, Float, true, unit)
	return &TimeWeightedCollector{rec: rec, elementID: elementID, datasetID: datasetID, since: start}
}

// Set emits the span the value held from its last change through now,
// then begins tracking the new value from now.
func (c *TimeWeightedCollector) Set(now simtime.T, value float64) {
	c.rec.PutTimeWeighted(c.datasetID, c.elementID, c.since, now, c.value)
	c.value = value
	c.since = now
}

// Value returns the currently tracked value.
func (c *TimeWeightedCollector) Value() float64 { return c.value }

// UnweightedCollector emits single point values, e.g. an entry count or
// a per-entity time-in-location delta.
type UnweightedCollector struct {
	rec       *Recorder
	elementID string
	datasetID string
}

// NewUnweightedCollector registers the dataset with the recorder
// (subject to DisableElements/DisableDatasets suppression).
func NewUnweightedCollector(rec *Recorder, elementID, datasetID, name string, valueType ValueType) *UnweightedCollector {
	rec.OnDataset(datasetID, elementID, name, valueType, false, simtime.None)
	return &UnweightedCollector{rec: rec, elementID: elementID, datasetID: datasetID}
}

// Add emits a single (time, value) point.
func (c *UnweightedCollector) Add(at simtime.T, value float64) {
	c.rec.PutUnweighted(c.datasetID, c.elementID, at, value)
}
