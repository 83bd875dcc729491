// Package dataset defines the write-only sink contract the engine emits
// data through, and the in-process collectors (counters, time-weighted
// and unweighted) that translate model-level value changes into sink
// calls. Storage and reporting are external collaborators (see
// internal/datasink); nothing here imports them.
package dataset

import "github.com/simgo/simgo/internal/simtime"

// ValueType tags a dataset's value domain for the sink's on_dataset call.
type ValueType int

const (
	Float ValueType = iota
	Integer
	CounterValue
)

// Sink is the external collaborator: it persists (or
// otherwise reports) element/dataset registrations and point values. The
// engine never reads from it.
type Sink interface {
	OnElement(elementID, className, typeName string)
	OnDataset(datasetID, elementID, name string, valueType ValueType, timeWeighted bool, timeUnit simtime.Unit)
	PutUnweighted(datasetID string, run, batch int, at simtime.T, value float64)
	PutTimeWeighted(datasetID string, run, batch int, from, to simtime.T, value float64)
	BeginRun(run int)
	BeginBatch(run, batch int)
	EndBatch(run, batch int)
	EndRun(run int)
}

// NullSink discards every call. It is the default sink during warmup,
// when nothing is meant to reach durable storage.
type NullSink struct{}

func (NullSink) OnElement(string, string, string)                                      {}
func (NullSink) OnDataset(string, string, string, ValueType, bool, simtime.Unit)        {}
func (NullSink) PutUnweighted(string, int, int, simtime.T, float64)                    {}
func (NullSink) PutTimeWeighted(string, int, int, simtime.T, simtime.T, float64)        {}
func (NullSink) BeginRun(int)                                                          {}
func (NullSink) BeginBatch(int, int)                                                   {}
func (NullSink) EndBatch(int, int)                                                     {}
func (NullSink) EndRun(int)                                                            {}
