package dataset

import (
	"path"
	"strings"
	"sync"

	"github.com/simgo/simgo/internal/elementid"
	"github.com/simgo/simgo/internal/simerr"
	"github.com/simgo/simgo/internal/simtime"
)

// Recorder holds the sink currently in effect for a run plus the
// run/batch indices every emitted point is stamped with. The sink
// starts as NullSink during warmup; runner.Run calls SetSink once, when
// warmup ends, and BeginBatch stamps each batch. It also owns the
// element/dataset suppression lists configured for the run: anything
// matching them never reaches the sink at all.
type Recorder struct {
	mu       sync.Mutex
	sink     Sink
	run      int
	batch    int
	elements *elementid.Registry

	disableElements []string
	disableDatasets []datasetSuppression
	suppressed      map[string]bool
}

type datasetSuppression struct {
	elementGlob string
	datasetGlob string
}

// NewRecorder constructs a Recorder defaulting to NullSink with no
// suppression.
func NewRecorder() *Recorder {
	return &Recorder{sink: NullSink{}, elements: elementid.NewRegistry(), suppressed: make(map[string]bool)}
}

// SetSink swaps the active sink (e.g. null during warmup, the real sink
// once batching starts).
func (r *Recorder) SetSink(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = s
}

// SetSuppression installs the element and dataset suppression globs (see
// config.DataCollectionConfig). disableDatasets entries are either a bare
// dataset glob or "[elementGlob] datasetGlob"; a bare glob matches every
// element. Call before any OnElement/OnDataset registration for the run.
func (r *Recorder) SetSuppression(disableElements, disableDatasets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disableElements = disableElements
	r.disableDatasets = make([]datasetSuppression, 0, len(disableDatasets))
	for _, entry := range disableDatasets {
		r.disableDatasets = append(r.disableDatasets, parseDatasetSuppression(entry))
	}
}

func parseDatasetSuppression(entry string) datasetSuppression {
	entry = strings.TrimSpace(entry)
	if strings.HasPrefix(entry, "[") {
		if end := strings.IndexByte(entry, ']'); end >= 0 {
			return datasetSuppression{
				elementGlob: strings.TrimSpace(entry[1:end]),
				datasetGlob: strings.TrimSpace(entry[end+1:]),
			}
		}
	}
	return datasetSuppression{elementGlob: "*", datasetGlob: entry}
}

func globMatch(pattern, s string) bool {
	if pattern == "" {
		return false
	}
	ok, err := path.Match(pattern, s)
	return err == nil && ok
}

func matchesAny(patterns []string, s string) bool {
	for _, p := range patterns {
		if globMatch(p, s) {
			return true
		}
	}
	return false
}

// elementSuppressed reports whether elementID was disabled by OnElement,
// and locks it in for the rest of the run so later callers (which only
// know the ID, not whether it was ever registered) get a stable answer.
func (r *Recorder) elementSuppressed(elementID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.suppressed[elementID] {
		return true
	}
	if matchesAny(r.disableElements, elementID) {
		r.suppressed[elementID] = true
		return true
	}
	return false
}

func (r *Recorder) datasetSuppressed(elementID, datasetID string) bool {
	if r.elementSuppressed(elementID) {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.disableDatasets {
		if globMatch(s.elementGlob, elementID) && globMatch(s.datasetGlob, datasetID) {
			return true
		}
	}
	return false
}

func (r *Recorder) snapshot() (Sink, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sink, r.run, r.batch
}

// BeginRun, BeginBatch, EndBatch, EndRun forward to the active sink and
// update the stamped run/batch indices.
func (r *Recorder) BeginRun(run int) {
	r.mu.Lock()
	r.run = run
	sink := r.sink
	r.mu.Unlock()
	sink.BeginRun(run)
}

func (r *Recorder) BeginBatch(batch int) {
	r.mu.Lock()
	r.batch = batch
	sink, run := r.sink, r.run
	r.mu.Unlock()
	sink.BeginBatch(run, batch)
}

func (r *Recorder) EndBatch() {
	sink, run, batch := r.snapshot()
	sink.EndBatch(run, batch)
}

func (r *Recorder) EndRun() {
	sink, run, _ := r.snapshot()
	sink.EndRun(run)
}

// OnElement registers elementID as unique for the run (panicking with
// simerr.SchedulerInvariantViolated on a collision — a scenario minting
// the same element id twice is a construction bug, not a runtime
// condition a model can recover from) and forwards to the active sink,
// unless elementID matches a DisableElements glob.
func (r *Recorder) OnElement(elementID, className, typeName string) {
	if err := r.elements.Register(elementID); err != nil {
		panic(simerr.Wrap(simerr.SchedulerInvariantViolated, err.Error()))
	}
	if r.elementSuppressed(elementID) {
		return
	}
	sink, _, _ := r.snapshot()
	sink.OnElement(elementID, className, typeName)
}

// OnDataset forwards to the active sink, unless elementID or the
// (elementID, datasetID) pair is suppressed.
func (r *Recorder) OnDataset(datasetID, elementID, name string, valueType ValueType, timeWeighted bool, unit simtime.Unit) {
	if r.datasetSuppressed(elementID, datasetID) {
		return
	}
	sink, _, _ := r.snapshot()
	sink.OnDataset(datasetID, elementID, name, valueType, timeWeighted, unit)
}

// PutUnweighted forwards a single (time, value) point to the active
// sink, unless the (elementID, datasetID) pair is suppressed.
func (r *Recorder) PutUnweighted(datasetID, elementID string, at simtime.T, value float64) {
	if r.datasetSuppressed(elementID, datasetID) {
		return
	}
	sink, run, batch := r.snapshot()
	sink.PutUnweighted(datasetID, run, batch, at, value)
}

// PutTimeWeighted forwards a (from, to, value) span to the active sink,
// unless the (elementID, datasetID) pair is suppressed.
func (r *Recorder) PutTimeWeighted(datasetID, elementID string, from, to simtime.T, value float64) {
	if r.datasetSuppressed(elementID, datasetID) {
		return
	}
	sink, run, batch := r.snapshot()
	sink.PutTimeWeighted(datasetID, run, batch, from, to, value)
}
