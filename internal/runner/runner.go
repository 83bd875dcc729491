// Package runner implements run_single: the one library entry point the
// engine exposes to a replication driver. It owns the per-run Loop and
// Recorder, advances warmup under the null sink, then advances nbatches
// batches under the caller's sink, stamping each with (run, batch).
package runner

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/simgo/simgo/internal/clock"
	"github.com/simgo/simgo/internal/config"
	"github.com/simgo/simgo/internal/dataset"
	"github.com/simgo/simgo/internal/rng"
	"github.com/simgo/simgo/internal/scenario"
	"github.com/simgo/simgo/internal/simtime"
)

// Params bundles one replication's run_single arguments.
type Params struct {
	ScenarioName  string
	Warmup        simtime.T
	Batch         simtime.T
	NBatches      int
	RunIndex      int // 1-based replication index
	StreamsPerRun int
	Sink          dataset.Sink
	Config        config.Config
}

// Run executes one replication: it builds the named scenario against a
// fresh Loop/Recorder, advances warmup under NullSink, then advances
// NBatches batches under params.Sink, stamped with run=RunIndex and
// batch=1..NBatches. Warmup emissions never reach params.Sink.
func Run(params Params) error {
	factory, err := scenario.Get(params.ScenarioName)
	if err != nil {
		return err
	}

	loop := clock.New(simtime.Zero)
	rec := dataset.NewRecorder()
	rec.SetSuppression(params.Config.DataCollection.DisableElements, params.Config.DataCollection.DisableDatasets)

	env := scenario.Env{
		Loop:     loop,
		Recorder: rec,
		Config:   params.Config,
		Stream: func(s int) *rng.Stream {
			return rng.NewStream(params.RunIndex, s, params.StreamsPerRun)
		},
	}
	model := factory(env)

	logrus.WithFields(logrus.Fields{
		"scenario":  params.ScenarioName,
		"run_index": params.RunIndex,
	}).Info("run_single: starting warmup")

	if err := model.Run(params.Warmup.Value); err != nil {
		return fmt.Errorf("runner: warmup: %w", err)
	}

	rec.SetSink(params.Sink)
	rec.BeginRun(params.RunIndex)
	defer rec.EndRun()

	for b := 1; b <= params.NBatches; b++ {
		rec.BeginBatch(b)
		if err := model.Run(params.Batch.Value); err != nil {
			return fmt.Errorf("runner: batch %d: %w", b, err)
		}
		rec.EndBatch()
		logrus.WithFields(logrus.Fields{
			"run_index": params.RunIndex,
			"batch":     b,
			"now":       loop.Now().String(),
		}).Debug("run_single: batch complete")
	}

	return nil
}
