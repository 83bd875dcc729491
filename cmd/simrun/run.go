package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simgo/simgo/internal/config"
	"github.com/simgo/simgo/internal/datasink/sqlite"
	"github.com/simgo/simgo/internal/runner"
	"github.com/simgo/simgo/internal/scenario"
	"github.com/simgo/simgo/internal/simtime"
)

var (
	runScenario string
	runWarmup   float64
	runBatch    float64
	runNBatches int
	runIndex    int
	runDBPath   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single replication: run_single(warmup, batch, nbatches, run_index)",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runScenario, "scenario", "", "registered scenario name")
	runCmd.Flags().Float64Var(&runWarmup, "warmup", 0, "warmup length, in the configured base time unit")
	runCmd.Flags().Float64Var(&runBatch, "batch", 0, "batch length, in the configured base time unit")
	runCmd.Flags().IntVar(&runNBatches, "nbatches", 1, "number of batches")
	runCmd.Flags().IntVar(&runIndex, "run-index", 1, "replication index r, 1-based")
	runCmd.Flags().StringVar(&runDBPath, "db", "simgo.db", "SQLite output database path")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runScenario == "" {
		return fmt.Errorf("run: --scenario is required (available: %v)", scenario.Names())
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("run: load config: %w", err)
	}
	unit := cfg.SimTime.Unit()

	sink, err := sqlite.Open(runDBPath)
	if err != nil {
		return fmt.Errorf("run: open sink: %w", err)
	}
	defer sink.Close()

	return runner.Run(runner.Params{
		ScenarioName:  runScenario,
		Warmup:        simtime.New(runWarmup, unit),
		Batch:         simtime.New(runBatch, unit),
		NBatches:      runNBatches,
		RunIndex:      runIndex,
		StreamsPerRun: cfg.SimRandom.StreamsPerRun,
		Sink:          sink,
		Config:        cfg,
	})
}
