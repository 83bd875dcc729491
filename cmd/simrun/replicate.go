package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simgo/simgo/internal/config"
	"github.com/simgo/simgo/internal/replication"
)

var (
	repScenario    string
	repWarmup      float64
	repBatch       float64
	repNBatches    int
	repFirst       int
	repLast        int
	repConcurrency int
	repDBPrefix    string
)

var replicateCmd = &cobra.Command{
	Use:   "replicate",
	Short: "Launch one OS process per replication and aggregate their results",
	RunE:  runReplicate,
}

func init() {
	replicateCmd.Flags().StringVar(&repScenario, "scenario", "", "registered scenario name")
	replicateCmd.Flags().Float64Var(&repWarmup, "warmup", 0, "warmup length, in the configured base time unit")
	replicateCmd.Flags().Float64Var(&repBatch, "batch", 0, "batch length, in the configured base time unit")
	replicateCmd.Flags().IntVar(&repNBatches, "nbatches", 1, "number of batches")
	replicateCmd.Flags().IntVar(&repFirst, "first", 1, "first replication index")
	replicateCmd.Flags().IntVar(&repLast, "last", 1, "last replication index (inclusive)")
	replicateCmd.Flags().IntVar(&repConcurrency, "concurrency", 0, "max concurrent child processes (0 = unbounded)")
	replicateCmd.Flags().StringVar(&repDBPrefix, "db-prefix", "simgo", "output database path prefix; each replication writes <prefix>-<run>.db")
}

func runReplicate(cmd *cobra.Command, args []string) error {
	if repScenario == "" {
		return fmt.Errorf("replicate: --scenario is required")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("replicate: load config: %w", err)
	}
	if repLast > cfg.SimRandom.MaxReplications {
		return fmt.Errorf("replicate: --last %d exceeds SimRandom.MaxReplications %d", repLast, cfg.SimRandom.MaxReplications)
	}

	driver := &replication.Driver{
		Concurrency: repConcurrency,
		Args: []string{
			"--scenario", repScenario,
			"--warmup", fmt.Sprintf("%g", repWarmup),
			"--batch", fmt.Sprintf("%g", repBatch),
			"--nbatches", fmt.Sprintf("%d", repNBatches),
		},
		ArgsFor: func(runIndex int) []string {
			return []string{"--db", fmt.Sprintf("%s-%d.db", repDBPrefix, runIndex)}
		},
	}

	results := driver.Run(context.Background(), repFirst, repLast)

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			logrus.WithError(r.Err).WithField("run_index", r.RunIndex).Error("replicate: replication failed")
			continue
		}
		logrus.WithField("run_index", r.RunIndex).Info("replicate: replication complete")
	}
	if failures > 0 {
		return fmt.Errorf("replicate: %d of %d replications failed", failures, len(results))
	}
	return nil
}
