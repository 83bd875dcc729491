package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/simgo/simgo/examples/mm1"
	_ "github.com/simgo/simgo/examples/pool"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "simrun",
	Short: "Run or replicate a simgo discrete-event simulation model",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML), layered under SIMGO_ env vars")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	cobra.OnInitialize(func() {
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replicateCmd)
}
