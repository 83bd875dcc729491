// Command simrun is the reference entry point for running and
// replicating simgo models: it loads configuration, drives a single
// replication as a library call, or launches the replication driver.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("simrun failed")
		os.Exit(1)
	}
}
