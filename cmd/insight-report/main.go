// Command insight-report computes a cohort dashboard from a fixture dataset
// and prints the insight prompt, optionally generating and exporting the
// insights.
package main

import (
	"os"

	"github.com/okian/cohortinsights/pkg/logger"
)

func main() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
