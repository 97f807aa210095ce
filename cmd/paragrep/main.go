package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/folbricht/paragrep"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		paragrep.Log.Error(err)
		var usageErr paragrep.UsageError
		if errors.As(err, &usageErr) {
			cmd.Usage()
		}
		os.Exit(1)
	}
}

// runParagrep implements the single command body: validate the four
// positional arguments (pattern, file, num_workers, logfile), compile the
// boundary-wrapped pattern, open the log file, and drive the coordinator.
// Spec.md §7's error table maps directly onto the early returns below -
// usage, then regex compile, then file open, then the run itself.
func runParagrep(cmd *cobra.Command, args []string) error {
	if verbose {
		paragrep.Log.SetLevel(logrus.DebugLevel)
	}

	pattern := args[0]
	file := args[1]
	numWorkers, err := parseNumWorkers(args[2])
	if err != nil {
		return err
	}
	logFile := args[3]

	re, err := paragrep.CompilePattern(pattern)
	if err != nil {
		return err
	}

	if _, err := os.Stat(file); err != nil {
		return errors.Wrap(err, "opening input file")
	}

	logw, err := os.Create(logFile)
	if err != nil {
		return errors.Wrap(err, "creating log file")
	}
	defer logw.Close()

	var progress paragrep.ProgressBar
	if showProgress {
		progress = paragrep.NewProgressBar("paragrep")
	}

	coordinator, err := paragrep.NewCoordinator(file, numWorkers, re, cmd.OutOrStdout(), logw, progress)
	if err != nil {
		return err
	}

	return coordinator.Run(context.Background())
}
