package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/folbricht/paragrep"
)

var (
	verbose      bool
	showProgress bool
)

// newRootCommand builds the single paragrep command: four required
// positional arguments, per spec.md §6, plus the ambient --verbose and
// --progress flags (no config file, no env vars).
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paragrep <pattern> <file> <num_workers> <logfile>",
		Short: "Search paragraphs in a large text file against a POSIX ERE, in parallel.",
		Long: `Scans a single large text file for paragraphs - maximal runs of text
delimited by a blank line - that match a POSIX extended regular expression,
and prints each matching paragraph exactly once, in file order.

The file is divided into fixed-size chunks and distributed on demand across
a pool of worker goroutines; a coordinator reassembles results in order,
stitches paragraph boundaries across chunk seams, and appends a CSV log row
per released chunk.`,
		Example: `  paragrep 'Needle' large.txt 4 run.csv`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 4 {
				return paragrep.UsageError{Msg: "expected exactly 4 arguments: <pattern> <file> <num_workers> <logfile>"}
			}
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParagrep(cmd, args)
		},
	}
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose mode")
	cmd.PersistentFlags().BoolVar(&showProgress, "progress", false, "show a progress bar on stderr")
	return cmd
}

func parseNumWorkers(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, paragrep.UsageError{Msg: "num_workers must be an integer"}
	}
	if n < 1 || n > paragrep.MaxWorkers {
		return 0, paragrep.UsageError{Msg: fmt.Sprintf("num_workers must be between 1 and %d", paragrep.MaxWorkers)}
	}
	return n, nil
}
