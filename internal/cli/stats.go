package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

type statsFlags struct {
	output  string
	json    bool
	top     int
	workers int
	refresh bool
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var flags statsFlags

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Report corpus statistics",
		Long: `Stats reads a treebank and reports counts of words, empty nodes, cycles,
node degree classes, enhancement patterns and relation frequencies.
Sentences with structural errors are skipped and logged.`,
		Example: `  udgraph stats corpus.conllu
  udgraph stats --json corpus.conllu | jq .enhancements`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print JSON instead of a report")
	cmd.Flags().IntVar(&flags.top, "top", 10, "relations listed per table")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "parallel workers (default from config, then number of CPUs)")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when a cached result exists")
	return cmd
}

func (c *CLI) runStats(cmd *cobra.Command, args []string, flags statsFlags) error {
	ctx := cmd.Context()
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	opts := c.pipelineOptions()
	if cmd.Flags().Changed("workers") {
		opts.Workers = flags.workers
	}
	opts.Refresh = flags.refresh

	r := c.newRunner(ctx, nil)
	defer r.Close()

	prog := newProgress(loggerFromContext(ctx))
	stop := c.startSpinner(ctx, cmd.ErrOrStderr(), "Collecting statistics...")
	stats, hit, err := r.Stats(ctx, input, opts)
	stop()
	if err != nil {
		return err
	}
	prog.done("statistics ready")

	if flags.json {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(cmd, flags.output, append(data, '\n'))
	}

	out := renderReport(stats, flags.top)
	if err := writeOutput(cmd, flags.output, []byte(out)); err != nil {
		return err
	}
	printRunSummary(cmd.ErrOrStderr(), hit)
	return nil
}
