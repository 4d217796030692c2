package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/udgraph/pkg/pipeline"
)

// transformFlags holds the flags shared by fix and collapse.
type transformFlags struct {
	output      string
	workers     int
	skipInvalid bool
	refresh     bool

	// collapse only
	separator string
	keepIDs   bool
	fixCycles bool
}

func (f *transformFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel workers (default from config, then number of CPUs)")
	cmd.Flags().BoolVar(&f.skipInvalid, "skip-invalid", false, "pass sentences with structural errors through unchanged")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
}

// apply overrides opts with the flags the user set explicitly.
func (f *transformFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("workers") {
		opts.Workers = f.workers
	}
	if changed("separator") {
		opts.Separator = f.separator
	}
	if changed("keep-ids") {
		opts.KeepEmptyIDs = f.keepIDs
	}
	if changed("fix-cycles") {
		opts.FixCycles = f.fixCycles
	}
	opts.SkipInvalid = f.skipInvalid
	opts.Refresh = f.refresh
}

// fixCommand creates the fix command.
func (c *CLI) fixCommand() *cobra.Command {
	var flags transformFlags

	cmd := &cobra.Command{
		Use:   "fix [file]",
		Short: "Break cycles in basic dependency trees",
		Long: `Fix rewrites every sentence whose basic tree contains a cycle. Starting
from each word in sentence order, fix follows head pointers toward the root.
When the walk returns to a word it has already visited, the head pointer that
closed the cycle is redirected to the root and the discarded head is recorded
in that word's MISC as CycleHead=<id>. The rest of the chain is unchanged.`,
		Example: `  udgraph fix corpus.conllu -o fixed.conllu
  cat corpus.conllu | udgraph fix > fixed.conllu`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(cmd, &opts)
			opts.FixCycles = true
			opts.Collapse = false
			return c.runTransform(cmd, args, flags.output, opts)
		},
	}

	flags.register(cmd)
	return cmd
}

// collapseCommand creates the collapse command.
func (c *CLI) collapseCommand() *cobra.Command {
	var flags transformFlags

	cmd := &cobra.Command{
		Use:   "collapse [file]",
		Short: "Collapse empty nodes into composite enhanced relations",
		Long: `Collapse removes the empty nodes of each enhanced graph. Every path
from a regular node through empty nodes to a regular node becomes a single
enhanced edge whose label joins the relations along the path, for example
conj>nsubj.`,
		Example: `  udgraph collapse corpus.conllu -o collapsed.conllu
  udgraph collapse --separator '|' --keep-ids corpus.conllu`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(cmd, &opts)
			opts.Collapse = true
			return c.runTransform(cmd, args, flags.output, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.separator, "separator", "", "separator between joined relations (default \">\")")
	cmd.Flags().BoolVar(&flags.keepIDs, "keep-ids", false, "keep empty node ids inside composite labels")
	cmd.Flags().BoolVar(&flags.fixCycles, "fix-cycles", false, "also break cycles in basic trees")
	return cmd
}

// runTransform runs a transform and writes the treebank.
func (c *CLI) runTransform(cmd *cobra.Command, args []string, output string, opts pipeline.Options) error {
	ctx := cmd.Context()
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	r := c.newRunner(ctx, nil)
	defer r.Close()

	stop := c.startSpinner(ctx, cmd.ErrOrStderr(), "Processing sentences...")
	res, err := r.Transform(ctx, input, opts)
	stop()
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, output, res.Output); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	rep := res.Report
	parts := []string{fmt.Sprintf("%d sentences", rep.Sentences)}
	if opts.FixCycles {
		parts = append(parts, fmt.Sprintf("%d cycles fixed", rep.CyclesFixed))
	}
	if opts.Collapse {
		parts = append(parts,
			fmt.Sprintf("%d empty nodes removed", rep.EmptyRemoved),
			fmt.Sprintf("%d edges added", rep.EdgesAdded))
	}
	printRunSummary(stderr, res.CacheHit, parts...)

	if rep.Invalid > 0 {
		printWarning(stderr, "%d invalid sentences passed through unchanged", rep.Invalid)
	}
	if rep.CollapseCycles > 0 || rep.Orphans > 0 {
		printWarning(stderr, "collapse dropped %d cyclic paths and %d orphaned empty nodes", rep.CollapseCycles, rep.Orphans)
	}
	return nil
}
