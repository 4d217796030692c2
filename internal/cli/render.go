package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/udgraph/pkg/pipeline"
	"github.com/matzehuels/udgraph/pkg/render/dot"
)

type renderFlags struct {
	output   string
	sentence int
	enhanced bool
	detailed bool
	format   string
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw one sentence as SVG or Graphviz DOT",
		Long: `Render draws the basic tree (or, with --enhanced, the enhanced graph) of a
single sentence. Words are laid out in sentence order; empty nodes are shown
dashed in enhanced mode.`,
		Example: `  udgraph render -n 3 corpus.conllu -o s3.svg
  udgraph render --enhanced --format dot corpus.conllu | dot -Tpng > s1.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVarP(&flags.sentence, "sentence", "n", 1, "sentence number, starting at 1")
	cmd.Flags().BoolVar(&flags.enhanced, "enhanced", false, "draw the enhanced graph instead of the basic tree")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "add lemma and UPOS to node labels")
	cmd.Flags().StringVar(&flags.format, "format", pipeline.DefaultFormat, "output format: dot or svg")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when a cached result exists")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{dot.FormatDOT, dot.FormatSVG}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, flags renderFlags) error {
	ctx := cmd.Context()
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	opts := c.pipelineOptions()
	opts.Sentence = flags.sentence
	opts.Enhanced = flags.enhanced
	opts.Detailed = flags.detailed
	opts.Format = flags.format
	opts.Refresh = flags.refresh

	r := c.newRunner(ctx, nil)
	defer r.Close()

	out, hit, err := r.Render(ctx, input, opts)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, flags.output, out); err != nil {
		return err
	}
	if flags.output != "" && flags.output != "-" {
		printRunSummary(cmd.ErrOrStderr(), hit)
	}
	return nil
}
