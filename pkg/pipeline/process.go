package pipeline

import (
	"bytes"
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/udgraph/pkg/conllu"
	"github.com/matzehuels/udgraph/pkg/depgraph/analyze"
	"github.com/matzehuels/udgraph/pkg/depgraph/transform"
	uerr "github.com/matzehuels/udgraph/pkg/errors"
)

// sentenceResult is the outcome for one block.
type sentenceResult struct {
	lines  []string
	report Report
}

// batch is the outcome of processing a whole input.
type batch struct {
	results []sentenceResult
	report  Report
	stats   *analyze.Stats
}

// readBlocks splits input into sentence blocks.
func readBlocks(ctx context.Context, input []byte, limit int) ([]conllu.Block, error) {
	blocks, err := conllu.ReadAll(ctx, bytes.NewReader(input), limit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, uerr.Wrap(uerr.ErrCodeInvalidInput, err, "read treebank")
	}
	return blocks, nil
}

// process runs every block through the configured steps on a pool of
// opts.Workers goroutines. Statistics are gathered only when observe is set.
func process(ctx context.Context, blocks []conllu.Block, opts Options, observe bool) (*batch, error) {
	results := make([]sentenceResult, len(blocks))
	workers := max(1, min(opts.Workers, len(blocks)))
	perWorker := make([]*analyze.Stats, workers)

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range blocks {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := range workers {
		var st *analyze.Stats
		if observe {
			st = analyze.NewStats()
			perWorker[w] = st
		}
		g.Go(func() error {
			for i := range jobs {
				res, err := processBlock(blocks[i], opts, st)
				if err != nil {
					return err
				}
				results[i] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := &batch{results: results}
	for _, r := range results {
		b.report.add(r.report)
	}
	if observe {
		b.stats = analyze.NewStats()
		for _, st := range perWorker {
			b.stats.Merge(st)
		}
	}
	return b, nil
}

// processBlock parses one sentence and applies the transforms. st may be nil.
func processBlock(b conllu.Block, opts Options, st *analyze.Stats) (sentenceResult, error) {
	logger := opts.Logger.With("sentence", b.Index+1)
	g, err := b.Parse(logger)
	if err != nil {
		err = uerr.FromGraph(err, "sentence %d (line %d)", b.Index+1, b.Line)
		if !opts.SkipInvalid {
			return sentenceResult{}, err
		}
		logger.Warn("passing through invalid sentence", "line", b.Line, "err", err)
		return sentenceResult{lines: b.Lines, report: Report{Sentences: 1, Invalid: 1}}, nil
	}

	if st != nil {
		st.Observe(g)
	}

	rep := Report{Sentences: 1}
	if opts.FixCycles {
		fixes := transform.BreakCycles(g)
		for _, f := range fixes {
			logger.Debug("redirected cyclic head to root", "node", f.Node, "old_head", f.OldHead)
		}
		rep.CyclesFixed = len(fixes)
	}
	if opts.Collapse {
		res := transform.CollapseEmptyNodes(g, opts.CollapseOptions(logger))
		rep.EdgesAdded = len(res.Added)
		rep.EmptyRemoved = len(res.Removed)
		rep.CollapseCycles = len(res.Cycles)
		rep.Orphans = len(res.Orphans)
	}
	return sentenceResult{lines: g.Records(), report: rep}, nil
}

// write serializes the processed sentences in input order.
func (b *batch) write() ([]byte, error) {
	var buf bytes.Buffer
	w := conllu.NewWriter(&buf)
	for _, r := range b.results {
		if err := w.WriteLines(r.lines); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func logReport(logger *log.Logger, rep Report) {
	logger.Info("processed treebank",
		"sentences", rep.Sentences,
		"invalid", rep.Invalid,
		"cycles_fixed", rep.CyclesFixed,
		"edges_added", rep.EdgesAdded,
		"empty_removed", rep.EmptyRemoved)
	if rep.CollapseCycles > 0 || rep.Orphans > 0 {
		logger.Warn("collapse dropped paths",
			"cycles", rep.CollapseCycles,
			"orphans", rep.Orphans)
	}
}
