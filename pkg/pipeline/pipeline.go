// Package pipeline runs the sentence transforms and analyses over a whole
// treebank.
//
// The CLI and the HTTP service both go through a [Runner], so caching,
// logging and error mapping behave the same at every entry point.
//
// # Stages
//
// Every sentence block of the input goes through the same steps:
//
//  1. Parse: build the sentence graph from its CoNLL-U lines
//  2. Observe: add the sentence to the corpus statistics (Stats only)
//  3. Fix: break cycles in the basic tree (Options.FixCycles)
//  4. Collapse: collapse empty nodes (Options.Collapse)
//  5. Write: serialize the graph back to CoNLL-U lines
//
// Sentences are processed by a bounded pool of workers. Each worker owns
// the graphs it builds and its own statistics accumulator; output is written
// in input order and the accumulators are merged when all workers finish.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Transform(ctx, input, pipeline.Options{
//	    FixCycles: true,
//	    Collapse:  true,
//	})
//	os.Stdout.Write(res.Output)
//
//	stats, err := runner.Stats(ctx, input, pipeline.Options{})
//
//	svg, err := runner.Render(ctx, input, pipeline.Options{Sentence: 3, Format: "svg"})
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/udgraph/pkg/cache"
	"github.com/matzehuels/udgraph/pkg/depgraph/transform"
	uerr "github.com/matzehuels/udgraph/pkg/errors"
	"github.com/matzehuels/udgraph/pkg/render/dot"
)

// Command names reported to observability hooks.
const (
	CommandTransform = "transform"
	CommandStats     = "stats"
	CommandRender    = "render"
)

// DefaultFormat is the render format used when Options.Format is empty.
const DefaultFormat = dot.FormatSVG

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Transform options
	FixCycles    bool   `json:"fix_cycles,omitempty"`
	Collapse     bool   `json:"collapse,omitempty"`
	Separator    string `json:"separator,omitempty"`
	KeepEmptyIDs bool   `json:"keep_empty_ids,omitempty"`
	// SkipInvalid passes sentences with structural errors through unchanged
	// instead of failing the run.
	SkipInvalid bool `json:"skip_invalid,omitempty"`

	// Render options
	Sentence int    `json:"sentence,omitempty"` // 1-based
	Enhanced bool   `json:"enhanced,omitempty"`
	Detailed bool   `json:"detailed,omitempty"` // lemma and UPOS in node labels
	Format   string `json:"format,omitempty"`

	// Runtime options
	Workers int         `json:"-"` // 0 means the number of CPUs
	Refresh bool        `json:"refresh,omitempty"`
	Logger  *log.Logger `json:"-"`
}

// setDefaults fills zero values and validates the transform options.
func (o *Options) setDefaults() error {
	if o.Separator == "" {
		o.Separator = transform.DefaultSeparator
	}
	if err := uerr.ValidateSeparator(o.Separator); err != nil {
		return err
	}
	if err := uerr.ValidateWorkers(o.Workers); err != nil {
		return err
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// validateForRender validates and sets defaults for rendering.
func (o *Options) validateForRender() error {
	if err := o.setDefaults(); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := uerr.ValidateChoice(uerr.ErrCodeInvalidFormat, "format", o.Format, dot.FormatDOT, dot.FormatSVG); err != nil {
		return err
	}
	if o.Sentence < 1 {
		return uerr.New(uerr.ErrCodeInvalidInput, "sentence must be >= 1, got %d", o.Sentence)
	}
	return nil
}

// CollapseOptions returns the collapser configuration.
func (o *Options) CollapseOptions(logger *log.Logger) transform.CollapseOptions {
	return transform.CollapseOptions{
		Separator:    o.Separator,
		KeepEmptyIDs: o.KeepEmptyIDs,
		Logger:       logger,
	}
}

// OutputKeyOpts returns cache key options for a transformed treebank.
func (o *Options) OutputKeyOpts() cache.OutputKeyOpts {
	k := cache.OutputKeyOpts{
		FixCycles:   o.FixCycles,
		Collapse:    o.Collapse,
		SkipInvalid: o.SkipInvalid,
	}
	if o.Collapse {
		k.Separator = o.Separator
		k.KeepEmptyIDs = o.KeepEmptyIDs
	}
	return k
}

// RenderKeyOpts returns cache key options for a rendered sentence.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Sentence: o.Sentence,
		Enhanced: o.Enhanced,
		Detailed: o.Detailed,
		Format:   o.Format,
	}
}

// =============================================================================
// Results
// =============================================================================

// Report counts what a transform run changed.
type Report struct {
	Sentences      int `json:"sentences"`
	Invalid        int `json:"invalid"`         // passed through because of structural errors
	CyclesFixed    int `json:"cycles_fixed"`    // basic heads redirected to the root
	EdgesAdded     int `json:"edges_added"`     // collapsed edges between regular nodes
	EmptyRemoved   int `json:"empty_removed"`   // empty nodes removed
	CollapseCycles int `json:"collapse_cycles"` // cyclic paths discarded while collapsing
	Orphans        int `json:"orphans"`         // empty nodes without a regular descendant
}

func (r *Report) add(o Report) {
	r.Sentences += o.Sentences
	r.Invalid += o.Invalid
	r.CyclesFixed += o.CyclesFixed
	r.EdgesAdded += o.EdgesAdded
	r.EmptyRemoved += o.EmptyRemoved
	r.CollapseCycles += o.CollapseCycles
	r.Orphans += o.Orphans
}

// Result is the outcome of [Runner.Transform].
type Result struct {
	// Output is the transformed treebank in CoNLL-U.
	Output []byte `json:"output"`
	// Report counts the changes made.
	Report Report `json:"report"`
	// InputHash is the SHA-256 of the input, used in cache keys.
	InputHash string `json:"input_hash"`
	// CacheHit is set when Output came from the cache.
	CacheHit bool `json:"cache_hit"`
	// Duration is the wall time of the run.
	Duration time.Duration `json:"-"`
}
