package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/udgraph/pkg/cache"
	"github.com/matzehuels/udgraph/pkg/depgraph/analyze"
	uerr "github.com/matzehuels/udgraph/pkg/errors"
	"github.com/matzehuels/udgraph/pkg/observability"
	"github.com/matzehuels/udgraph/pkg/render/dot"
)

// Runner executes pipeline runs with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the per-kind cache TTLs when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Transform fixes cycles and/or collapses empty nodes in every sentence of
// input and returns the rewritten treebank.
func (r *Runner) Transform(ctx context.Context, input []byte, opts Options) (res *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	sentences := 0
	hooks := observability.Pipeline()
	hooks.OnRunStart(ctx, CommandTransform)
	defer func() {
		hooks.OnRunComplete(ctx, CommandTransform, sentences, time.Since(start), err)
	}()

	inputHash := cache.Hash(input)
	key := r.Keyer.OutputKey(inputHash, opts.OutputKeyOpts())

	if !opts.Refresh {
		if data, ok := r.load(ctx, cache.KindOutput, key); ok {
			var cached Result
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.InputHash = inputHash
				cached.CacheHit = true
				cached.Duration = time.Since(start)
				sentences = cached.Report.Sentences
				opts.Logger.Debug("transform cache hit", "sentences", sentences)
				return &cached, nil
			}
		}
	}

	blocks, err := readBlocks(ctx, input, 0)
	if err != nil {
		return nil, err
	}
	b, err := process(ctx, blocks, opts, false)
	if err != nil {
		return nil, err
	}
	out, err := b.write()
	if err != nil {
		return nil, uerr.Wrap(uerr.ErrCodeInternal, err, "write treebank")
	}
	sentences = b.report.Sentences
	reportDiagnostics(ctx, b.report)
	logReport(opts.Logger, b.report)

	res = &Result{
		Output:    out,
		Report:    b.report,
		InputHash: inputHash,
		Duration:  time.Since(start),
	}
	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, cache.KindOutput, key, data, cache.TTLOutput)
	}
	return res, nil
}

// Stats computes corpus statistics over input. Sentences with structural
// errors are logged and left out. The second return value reports a cache
// hit.
func (r *Runner) Stats(ctx context.Context, input []byte, opts Options) (stats *analyze.Stats, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.setDefaults(); err != nil {
		return nil, false, err
	}
	opts.SkipInvalid = true
	opts.FixCycles = false
	opts.Collapse = false

	start := time.Now()
	sentences := 0
	hooks := observability.Pipeline()
	hooks.OnRunStart(ctx, CommandStats)
	defer func() {
		hooks.OnRunComplete(ctx, CommandStats, sentences, time.Since(start), err)
	}()

	key := r.Keyer.StatsKey(cache.Hash(input))
	if !opts.Refresh {
		if data, ok := r.load(ctx, cache.KindStats, key); ok {
			cached := analyze.NewStats()
			if err := json.Unmarshal(data, cached); err == nil {
				sentences = cached.Sentences
				return cached, true, nil
			}
		}
	}

	blocks, err := readBlocks(ctx, input, 0)
	if err != nil {
		return nil, false, err
	}
	b, err := process(ctx, blocks, opts, true)
	if err != nil {
		return nil, false, err
	}
	sentences = b.report.Sentences
	if b.report.Invalid > 0 {
		observability.Pipeline().OnDiagnostic(ctx, observability.DiagInvalidSentence, b.report.Invalid)
	}
	opts.Logger.Info("computed statistics",
		"sentences", b.stats.Sentences,
		"skipped", b.report.Invalid,
		"duration", time.Since(start))

	if data, err := json.Marshal(b.stats); err == nil {
		r.store(ctx, cache.KindStats, key, data, cache.TTLStats)
	}
	return b.stats, false, nil
}

// Render draws sentence opts.Sentence (1-based) of input as DOT or SVG. The
// second return value reports a cache hit.
func (r *Runner) Render(ctx context.Context, input []byte, opts Options) (out []byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.validateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRunStart(ctx, CommandRender)
	defer func() {
		n := 0
		if err == nil {
			n = 1
		}
		hooks.OnRunComplete(ctx, CommandRender, n, time.Since(start), err)
	}()

	key := r.Keyer.RenderKey(cache.Hash(input), opts.RenderKeyOpts())
	if !opts.Refresh {
		if data, ok := r.load(ctx, cache.KindRender, key); ok {
			return data, true, nil
		}
	}

	blocks, err := readBlocks(ctx, input, opts.Sentence)
	if err != nil {
		return nil, false, err
	}
	if err := uerr.ValidateSentenceIndex(opts.Sentence, len(blocks)); err != nil {
		return nil, false, err
	}
	b := blocks[opts.Sentence-1]
	g, err := b.Parse(opts.Logger.With("sentence", opts.Sentence))
	if err != nil {
		return nil, false, uerr.FromGraph(err, "sentence %d (line %d)", opts.Sentence, b.Line)
	}

	out, err = dot.Render(ctx, g, opts.Format, dot.Options{Enhanced: opts.Enhanced, Detailed: opts.Detailed})
	if err != nil {
		return nil, false, uerr.Wrap(uerr.ErrCodeInternal, err, "render sentence %d", opts.Sentence)
	}
	opts.Logger.Info("rendered sentence",
		"sentence", opts.Sentence,
		"format", opts.Format,
		"bytes", len(out),
		"duration", time.Since(start))

	r.store(ctx, cache.KindRender, key, out, cache.TTLRender)
	return out, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Internals
// =============================================================================

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// load reads a cache entry. Backend errors are logged and count as a miss.
func (r *Runner) load(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "kind", kind, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

// store writes a cache entry. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func reportDiagnostics(ctx context.Context, rep Report) {
	hooks := observability.Pipeline()
	for kind, n := range map[string]int{
		observability.DiagCycleFixed:      rep.CyclesFixed,
		observability.DiagCollapseCycle:   rep.CollapseCycles,
		observability.DiagCollapseOrphan:  rep.Orphans,
		observability.DiagInvalidSentence: rep.Invalid,
	} {
		if n > 0 {
			hooks.OnDiagnostic(ctx, kind, n)
		}
	}
}
