// Package observability provides hooks for metrics about pipeline runs,
// cache traffic and HTTP requests.
//
// Libraries call the registered hooks; main (or the HTTP service) registers
// an implementation at startup. The defaults are no-ops, so the graph
// packages and the CLI carry no metrics dependency.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetPipelineHooks(metrics)
//	observability.SetCacheHooks(metrics)
//	observability.SetHTTPHooks(metrics)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnRunStart(ctx, "collapse")
//	// ... process sentences ...
//	observability.Pipeline().OnRunComplete(ctx, "collapse", sentences, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Diagnostic kinds reported through [PipelineHooks.OnDiagnostic].
const (
	DiagCycleFixed      = "cycle_fixed"      // basic head redirected to the root
	DiagCollapseCycle   = "collapse_cycle"   // cyclic path through empty nodes dropped
	DiagCollapseOrphan  = "collapse_orphan"  // empty node without regular descendant
	DiagInvalidSentence = "invalid_sentence" // sentence rejected with a structural error
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the sentence pipeline.
type PipelineHooks interface {
	OnRunStart(ctx context.Context, command string)
	OnRunComplete(ctx context.Context, command string, sentences int, duration time.Duration, err error)
	// OnDiagnostic reports count occurrences of a recoverable problem.
	OnDiagnostic(ctx context.Context, kind string, count int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP service.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnDiagnostic(context.Context, string, int)                        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
