package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/udgraph/pkg/observability"
)

// Metrics exports pipeline, cache and HTTP events as Prometheus metrics.
// It implements every observability hook interface.
type Metrics struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	sentences   *prometheus.CounterVec
	diagnostics *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewMetrics registers the udgraph collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "udgraph_runs_total",
			Help: "Pipeline runs by command and result",
		}, []string{"command", "result"}),
		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "udgraph_run_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}, []string{"command"}),
		sentences: f.NewCounterVec(prometheus.CounterOpts{
			Name: "udgraph_sentences_total",
			Help: "Sentences processed by command",
		}, []string{"command"}),
		diagnostics: f.NewCounterVec(prometheus.CounterOpts{
			Name: "udgraph_diagnostics_total",
			Help: "Recoverable problems found while processing sentences",
		}, []string{"kind"}),

		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "udgraph_cache_hits_total",
			Help: "Cache hits by key kind",
		}, []string{"kind"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "udgraph_cache_misses_total",
			Help: "Cache misses by key kind",
		}, []string{"kind"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "udgraph_cache_written_bytes_total",
			Help: "Bytes written to the cache by key kind",
		}, []string{"kind"}),

		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "udgraph_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "udgraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "udgraph_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Register installs m as the global observability hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// =============================================================================
// Hook implementations
// =============================================================================

func (m *Metrics) OnRunStart(context.Context, string) {}

func (m *Metrics) OnRunComplete(_ context.Context, command string, sentences int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.runs.WithLabelValues(command, result).Inc()
	m.runDuration.WithLabelValues(command).Observe(d.Seconds())
	m.sentences.WithLabelValues(command).Add(float64(sentences))
}

func (m *Metrics) OnDiagnostic(_ context.Context, kind string, count int) {
	m.diagnostics.WithLabelValues(kind).Add(float64(count))
}

func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.cacheHits.WithLabelValues(kind).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.cacheMisses.WithLabelValues(kind).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, kind string, size int) {
	m.cacheBytes.WithLabelValues(kind).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
