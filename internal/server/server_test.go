package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/udgraph/pkg/observability"
	"github.com/matzehuels/udgraph/pkg/pipeline"
)

const cyclic = "# sent_id = c1\n" +
	"1\ta\ta\tX\t_\t_\t2\tdep\t_\t_\n" +
	"2\tb\tb\tX\t_\t_\t1\tdep\t_\t_\n" +
	"3\tc\tc\tX\t_\t_\t0\troot\t0:root\t_\n" +
	"\n"

const gapped = "# sent_id = e1\n" +
	"1\tJohn\tJohn\tPROPN\t_\t_\t2\tnsubj\t2:nsubj|2.1:nsubj\t_\n" +
	"2\truns\trun\tVERB\t_\t_\t0\troot\t0:root\t_\n" +
	"2.1\tgoes\tgo\tVERB\t_\t_\t_\t_\t2:conj\t_\n" +
	"\n"

const broken = "1\tx\tx\tX\t_\t_\t0\troot\t5:dep\t_\n\n"

func newTestServer(cfg Config) *Server {
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(nil, nil, logger), logger, cfg)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(Config{}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[map[string]string](t, rec); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
	if id := rec.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("request id = %q, want a UUID", id)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	newTestServer(Config{}).Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "req-42" {
		t.Errorf("request id = %q, want req-42", got)
	}
}

func TestCollapse(t *testing.T) {
	rec := do(t, newTestServer(Config{}), http.MethodPost, "/v1/collapse?keep_ids=true", gapped)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	resp := decode[TransformResponse](t, rec)
	if !strings.Contains(resp.Output, "2:conj>2.1>nsubj") {
		t.Errorf("output:\n%s", resp.Output)
	}
	if resp.Report.EmptyRemoved != 1 || resp.RequestID == "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestFix(t *testing.T) {
	rec := do(t, newTestServer(Config{}), http.MethodPost, "/v1/fix", cyclic+gapped)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	resp := decode[TransformResponse](t, rec)
	if resp.Report.CyclesFixed != 1 || resp.Report.Sentences != 2 {
		t.Errorf("report = %+v", resp.Report)
	}
	if !strings.Contains(resp.Output, "2.1\tgoes") {
		t.Error("fix should not collapse empty nodes")
	}
}

func TestStats(t *testing.T) {
	rec := do(t, newTestServer(Config{}), http.MethodPost, "/v1/stats", cyclic+gapped)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	resp := decode[StatsResponse](t, rec)
	if resp.Stats == nil || resp.Stats.Sentences != 2 || resp.Stats.BasicCycles != 1 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}

func TestRender(t *testing.T) {
	rec := do(t, newTestServer(Config{}), http.MethodPost, "/v1/render?sentence=2&enhanced=true&format=dot", cyclic+gapped)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	if !strings.Contains(rec.Body.String(), `"2.1"`) {
		t.Errorf("body:\n%s", rec.Body)
	}
}

func TestRender_Detailed(t *testing.T) {
	s := newTestServer(Config{})
	rec := do(t, s, http.MethodPost, "/v1/render?sentence=1&format=dot&detailed=true", gapped)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "run VERB") {
		t.Errorf("detailed label missing lemma and UPOS:\n%s", rec.Body)
	}

	rec = do(t, s, http.MethodPost, "/v1/render?sentence=1&format=dot", gapped)
	if strings.Contains(rec.Body.String(), "run VERB") {
		t.Errorf("plain render should omit lemma and UPOS:\n%s", rec.Body)
	}

	rec = do(t, s, http.MethodPost, "/v1/render?sentence=1&detailed=maybe", gapped)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad detailed value: status = %d", rec.Code)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   string
	}{
		{"bad separator", http.MethodPost, "/v1/collapse?separator=%7C", gapped, http.StatusBadRequest, "INVALID_SEPARATOR"},
		{"bad bool", http.MethodPost, "/v1/collapse?keep_ids=maybe", gapped, http.StatusBadRequest, "INVALID_INPUT"},
		{"invalid sentence", http.MethodPost, "/v1/fix", broken, http.StatusBadRequest, "INVALID_RECORD"},
		{"missing sentence param", http.MethodPost, "/v1/render", gapped, http.StatusBadRequest, "INVALID_INPUT"},
		{"sentence out of range", http.MethodPost, "/v1/render?sentence=9&format=dot", gapped, http.StatusNotFound, "NOT_FOUND"},
		{"bad format", http.MethodPost, "/v1/render?sentence=1&format=png", gapped, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown route", http.MethodGet, "/v2/nothing", "", http.StatusNotFound, "NOT_FOUND"},
	}
	s := newTestServer(Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			resp := decode[ErrorResponse](t, rec)
			if resp.Code != tt.code || resp.RequestID == "" {
				t.Errorf("response = %+v, want code %s", resp, tt.code)
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	rec := do(t, newTestServer(Config{MaxBodyBytes: 16}), http.MethodPost, "/v1/stats", gapped)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	m := NewMetrics()
	m.Register()
	s := newTestServer(Config{Metrics: m})

	if rec := do(t, s, http.MethodPost, "/v1/fix", cyclic); rec.Code != http.StatusOK {
		t.Fatalf("fix status = %d", rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`udgraph_runs_total{command="transform",result="ok"} 1`,
		`udgraph_diagnostics_total{kind="cycle_fixed"} 1`,
		`udgraph_http_requests_total{method="POST",route="/v1/fix",status="200"} 1`,
		`udgraph_cache_misses_total{kind="output"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
