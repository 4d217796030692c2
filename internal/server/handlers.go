package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/udgraph/pkg/buildinfo"
	"github.com/matzehuels/udgraph/pkg/depgraph/analyze"
	uerr "github.com/matzehuels/udgraph/pkg/errors"
	"github.com/matzehuels/udgraph/pkg/pipeline"
	"github.com/matzehuels/udgraph/pkg/render/dot"
)

// TransformResponse is returned by /v1/fix and /v1/collapse.
type TransformResponse struct {
	Output    string          `json:"output"`
	Report    pipeline.Report `json:"report"`
	InputHash string          `json:"input_hash"`
	CacheHit  bool            `json:"cache_hit"`
	RequestID string          `json:"request_id"`
}

// StatsResponse is returned by /v1/stats.
type StatsResponse struct {
	Stats     *analyze.Stats `json:"stats"`
	CacheHit  bool           `json:"cache_hit"`
	RequestID string         `json:"request_id"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	opts := s.cfg.Defaults
	opts.FixCycles = true
	opts.Collapse = false
	s.transform(w, r, opts)
}

func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	opts := s.cfg.Defaults
	opts.Collapse = true
	q := r.URL.Query()
	if v := q.Get("separator"); v != "" {
		opts.Separator = v
	}
	var err error
	if opts.KeepEmptyIDs, err = boolParam(q.Get("keep_ids"), opts.KeepEmptyIDs, "keep_ids"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.FixCycles, err = boolParam(q.Get("fix_cycles"), false, "fix_cycles"); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.transform(w, r, opts)
}

func (s *Server) transform(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	q := r.URL.Query()
	var err error
	if opts.SkipInvalid, err = boolParam(q.Get("skip_invalid"), opts.SkipInvalid, "skip_invalid"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Refresh, err = boolParam(q.Get("refresh"), false, "refresh"); err != nil {
		s.writeError(w, r, err)
		return
	}
	input, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	res, err := s.runner.Transform(r.Context(), input, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TransformResponse{
		Output:    string(res.Output),
		Report:    res.Report,
		InputHash: res.InputHash,
		CacheHit:  res.CacheHit,
		RequestID: RequestID(r.Context()),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	opts := s.cfg.Defaults
	var err error
	if opts.Refresh, err = boolParam(r.URL.Query().Get("refresh"), false, "refresh"); err != nil {
		s.writeError(w, r, err)
		return
	}
	input, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	stats, hit, err := s.runner.Stats(r.Context(), input, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Stats:     stats,
		CacheHit:  hit,
		RequestID: RequestID(r.Context()),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts := s.cfg.Defaults
	q := r.URL.Query()
	n, err := strconv.Atoi(q.Get("sentence"))
	if err != nil {
		s.writeError(w, r, uerr.New(uerr.ErrCodeInvalidInput, "sentence must be a number, got %q", q.Get("sentence")))
		return
	}
	opts.Sentence = n
	opts.Format = q.Get("format")
	if opts.Enhanced, err = boolParam(q.Get("enhanced"), false, "enhanced"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Detailed, err = boolParam(q.Get("detailed"), false, "detailed"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Refresh, err = boolParam(q.Get("refresh"), false, "refresh"); err != nil {
		s.writeError(w, r, err)
		return
	}
	input, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	out, hit, err := s.runner.Render(r.Context(), input, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ct := "image/svg+xml"
	if opts.Format == dot.FormatDOT {
		ct = "text/vnd.graphviz; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, uerr.Wrap(uerr.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

func boolParam(v string, def bool, name string) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, uerr.New(uerr.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
	}
	return b, nil
}

func errNotFound(path string) error {
	return uerr.New(uerr.ErrCodeNotFound, "no route for %s", path)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := uerr.HTTPStatus(err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	code := string(uerr.GetCode(err))
	if code == "" {
		code = string(uerr.ErrCodeInternal)
	}
	msg := uerr.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
