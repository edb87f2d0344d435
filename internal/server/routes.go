package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/huangsam/archivepulse/core"
	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/telemetry"
	"github.com/huangsam/archivepulse/schema"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	var runs float64
	if families, err := telemetry.Snapshot(); err == nil {
		runs = telemetry.Sum(families["archivepulse_pipeline_runs_total"])
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"cache":   s.mgr != nil && s.mgr.GetAggregateStore() != nil,
		"history": s.mgr != nil && s.mgr.GetHistoryStore() != nil,
		"runs":    runs,
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runTrend(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runTrend(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":           result.URL,
		"summary":       result.Summary,
		"transitions":   result.Transitions,
		"samples":       result.Samples,
		"skipped_lines": result.Skipped,
	})
}

func (s *Server) handleNarrative(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runTrend(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(result.Narrative))
}

// runTrend parses the query parameters and runs the pipeline. On failure the
// error response has already been written.
func (s *Server) runTrend(w http.ResponseWriter, r *http.Request) (*schema.TrendResult, bool) {
	q := r.URL.Query()
	overrides := contract.TrendOverrides{
		TargetURL: q.Get("url"),
		Policy:    q.Get("policy"),
		AsOf:      q.Get("as_of"),
	}
	if raw := q.Get("fill"); raw != "" {
		fill, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "fill must be an integer")
			return nil, false
		}
		overrides.Fill = &fill
	}

	cfg := s.baseCfg.Clone()
	if err := contract.ApplyTrendOverrides(cfg, overrides); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	result, _, err := core.GetTrendResult(core.WithSuppressHeader(r.Context()), cfg, s.mgr)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return nil, false
	}
	return result, true
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var remote *schema.RemoteIndexError
	var empty *schema.EmptyIndexError
	switch {
	case errors.As(err, &remote):
		return http.StatusBadGateway
	case errors.As(err, &empty):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
