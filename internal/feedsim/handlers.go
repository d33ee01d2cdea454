// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package feedsim

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/noldarim/pulse/internal/client"
	"github.com/noldarim/pulse/internal/stream"
)

// Handlers serves the REST endpoints the dashboard consumes.
type Handlers struct {
	history *stream.Store
}

// NewHandlers creates the REST handlers over the simulator's history
// buffer.
func NewHandlers(history *stream.Store) *Handlers {
	return &Handlers{history: history}
}

// GetHistory returns the retained events, newest first, optionally limited
// by the "limit" query parameter.
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	events := h.history.Snapshot()

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if limit < len(events) {
			events = events[:limit]
		}
	}

	writeJSON(w, http.StatusOK, events)
}

// GetMetrics returns an aggregate summary of the retained events.
func (h *Handlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	events := h.history.Snapshot()

	summary := client.MetricsSummary{
		TotalEvents: len(events),
		ByType:      make(map[string]int),
		ByAgent:     make(map[string]int),
	}
	for _, e := range events {
		summary.ByType[string(e.Type)]++
		if e.Agent != "" {
			summary.ByAgent[e.Agent]++
		}
	}
	if seq, ok := h.history.LastSequence(); ok {
		summary.LastSequence = &seq
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		getLog().Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
