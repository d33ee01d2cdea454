// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/noldarim/pulse/internal/config"
	"github.com/noldarim/pulse/internal/protocol"
)

// MetricsSummary is the backend's aggregate view of recent activity,
// rendered in the stream header.
type MetricsSummary struct {
	TotalEvents  int            `json:"total_events"`
	ByType       map[string]int `json:"by_type"`
	ByAgent      map[string]int `json:"by_agent"`
	LastSequence *int64         `json:"last_sequence,omitempty"`
}

// API is a thin REST client for the backend endpoints the dashboard
// consumes directly.
type API struct {
	base string
	http *http.Client
}

// NewAPI creates a REST client from backend config.
func NewAPI(cfg config.BackendConfig) *API {
	return &API{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// History fetches the most recent activity events, newest first. Used to
// backfill the store on startup.
func (a *API) History(ctx context.Context, limit int) ([]protocol.ActivityEvent, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var events []protocol.ActivityEvent
	if err := a.getJSON(ctx, "/api/v1/activity/history", q, &events); err != nil {
		return nil, fmt.Errorf("failed to fetch activity history: %w", err)
	}
	return events, nil
}

// Metrics fetches the activity metrics summary.
func (a *API) Metrics(ctx context.Context) (MetricsSummary, error) {
	var summary MetricsSummary
	if err := a.getJSON(ctx, "/api/v1/metrics/summary", nil, &summary); err != nil {
		return MetricsSummary{}, fmt.Errorf("failed to fetch metrics summary: %w", err)
	}
	return summary, nil
}

func (a *API) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := a.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
