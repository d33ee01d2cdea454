// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package messages defines the tea messages shared between the TUI shell
// and its screens.
package messages

import (
	"time"

	"github.com/noldarim/pulse/internal/client"
	"github.com/noldarim/pulse/internal/protocol"
)

// StoreChangedMsg is sent whenever the event store mutates.
type StoreChangedMsg struct{}

// FeedStatusMsg reports WebSocket feed connectivity changes.
type FeedStatusMsg struct {
	Connected bool
}

// RefreshTickMsg drives the periodic history/metrics re-fetch.
type RefreshTickMsg time.Time

// HistoryLoadedMsg delivers a history backfill response. Gen identifies
// the fetch generation; stale responses are discarded.
type HistoryLoadedMsg struct {
	Gen    int
	Events []protocol.ActivityEvent
}

// MetricsLoadedMsg delivers a metrics summary response.
type MetricsLoadedMsg struct {
	Gen     int
	Summary client.MetricsSummary
}

// FetchFailedMsg reports a failed REST fetch for inline display.
type FetchFailedMsg struct {
	Gen int
	Err error
}

// ExportDoneMsg reports the outcome of an export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
