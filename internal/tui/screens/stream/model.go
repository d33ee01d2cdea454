// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream implements the live activity stream screen: filtered,
// virtualized event feed with gap detection, search, export and a
// progressive-disclosure details pane.
package stream

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/huh"

	"github.com/noldarim/pulse/internal/client"
	"github.com/noldarim/pulse/internal/config"
	"github.com/noldarim/pulse/internal/protocol"
	"github.com/noldarim/pulse/internal/stream"
	"github.com/noldarim/pulse/internal/tui/components/filtermenu"
	"github.com/noldarim/pulse/internal/tui/components/searchbox"
)

// Model is the stream screen state.
type Model struct {
	store *stream.Store
	api   *client.API
	cfg   config.StreamConfig

	// Derived view state, recomputed on every store or filter change.
	filter   stream.Filter
	filtered []protocol.ActivityEvent
	gap      bool
	query    string // canonical shareable encoding of the filter

	// Virtualized feed window.
	windower *stream.Windower
	scroll   int
	selected int
	paused   bool // auto-scroll paused by the user

	// Details pane (progressive disclosure).
	expanded bool
	details  viewport.Model

	// Filter & search UI.
	search     searchbox.Model
	showFilter bool
	filterForm *huh.Form
	formValues *filtermenu.Values

	// Backend-derived extras.
	connected bool
	metrics   client.MetricsSummary
	errMsg    string
	fetchGen  int

	width  int
	height int

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewModel creates the stream screen. The initial filter usually comes
// from a shared query string passed on the command line.
func NewModel(store *stream.Store, api *client.API, cfg config.StreamConfig, initial stream.Filter) Model {
	m := Model{
		store:    store,
		api:      api,
		cfg:      cfg,
		filter:   initial,
		windower: stream.NewWindower(cfg.RowHeightEstimate, cfg.Overscan),
		details:  viewport.New(80, 10),
		search:   searchbox.New(),
		width:    80,
		height:   24,
		now:      time.Now,
	}
	m.search.SetValue(initial.Search)
	m.recompute()
	return m
}

// Filter returns the screen's current filter state.
func (m Model) Filter() stream.Filter {
	return m.filter
}

// QueryString returns the canonical query encoding of the current filter,
// suitable for sharing.
func (m Model) QueryString() string {
	return m.query
}

// recompute rebuilds every piece of state derived from the store snapshot
// and filter: the filtered list, the gap flag, and the query encoding.
// Deterministic for a fixed snapshot and filter.
func (m *Model) recompute() {
	snapshot := m.store.Snapshot()
	m.filtered = m.filter.Apply(snapshot, m.now())
	m.query = stream.EncodeQueryString(m.filter)

	m.gap = false
	if len(m.filtered) > 0 {
		if seq, ok := m.filtered[0].Seq(); ok {
			m.gap = m.store.DetectMissedEvents(seq)
		}
	}

	if m.selected >= len(m.filtered) {
		m.selected = len(m.filtered) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}

	if !m.paused {
		m.scroll = 0
		m.selected = 0
	}
	m.clampScroll()
	m.refreshDetails()
}

// resetView discards scroll, selection and measured row heights. Used when
// the filter changes and row indices no longer mean the same thing.
func (m *Model) resetView() {
	m.windower.Reset()
	m.scroll = 0
	m.selected = 0
	m.expanded = false
}

func (m *Model) clampScroll() {
	max := m.windower.MaxScroll(len(m.filtered), m.bodyHeight())
	if m.scroll > max {
		m.scroll = max
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m *Model) refreshDetails() {
	if !m.expanded || m.selected >= len(m.filtered) {
		return
	}
	m.details.SetContent(renderDetails(m.filtered[m.selected], m.details.Width))
}

// bodyHeight is the feed viewport height: total minus header, search line,
// error line and footer.
func (m Model) bodyHeight() int {
	h := m.height - chromeLines
	if m.errMsg != "" {
		h--
	}
	if m.expanded {
		h -= m.detailsHeight() + 1
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) detailsHeight() int {
	h := m.height / 3
	if h < 4 {
		h = 4
	}
	return h
}
