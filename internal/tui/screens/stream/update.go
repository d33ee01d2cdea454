// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"

	"github.com/noldarim/pulse/internal/logger"
	"github.com/noldarim/pulse/internal/stream"
	"github.com/noldarim/pulse/internal/tui/components/filtermenu"
	"github.com/noldarim/pulse/internal/tui/messages"
)

// getTUILog returns the logger for this screen (lazy initialization)
func getTUILog() *zerolog.Logger {
	log := logger.GetTUILogger().With().Str("component", "stream").Logger()
	return &log
}

// Init starts the refresh poll and the initial history backfill.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchHistoryCmd(m.fetchGen),
		m.fetchMetricsCmd(m.fetchGen),
		m.refreshTickCmd(),
	)
}

// Update handles messages and updates the screen state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.SetWidth(msg.Width - 4)
		m.details.Width = msg.Width
		m.details.Height = m.detailsHeight()
		m.clampScroll()
		m.refreshDetails()
		return m, nil

	case messages.StoreChangedMsg:
		m.recompute()
		return m, nil

	case messages.FeedStatusMsg:
		m.connected = msg.Connected
		return m, nil

	case messages.RefreshTickMsg:
		// Each tick starts a new fetch generation; anything still in
		// flight from earlier generations is discarded on arrival.
		m.fetchGen++
		return m, tea.Batch(
			m.fetchHistoryCmd(m.fetchGen),
			m.fetchMetricsCmd(m.fetchGen),
			m.refreshTickCmd(),
		)

	case messages.HistoryLoadedMsg:
		if msg.Gen != m.fetchGen {
			return m, nil // stale response, discard silently
		}
		// The store dedups by ID, so replayed history is harmless.
		for i := len(msg.Events) - 1; i >= 0; i-- {
			m.store.Append(msg.Events[i])
		}
		m.recompute()
		return m, nil

	case messages.MetricsLoadedMsg:
		if msg.Gen != m.fetchGen {
			return m, nil
		}
		m.metrics = msg.Summary
		return m, nil

	case messages.FetchFailedMsg:
		if msg.Gen != m.fetchGen {
			return m, nil
		}
		m.errMsg = msg.Err.Error()
		getTUILog().Warn().Err(msg.Err).Msg("Backend fetch failed")
		return m, nil

	case messages.ExportDoneMsg:
		if msg.Err != nil {
			m.errMsg = "export failed: " + msg.Err.Error()
		} else {
			m.errMsg = "exported to " + msg.Path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.showFilter && m.filterForm != nil {
		return m.updateFilterForm(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter menu captures all keys while open.
	if m.showFilter && m.filterForm != nil {
		if msg.String() == "esc" {
			m.showFilter = false
			m.filterForm = nil
			return m, nil
		}
		return m.updateFilterForm(msg)
	}

	// Search box captures keys while focused.
	if m.search.Focused() {
		switch msg.String() {
		case "esc":
			// Escape clears the query and removes focus.
			m.search.Clear()
			m.search.Blur()
			m.filter.Search = ""
			m.resetView()
			m.recompute()
			return m, nil
		case "enter":
			m.search.Blur()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != m.filter.Search {
			m.filter.Search = v
			m.resetView()
			m.recompute()
		}
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "f":
		// Dedicated shortcut: open the filter menu.
		m.formValues = filtermenu.ValuesFrom(m.filter)
		m.filterForm = filtermenu.NewForm(m.formValues, stream.AgentsOf(m.store.Snapshot()))
		m.showFilter = true
		return m, m.filterForm.Init()

	case "/":
		// Dedicated shortcut: focus the free-text search box.
		return m, m.search.Focus()

	case "p":
		m.paused = !m.paused
		if !m.paused {
			m.scroll = 0
			m.selected = 0
			m.recompute()
		}
		return m, nil

	case "j", "down":
		return m.moveSelection(1), nil
	case "k", "up":
		return m.moveSelection(-1), nil
	case "g", "home":
		m.selected = 0
		m.scroll = 0
		m.refreshDetails()
		return m, nil
	case "G", "end":
		if len(m.filtered) > 0 {
			m.selected = len(m.filtered) - 1
			m.scrollToSelection()
			m.refreshDetails()
		}
		return m, nil
	case "pgdown":
		m.scroll += m.bodyHeight()
		m.clampScroll()
		return m, nil
	case "pgup":
		m.scroll -= m.bodyHeight()
		m.clampScroll()
		return m, nil

	case "enter":
		if len(m.filtered) == 0 {
			return m, nil
		}
		m.expanded = !m.expanded
		if m.expanded {
			m.details.Height = m.detailsHeight()
			m.refreshDetails()
		}
		m.clampScroll()
		return m, nil

	case "esc":
		switch {
		case m.expanded:
			m.expanded = false
		case m.errMsg != "":
			m.errMsg = ""
		}
		return m, nil

	case "x":
		m.errMsg = ""
		return m, nil

	case "e":
		return m, m.exportCmd(formatJSON)
	case "E":
		return m, m.exportCmd(formatCSV)
	}

	if m.expanded {
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateFilterForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.filterForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.filterForm = f
	}

	if m.filterForm.State == huh.StateCompleted {
		m.filter = m.formValues.Filter(m.search.Value())
		m.showFilter = false
		m.filterForm = nil
		m.resetView()
		m.recompute()
		getTUILog().Info().Str("query", m.query).Msg("Filter applied")
	}
	return m, cmd
}

// moveSelection moves the cursor and keeps it inside the visible window.
func (m Model) moveSelection(delta int) Model {
	if len(m.filtered) == 0 {
		return m
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(m.filtered) {
		m.selected = len(m.filtered) - 1
	}
	m.scrollToSelection()
	m.refreshDetails()
	return m
}

func (m *Model) scrollToSelection() {
	top := m.windower.OffsetOf(m.selected)
	bottom := top + m.windower.HeightOf(m.selected)
	body := m.bodyHeight()

	if top < m.scroll {
		m.scroll = top
	}
	if bottom > m.scroll+body {
		m.scroll = bottom - body
	}
	m.clampScroll()
}

func (m Model) refreshTickCmd() tea.Cmd {
	return tea.Tick(m.cfg.RefreshInterval, func(t time.Time) tea.Msg {
		return messages.RefreshTickMsg(t)
	})
}

func (m Model) fetchHistoryCmd(gen int) tea.Cmd {
	if m.api == nil {
		return nil
	}
	api, limit := m.api, m.cfg.RetentionLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		events, err := api.History(ctx, limit)
		if err != nil {
			return messages.FetchFailedMsg{Gen: gen, Err: err}
		}
		return messages.HistoryLoadedMsg{Gen: gen, Events: events}
	}
}

func (m Model) fetchMetricsCmd(gen int) tea.Cmd {
	if m.api == nil {
		return nil
	}
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		summary, err := api.Metrics(ctx)
		if err != nil {
			return messages.FetchFailedMsg{Gen: gen, Err: err}
		}
		return messages.MetricsLoadedMsg{Gen: gen, Summary: summary}
	}
}
