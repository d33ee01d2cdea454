// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/noldarim/pulse/internal/protocol"
	"github.com/noldarim/pulse/internal/tui/components/streamfeed"
)

// chromeLines is the fixed vertical space around the feed body: header,
// search line, and footer.
const chromeLines = 4

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// View renders the stream screen.
func (m Model) View() string {
	if m.showFilter && m.filterForm != nil {
		return m.filterForm.View()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSearchLine())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(noticeStyle.Render(truncateLine(m.errMsg+"  (x to dismiss)", m.width)))
		b.WriteString("\n")
	}
	b.WriteString(m.renderFeed())
	if m.expanded {
		b.WriteString("\n")
		b.WriteString(dividerStyle.Render(strings.Repeat("─", max(m.width, 1))))
		b.WriteString("\n")
		b.WriteString(m.details.View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	conn := badStyle.Render("● offline")
	if m.connected {
		conn = okStyle.Render("● live")
	}

	parts := []string{
		titleStyle.Render("Activity Stream"),
		conn,
		dimStyle.Render(fmt.Sprintf("%d/%d events", len(m.filtered), m.store.Len())),
	}
	if m.metrics.TotalEvents > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("%d total on backend", m.metrics.TotalEvents)))
	}
	if m.gap {
		parts = append(parts, badStyle.Render("⚠ events missed"))
	}
	if m.paused {
		parts = append(parts, warnStyle.Render("⏸ auto-scroll paused"))
	}
	if dropped := m.store.DroppedCount(); dropped > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("%d malformed dropped", dropped)))
	}
	return truncateLine(strings.Join(parts, "  "), m.width)
}

func (m Model) renderSearchLine() string {
	line := m.search.View()
	if m.query != "" {
		line += "  " + dimStyle.Render("?"+m.query)
	}
	return truncateLine(line, m.width)
}

// renderFeed renders only the rows intersecting the scroll viewport, plus
// overscan, so render cost is bounded regardless of the filtered list
// length. Real row heights are fed back into the windower as they are
// measured.
func (m Model) renderFeed() string {
	body := m.bodyHeight()
	n := len(m.filtered)
	if n == 0 {
		empty := "no events"
		if m.filter.IsActive() {
			empty = "no events match the current filters"
		}
		return dimStyle.Render(empty) + strings.Repeat("\n", max(body-1, 0))
	}

	r := m.windower.Visible(n, m.scroll, body)
	var lines []string
	for i := r.Start; i < r.End; i++ {
		row := streamfeed.RenderRow(m.filtered[i], i == m.selected, m.width)
		m.windower.SetMeasured(i, lipgloss.Height(row))
		lines = append(lines, strings.Split(row, "\n")...)
	}

	skip := m.scroll - r.StartOffset
	if skip < 0 {
		skip = 0
	}
	if skip > len(lines) {
		skip = len(lines)
	}
	lines = lines[skip:]
	if len(lines) > body {
		lines = lines[:body]
	}
	for len(lines) < body {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	help := "j/k navigate · enter details · f filters · / search · p pause · e/E export · q quit"
	return truncateLine(dimStyle.Render(help), m.width)
}

func renderDetails(e protocol.ActivityEvent, width int) string {
	return streamfeed.RenderDetails(e, width)
}

func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
