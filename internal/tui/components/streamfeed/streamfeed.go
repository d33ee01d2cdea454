// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package streamfeed

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/noldarim/pulse/internal/protocol"
)

var (
	dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	agent    = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	info     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	success  = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	warning  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selected = lipgloss.NewStyle().Background(lipgloss.Color("236"))
)

// typeIcons gives each event type a one-cell marker in the feed.
var typeIcons = map[protocol.EventType]string{
	protocol.EventTypeWorkflow: "▸",
	protocol.EventTypeChat:     "◆",
	protocol.EventTypeFile:     "✎",
	protocol.EventTypeState:    "↺",
	protocol.EventTypeCeremony: "✺",
	protocol.EventTypeGit:      "⎇",
}

// RenderRow renders one feed row. Rows are single lines; overflow is
// truncated to width.
func RenderRow(e protocol.ActivityEvent, isSelected bool, width int) string {
	style := severityStyle(e.Severity)
	icon := style.Render(iconFor(e.Type))
	ts := dim.Render(e.Time().Format("15:04:05"))
	who := agent.Render(e.Agent)
	what := style.Render(cleanString(e.Summary))

	line := fmt.Sprintf("%s %s %s %s", ts, icon, who, what)
	line = truncate(line, width)
	if isSelected {
		line = selected.Render(line)
	}
	return line
}

// RenderDetails renders the expanded, progressive-disclosure view of an
// event for the details pane.
func RenderDetails(e protocol.ActivityEvent, width int) string {
	var b strings.Builder

	seq := "-"
	if n, ok := e.Seq(); ok {
		seq = fmt.Sprintf("%d", n)
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", agent.Render(e.Agent), dim.Render(e.Time().Format("2006-01-02 15:04:05"))))
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n",
		dim.Render("type:"), string(e.Type),
		dim.Render("seq:"), seq,
		dim.Render("severity:"), severityStyle(e.Severity).Render(string(e.Severity))))
	b.WriteString(fmt.Sprintf("%s %s\n", dim.Render("action:"), e.Action))
	b.WriteString(e.Summary)
	b.WriteString("\n")

	if len(e.Details) > 0 {
		b.WriteString("\n")
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("%s %v\n", dim.Render(k+":"), e.Details[k]))
		}
	}
	return b.String()
}

func severityStyle(s protocol.Severity) lipgloss.Style {
	switch s {
	case protocol.SeveritySuccess:
		return success
	case protocol.SeverityWarning:
		return warning
	case protocol.SeverityError:
		return errStyle
	default:
		return info
	}
}

func iconFor(t protocol.EventType) string {
	if icon, ok := typeIcons[t]; ok {
		return icon
	}
	return "·"
}

func cleanString(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// truncate cuts a styled line to width. Escape sequences past the cut are
// preserved so open styles are still closed.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
