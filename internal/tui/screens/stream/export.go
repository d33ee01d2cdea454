// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noldarim/pulse/internal/protocol"
	"github.com/noldarim/pulse/internal/stream"
	"github.com/noldarim/pulse/internal/tui/messages"
)

type exportFormat string

const (
	formatJSON exportFormat = "json"
	formatCSV  exportFormat = "csv"
)

// exportCmd writes the current filtered list to a timestamped file in the
// configured export directory. The snapshot is taken before the command
// runs so later store mutations cannot leak into the document.
func (m Model) exportCmd(format exportFormat) tea.Cmd {
	events := make([]protocol.ActivityEvent, len(m.filtered))
	copy(events, m.filtered)
	dir := m.cfg.ExportDir

	return func() tea.Msg {
		name := fmt.Sprintf("pulse-activity-%s.%s", time.Now().Format("20060102-150405"), format)
		path := filepath.Join(dir, name)

		file, err := os.Create(path)
		if err != nil {
			return messages.ExportDoneMsg{Err: fmt.Errorf("failed to create export file: %w", err)}
		}
		defer file.Close()

		switch format {
		case formatCSV:
			err = stream.ExportCSV(file, events)
		default:
			err = stream.ExportJSON(file, events)
		}
		if err != nil {
			return messages.ExportDoneMsg{Err: err}
		}

		getTUILog().Info().Str("path", path).Int("events", len(events)).Msg("Exported activity stream")
		return messages.ExportDoneMsg{Path: path}
	}
}
