// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noldarim/pulse/internal/client"
	"github.com/noldarim/pulse/internal/config"
	"github.com/noldarim/pulse/internal/stream"
	"github.com/noldarim/pulse/internal/tui/messages"
	streamscreen "github.com/noldarim/pulse/internal/tui/screens/stream"
)

// StartTUI runs the stream dashboard until the user quits or the program
// fails. Store changes and feed connection transitions are bridged into
// Bubble Tea messages so the screen never polls shared state.
func StartTUI(store *stream.Store, feed *client.Feed, api *client.API, cfg config.StreamConfig, initial stream.Filter) error {
	model := streamscreen.NewModel(store, api, cfg, initial)

	p := tea.NewProgram(model, tea.WithAltScreen())

	unsubscribe := store.Subscribe(func() {
		p.Send(messages.StoreChangedMsg{})
	})
	defer unsubscribe()

	feed.OnStatusChange(func(connected bool) {
		p.Send(messages.FeedStatusMsg{Connected: connected})
	})

	_, err := p.Run()
	return err
}
