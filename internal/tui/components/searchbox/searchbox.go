// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package searchbox

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// Model wraps a text input used for the free-text stream search.
type Model struct {
	input textinput.Model
}

// New creates an unfocused search box.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "search summary, action, agent"
	ti.Prompt = promptStyle.Render("/ ")
	ti.CharLimit = 120
	return Model{input: ti}
}

// Update delegates to the underlying text input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the search box.
func (m Model) View() string {
	return m.input.View()
}

// Focus gives the box keyboard focus.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.input.Blur()
}

// Focused reports whether the box has focus.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Value returns the current query text.
func (m Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the query text.
func (m *Model) SetValue(v string) {
	m.input.SetValue(v)
}

// Clear empties the query text.
func (m *Model) Clear() {
	m.input.SetValue("")
}

// SetWidth sets the rendered width.
func (m *Model) SetWidth(w int) {
	m.input.Width = w
}
