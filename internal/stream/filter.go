// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/noldarim/pulse/internal/protocol"
)

// TimeWindow limits the stream to events newer than a fixed duration.
type TimeWindow string

// Time window constants
const (
	Window1h  TimeWindow = "1h"
	Window6h  TimeWindow = "6h"
	Window24h TimeWindow = "24h"
	Window7d  TimeWindow = "7d"
	Window30d TimeWindow = "30d"
	WindowAll TimeWindow = "all"
)

// TimeWindows lists the selectable windows in display order.
var TimeWindows = []TimeWindow{Window1h, Window6h, Window24h, Window7d, Window30d, WindowAll}

// Duration returns the window length and whether the window bounds time at
// all (WindowAll does not).
func (w TimeWindow) Duration() (time.Duration, bool) {
	switch w {
	case Window1h:
		return time.Hour, true
	case Window6h:
		return 6 * time.Hour, true
	case Window24h:
		return 24 * time.Hour, true
	case Window7d:
		return 7 * 24 * time.Hour, true
	case Window30d:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// Filter is the full filter state for the stream view. Empty type/agent
// sets and a blank query mean "no constraint"; the zero value with
// WindowAll passes everything through.
type Filter struct {
	Types  map[protocol.EventType]struct{}
	Agents map[string]struct{}
	Search string
	Window TimeWindow
}

// NewFilter returns the default filter: nothing selected, window all.
func NewFilter() Filter {
	return Filter{
		Types:  make(map[protocol.EventType]struct{}),
		Agents: make(map[string]struct{}),
		Window: WindowAll,
	}
}

// ToggleType adds or removes a type from the selection.
func (f *Filter) ToggleType(t protocol.EventType) {
	if f.Types == nil {
		f.Types = make(map[protocol.EventType]struct{})
	}
	if _, ok := f.Types[t]; ok {
		delete(f.Types, t)
	} else {
		f.Types[t] = struct{}{}
	}
}

// ToggleAgent adds or removes an agent from the selection.
func (f *Filter) ToggleAgent(agent string) {
	if f.Agents == nil {
		f.Agents = make(map[string]struct{})
	}
	if _, ok := f.Agents[agent]; ok {
		delete(f.Agents, agent)
	} else {
		f.Agents[agent] = struct{}{}
	}
}

// IsActive reports whether any constraint beyond the time window is set.
func (f Filter) IsActive() bool {
	return len(f.Types) > 0 || len(f.Agents) > 0 || strings.TrimSpace(f.Search) != ""
}

// TypeNames returns the selected type names, sorted for stable encoding.
func (f Filter) TypeNames() []string {
	names := lo.Map(lo.Keys(f.Types), func(t protocol.EventType, _ int) string {
		return string(t)
	})
	sort.Strings(names)
	return names
}

// AgentNames returns the selected agents, sorted for stable encoding.
func (f Filter) AgentNames() []string {
	names := lo.Keys(f.Agents)
	sort.Strings(names)
	return names
}

// Matches applies the full predicate chain to a single event, short
// circuiting in order: time window, type, agent, text query. All active
// constraints must hold (conjunction).
func (f Filter) Matches(e protocol.ActivityEvent, now time.Time) bool {
	if d, bounded := f.Window.Duration(); bounded {
		if now.Sub(e.Time()) > d {
			return false
		}
	}
	if len(f.Types) > 0 {
		if _, ok := f.Types[e.Type]; !ok {
			return false
		}
	}
	if len(f.Agents) > 0 {
		if _, ok := f.Agents[e.Agent]; !ok {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(e.Summary), q) &&
			!strings.Contains(strings.ToLower(e.Action), q) &&
			!strings.Contains(strings.ToLower(e.Agent), q) {
			return false
		}
	}
	return true
}

// Apply produces the visible event list from a store snapshot. Store order
// (newest first) is preserved; no re-sorting. Pure function: a fixed
// snapshot and filter state always yield the same output.
func (f Filter) Apply(events []protocol.ActivityEvent, now time.Time) []protocol.ActivityEvent {
	return lo.Filter(events, func(e protocol.ActivityEvent, _ int) bool {
		return f.Matches(e, now)
	})
}

// AgentsOf derives the distinct agent identifiers present in a snapshot,
// sorted. Used to populate the agent filter menu.
func AgentsOf(events []protocol.ActivityEvent) []string {
	agents := lo.Uniq(lo.FilterMap(events, func(e protocol.ActivityEvent, _ int) (string, bool) {
		return e.Agent, e.Agent != ""
	}))
	sort.Strings(agents)
	return agents
}
