// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package filtermenu

import (
	"github.com/charmbracelet/huh"

	"github.com/noldarim/pulse/internal/protocol"
	"github.com/noldarim/pulse/internal/stream"
)

// Values holds the filter menu's form state while it is open. huh binds
// directly to these fields; Filter() converts them back once the form
// completes.
type Values struct {
	Types  []string
	Agents []string
	Window string
}

// ValuesFrom seeds form values from the current filter state.
func ValuesFrom(f stream.Filter) *Values {
	return &Values{
		Types:  f.TypeNames(),
		Agents: f.AgentNames(),
		Window: string(f.Window),
	}
}

// Filter converts completed form values back into filter state. The text
// query is owned by the search box and preserved by the caller.
func (v *Values) Filter(search string) stream.Filter {
	f := stream.NewFilter()
	for _, name := range v.Types {
		f.Types[protocol.EventType(name)] = struct{}{}
	}
	for _, agent := range v.Agents {
		f.Agents[agent] = struct{}{}
	}
	f.Search = search
	if v.Window != "" {
		f.Window = stream.TimeWindow(v.Window)
	}
	return f
}

// NewForm builds the filter form over the known agent set. Agents seen in
// the buffer populate the agent selector; selections for agents that have
// since left the buffer survive via the seeded values.
func NewForm(v *Values, knownAgents []string) *huh.Form {
	typeNames := make([]string, len(protocol.EventTypes))
	for i, t := range protocol.EventTypes {
		typeNames[i] = string(t)
	}

	agentOptions := knownAgents
	for _, selected := range v.Agents {
		found := false
		for _, known := range agentOptions {
			if known == selected {
				found = true
				break
			}
		}
		if !found {
			agentOptions = append(agentOptions, selected)
		}
	}

	windowNames := make([]string, len(stream.TimeWindows))
	for i, w := range stream.TimeWindows {
		windowNames[i] = string(w)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Key("types").
				Title("Event types").
				Description("Empty selection shows all types").
				Options(huh.NewOptions(typeNames...)...).
				Value(&v.Types),
			huh.NewMultiSelect[string]().
				Key("agents").
				Title("Agents").
				Description("Empty selection shows all agents").
				Options(huh.NewOptions(agentOptions...)...).
				Value(&v.Agents),
			huh.NewSelect[string]().
				Key("window").
				Title("Time window").
				Options(huh.NewOptions(windowNames...)...).
				Value(&v.Window),
		),
	)
}
