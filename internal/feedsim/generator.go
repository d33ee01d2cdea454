// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package feedsim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/noldarim/pulse/internal/protocol"
	"github.com/noldarim/pulse/internal/stream"
)

// actionTemplates provides per-type action/summary text for generated
// events.
var actionTemplates = map[protocol.EventType][]struct {
	action  string
	summary string
}{
	protocol.EventTypeWorkflow: {
		{"started step", "pipeline step %q started"},
		{"completed step", "pipeline step %q finished successfully"},
		{"retried step", "pipeline step %q retried after a transient failure"},
	},
	protocol.EventTypeChat: {
		{"sent message", "replied in thread %q"},
		{"asked question", "requested clarification on %q"},
	},
	protocol.EventTypeFile: {
		{"edited file", "wrote changes to %q"},
		{"created file", "created %q"},
		{"deleted file", "removed %q"},
	},
	protocol.EventTypeState: {
		{"changed status", "moved task %q to in-progress"},
		{"updated board", "reordered column %q"},
	},
	protocol.EventTypeCeremony: {
		{"opened standup", "daily standup %q started"},
		{"closed review", "review session %q wrapped up"},
	},
	protocol.EventTypeGit: {
		{"pushed commits", "pushed 3 commits to %q"},
		{"opened PR", "opened pull request %q"},
		{"merged PR", "merged pull request %q"},
	},
}

var subjects = []string{
	"build", "auth-refactor", "deploy", "sprint-12", "fix/races",
	"docs", "release-cut", "onboarding", "hotfix", "migration",
}

// Generator emits synthetic activity events at the scenario's rate,
// retaining them in a stream store (the simulator's history buffer) and
// broadcasting them to connected WebSocket clients.
type Generator struct {
	scenario Scenario
	history  *stream.Store
	registry *Registry
	rng      *rand.Rand

	seq int64
}

// NewGenerator creates a generator. The rng seed is explicit so tests can
// be deterministic.
func NewGenerator(scenario Scenario, history *stream.Store, registry *Registry, seed int64) *Generator {
	return &Generator{
		scenario: scenario,
		history:  history,
		registry: registry,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Run emits events until ctx is cancelled.
func (g *Generator) Run(ctx context.Context) {
	interval := time.Duration(float64(time.Second) / g.scenario.EventsPerSecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	getLog().Info().Float64("events_per_second", g.scenario.EventsPerSecond).Msg("Generator started")
	for {
		select {
		case <-ctx.Done():
			getLog().Info().Msg("Generator stopped")
			return
		case <-ticker.C:
			event := g.Next(time.Now())
			g.history.Append(event)
			if g.registry != nil {
				g.registry.Broadcast(event)
			}
		}
	}
}

// Next produces the next synthetic event. Sequence numbers are strictly
// increasing; with probability GapRate a number is skipped so clients see
// a delivery gap.
func (g *Generator) Next(now time.Time) protocol.ActivityEvent {
	g.seq++
	if g.scenario.GapRate > 0 && g.rng.Float64() < g.scenario.GapRate {
		g.seq++
	}
	seq := g.seq

	types, weights := g.scenario.types()
	typ := types[weightedPick(g.rng, weights)]

	tmpl := actionTemplates[typ][g.rng.Intn(len(actionTemplates[typ]))]
	subject := subjects[g.rng.Intn(len(subjects))]

	severity := protocol.SeverityInfo
	switch roll := g.rng.Float64(); {
	case roll < g.scenario.ErrorRate/2:
		severity = protocol.SeverityError
	case roll < g.scenario.ErrorRate:
		severity = protocol.SeverityWarning
	case roll > 0.8:
		severity = protocol.SeveritySuccess
	}

	event := protocol.ActivityEvent{
		ID:        uuid.New().String(),
		Sequence:  &seq,
		Timestamp: now.UnixMilli(),
		Type:      typ,
		Agent:     g.scenario.Agents[g.rng.Intn(len(g.scenario.Agents))],
		Action:    tmpl.action,
		Summary:   fmt.Sprintf(tmpl.summary, subject),
		Severity:  severity,
	}

	if severity == protocol.SeverityError {
		event.Details = map[string]any{
			"error": fmt.Sprintf("simulated failure while handling %q", subject),
		}
	}
	return event
}

func weightedPick(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := rng.Intn(total)
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return i
		}
	}
	return len(weights) - 1
}
