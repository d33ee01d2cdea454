// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feedsim is a development stand-in for the platform backend: it
// serves the activity history and metrics endpoints and pushes synthetic
// activity events over WebSocket, including deliberate sequence gaps so the
// dashboard's missed-event detection can be exercised locally.
package feedsim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noldarim/pulse/internal/protocol"
)

// Scenario describes the synthetic event traffic the simulator generates.
type Scenario struct {
	// Agents are the producer identifiers events are attributed to.
	Agents []string `yaml:"agents"`
	// EventsPerSecond is the average emission rate.
	EventsPerSecond float64 `yaml:"events_per_second"`
	// TypeWeights biases the event type distribution. Types absent from
	// the map are not generated; an empty map means uniform over all types.
	TypeWeights map[string]int `yaml:"type_weights"`
	// GapRate is the probability that an emitted event silently skips a
	// sequence number, simulating backend-side drops.
	GapRate float64 `yaml:"gap_rate"`
	// ErrorRate is the probability of a warning/error severity event.
	ErrorRate float64 `yaml:"error_rate"`
}

// DefaultScenario returns the scenario used when no file is configured.
func DefaultScenario() Scenario {
	return Scenario{
		Agents:          []string{"Brian", "amy", "zoe", "planner"},
		EventsPerSecond: 2,
		GapRate:         0.02,
		ErrorRate:       0.1,
	}
}

// LoadScenario reads a scenario YAML file, filling unset fields with
// defaults.
func LoadScenario(path string) (Scenario, error) {
	s := DefaultScenario()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	if err := s.validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

func (s Scenario) validate() error {
	if len(s.Agents) == 0 {
		return fmt.Errorf("scenario needs at least one agent")
	}
	if s.EventsPerSecond <= 0 {
		return fmt.Errorf("events_per_second must be positive, got: %v", s.EventsPerSecond)
	}
	if s.GapRate < 0 || s.GapRate >= 1 {
		return fmt.Errorf("gap_rate must be in [0,1), got: %v", s.GapRate)
	}
	if s.ErrorRate < 0 || s.ErrorRate > 1 {
		return fmt.Errorf("error_rate must be in [0,1], got: %v", s.ErrorRate)
	}
	positive := false
	for name, w := range s.TypeWeights {
		valid := false
		for _, t := range protocol.EventTypes {
			if name == string(t) {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown event type in type_weights: %s", name)
		}
		if w > 0 {
			positive = true
		}
	}
	if len(s.TypeWeights) > 0 && !positive {
		return fmt.Errorf("type_weights needs at least one positive weight")
	}
	return nil
}

// types returns the generated event types and their weights.
func (s Scenario) types() ([]protocol.EventType, []int) {
	if len(s.TypeWeights) == 0 {
		weights := make([]int, len(protocol.EventTypes))
		for i := range weights {
			weights[i] = 1
		}
		return protocol.EventTypes, weights
	}

	var types []protocol.EventType
	var weights []int
	for _, t := range protocol.EventTypes {
		if w, ok := s.TypeWeights[string(t)]; ok && w > 0 {
			types = append(types, t)
			weights = append(weights, w)
		}
	}
	return types, weights
}
