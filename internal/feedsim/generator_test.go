// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package feedsim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noldarim/pulse/internal/protocol"
	"github.com/noldarim/pulse/internal/stream"
)

func TestGenerator_SequencesAreStrictlyIncreasing(t *testing.T) {
	g := NewGenerator(DefaultScenario(), stream.NewStore(100), nil, 42)

	prev := int64(0)
	for i := 0; i < 500; i++ {
		e := g.Next(time.Now())
		seq, ok := e.Seq()
		require.True(t, ok)
		assert.Greater(t, seq, prev)
		prev = seq
	}
}

func TestGenerator_GapRateSkipsSequenceNumbers(t *testing.T) {
	s := DefaultScenario()
	s.GapRate = 0.5
	g := NewGenerator(s, stream.NewStore(100), nil, 42)

	gaps := 0
	prev := int64(0)
	for i := 0; i < 500; i++ {
		seq, _ := g.Next(time.Now()).Seq()
		if seq > prev+1 {
			gaps++
		}
		prev = seq
	}
	assert.Greater(t, gaps, 0, "expected at least one sequence gap at gap_rate=0.5")
}

func TestGenerator_NoGapsAtZeroGapRate(t *testing.T) {
	s := DefaultScenario()
	s.GapRate = 0
	g := NewGenerator(s, stream.NewStore(100), nil, 7)

	prev := int64(0)
	for i := 0; i < 200; i++ {
		seq, _ := g.Next(time.Now()).Seq()
		assert.Equal(t, prev+1, seq)
		prev = seq
	}
}

func TestGenerator_EventsPassValidation(t *testing.T) {
	g := NewGenerator(DefaultScenario(), stream.NewStore(100), nil, 1)

	for i := 0; i < 100; i++ {
		e := g.Next(time.Now())
		assert.NoError(t, e.Validate())
		assert.NotEmpty(t, e.Agent)
		assert.NotEmpty(t, e.Summary)
	}
}

func TestGenerator_HonorsTypeWeights(t *testing.T) {
	s := DefaultScenario()
	s.TypeWeights = map[string]int{"Git": 1}
	g := NewGenerator(s, stream.NewStore(100), nil, 3)

	for i := 0; i < 50; i++ {
		assert.Equal(t, protocol.EventTypeGit, g.Next(time.Now()).Type)
	}
}

func TestLoadScenario_DefaultsAndValidation(t *testing.T) {
	s, err := LoadScenario("")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Agents)

	bad := DefaultScenario()
	bad.Agents = nil
	assert.Error(t, bad.validate())

	bad = DefaultScenario()
	bad.GapRate = 1.5
	assert.Error(t, bad.validate())

	bad = DefaultScenario()
	bad.TypeWeights = map[string]int{"Telemetry": 1}
	assert.Error(t, bad.validate())

	// All-zero weights would leave the generator with no types to pick
	// from, so validation must refuse them up front.
	bad = DefaultScenario()
	bad.TypeWeights = map[string]int{"Chat": 0}
	assert.Error(t, bad.validate())

	ok := DefaultScenario()
	ok.TypeWeights = map[string]int{"Chat": 0, "Git": 2}
	assert.NoError(t, ok.validate())
}
