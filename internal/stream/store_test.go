// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noldarim/pulse/internal/protocol"
)

func makeEvent(id string, seq int64, ts int64) protocol.ActivityEvent {
	return protocol.ActivityEvent{
		ID:        id,
		Sequence:  &seq,
		Timestamp: ts,
		Type:      protocol.EventTypeWorkflow,
		Agent:     "agent-1",
		Action:    "did something",
		Summary:   "a thing happened",
		Severity:  protocol.SeverityInfo,
	}
}

func TestStore_AppendNewestFirst(t *testing.T) {
	s := NewStore(10)
	require.True(t, s.Append(makeEvent("a", 1, 100)))
	require.True(t, s.Append(makeEvent("b", 2, 200)))
	require.True(t, s.Append(makeEvent("c", 3, 300)))

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "c", snap[0].ID)
	assert.Equal(t, "b", snap[1].ID)
	assert.Equal(t, "a", snap[2].ID)
}

func TestStore_RetentionBound(t *testing.T) {
	s := NewStore(100)
	for i := 0; i < 150; i++ {
		s.Append(makeEvent(fmt.Sprintf("evt-%d", i), int64(i), int64(i)))
	}

	require.Equal(t, 100, s.Len())

	// The 100 most recently appended events survive, newest first.
	snap := s.Snapshot()
	assert.Equal(t, "evt-149", snap[0].ID)
	assert.Equal(t, "evt-50", snap[99].ID)
}

func TestStore_EvictionIsFIFOByInsertion(t *testing.T) {
	s := NewStore(2)
	// Timestamps deliberately diverge from insertion order: eviction must
	// follow insertion, not time.
	s.Append(makeEvent("first", 1, 900))
	s.Append(makeEvent("second", 2, 100))
	s.Append(makeEvent("third", 3, 500))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "third", snap[0].ID)
	assert.Equal(t, "second", snap[1].ID)

	// Evicted IDs may be appended again.
	assert.True(t, s.Append(makeEvent("first", 4, 901)))
}

func TestStore_DeduplicatesByID(t *testing.T) {
	s := NewStore(10)
	require.True(t, s.Append(makeEvent("dup", 1, 100)))
	assert.False(t, s.Append(makeEvent("dup", 2, 200)))
	assert.Equal(t, 1, s.Len())

	// A rejected duplicate must not advance the sequence watermark.
	seq, ok := s.LastSequence()
	require.True(t, ok)
	assert.Equal(t, int64(1), seq)
}

func TestStore_RejectsMalformed(t *testing.T) {
	s := NewStore(10)
	bad := makeEvent("", 1, 100)
	assert.False(t, s.Append(bad))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, s.DroppedCount())
}

func TestStore_LastSequenceIsMax(t *testing.T) {
	s := NewStore(10)

	_, ok := s.LastSequence()
	assert.False(t, ok)

	s.Append(makeEvent("a", 5, 100))
	s.Append(makeEvent("b", 3, 200)) // out of order delivery
	s.Append(makeEvent("c", 9, 300))

	seq, ok := s.LastSequence()
	require.True(t, ok)
	assert.Equal(t, int64(9), seq)
}

func TestStore_LegacyEventsDoNotTouchSequence(t *testing.T) {
	s := NewStore(10)
	legacy := protocol.ActivityEvent{
		ID:        "legacy",
		Timestamp: 100,
		Type:      protocol.EventTypeChat,
		Agent:     "old-agent",
	}
	require.True(t, s.Append(legacy))

	_, ok := s.LastSequence()
	assert.False(t, ok)
}

func TestStore_DetectMissedEvents(t *testing.T) {
	s := NewStore(10)

	// No sequence observed yet: never reports a gap.
	assert.False(t, s.DetectMissedEvents(0))
	assert.False(t, s.DetectMissedEvents(-5))

	s.Append(makeEvent("a", 10, 100))

	tests := []struct {
		observed int64
		want     bool
	}{
		{observed: 10, want: false},
		{observed: 9, want: false}, // exactly one behind is contiguous
		{observed: 8, want: true},
		{observed: 0, want: true},
		{observed: 11, want: false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("observed=%d", tt.observed), func(t *testing.T) {
			assert.Equal(t, tt.want, s.DetectMissedEvents(tt.observed))
		})
	}
}

func TestStore_SubscribersNotifiedOnAppend(t *testing.T) {
	s := NewStore(10)

	notified := 0
	unsubscribe := s.Subscribe(func() { notified++ })

	s.Append(makeEvent("a", 1, 100))
	s.Append(makeEvent("b", 2, 200))
	assert.Equal(t, 2, notified)

	// Rejected events do not publish.
	s.Append(makeEvent("a", 3, 300))
	assert.Equal(t, 2, notified)

	unsubscribe()
	s.Append(makeEvent("c", 4, 400))
	assert.Equal(t, 2, notified)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore(10)
	s.Append(makeEvent("a", 1, 100))

	snap := s.Snapshot()
	snap[0].ID = "mutated"

	assert.Equal(t, "a", s.Snapshot()[0].ID)
}
