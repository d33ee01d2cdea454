// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream holds the activity stream core: the bounded event store,
// the filter pipeline, the windowing computation, and the export codecs.
package stream

import (
	"sync"

	"github.com/noldarim/pulse/internal/protocol"
)

// DefaultRetentionLimit bounds how many events the store keeps in memory.
const DefaultRetentionLimit = 100

// Store is the single source of truth for received activity events and the
// most recently observed sequence number. It keeps events newest first,
// evicts oldest beyond the retention limit, and notifies subscribers after
// every mutation. Stored events are immutable; the store only appends and
// evicts.
type Store struct {
	mu      sync.RWMutex
	events  []protocol.ActivityEvent
	ids     map[string]struct{}
	limit   int
	lastSeq int64
	haveSeq bool
	dropped int

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewStore creates a store with the given retention limit. Non-positive
// limits fall back to DefaultRetentionLimit.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultRetentionLimit
	}
	return &Store{
		ids:   make(map[string]struct{}),
		limit: limit,
		subs:  make(map[int]func()),
	}
}

// Append inserts an event at the head (newest first), evicting the oldest
// entries once the retention limit is exceeded. Eviction is FIFO by
// insertion order, not by timestamp. The last received sequence number is
// raised to the event's sequence when it carries one.
//
// Malformed events are rejected and counted; duplicates (by ID) are
// silently ignored. Returns true when the event was stored.
func (s *Store) Append(e protocol.ActivityEvent) bool {
	if err := e.Validate(); err != nil {
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	if _, dup := s.ids[e.ID]; dup {
		s.mu.Unlock()
		return false
	}

	s.events = append(s.events, protocol.ActivityEvent{})
	copy(s.events[1:], s.events)
	s.events[0] = e
	s.ids[e.ID] = struct{}{}

	for len(s.events) > s.limit {
		oldest := s.events[len(s.events)-1]
		delete(s.ids, oldest.ID)
		s.events = s.events[:len(s.events)-1]
	}

	if seq, ok := e.Seq(); ok && (!s.haveSeq || seq > s.lastSeq) {
		s.lastSeq = seq
		s.haveSeq = true
	}
	s.mu.Unlock()

	s.publish()
	return true
}

// Snapshot returns a copy of the retained events, newest first.
func (s *Store) Snapshot() []protocol.ActivityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]protocol.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of retained events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// LastSequence returns the highest sequence number seen and whether any
// sequence has been observed yet.
func (s *Store) LastSequence() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeq, s.haveSeq
}

// DetectMissedEvents reports whether at least one event was dropped between
// the observed sequence and the latest known sequence. Pure query: true iff
// a sequence has been observed and observed < lastReceivedSequence - 1.
func (s *Store) DetectMissedEvents(observed int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.haveSeq && observed < s.lastSeq-1
}

// DroppedCount returns how many malformed events were rejected at
// ingestion since the store was created.
func (s *Store) DroppedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}

// Subscribe registers a callback invoked after every store mutation.
// The returned function removes the subscription. Callbacks run on the
// mutating goroutine and must not block.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
