// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"sync"
	"time"
)

// Deduplicator suppresses redelivered events at the ingestion path. The
// backend may redeliver events after a reconnect; the store also dedups by
// ID but only within its retention bound, so a TTL map catches redeliveries
// of already-evicted events.
type Deduplicator struct {
	seen sync.Map // event ID -> time.Time
	ttl  time.Duration
}

// NewDeduplicator creates a deduplicator remembering IDs for the given TTL.
func NewDeduplicator(ttl time.Duration) *Deduplicator {
	d := &Deduplicator{ttl: ttl}
	go d.cleanupExpired()
	return d
}

// ShouldProcess returns true if the event ID has not been seen within the
// TTL, marking it as seen.
func (d *Deduplicator) ShouldProcess(id string) bool {
	if id == "" {
		return true
	}
	if _, exists := d.seen.Load(id); exists {
		return false
	}
	d.seen.Store(id, time.Now())
	return true
}

// cleanupExpired periodically removes expired entries.
func (d *Deduplicator) cleanupExpired() {
	ticker := time.NewTicker(d.ttl / 2)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		d.seen.Range(func(key, value interface{}) bool {
			if seenAt, ok := value.(time.Time); ok {
				if now.Sub(seenAt) > d.ttl {
					d.seen.Delete(key)
				}
			}
			return true
		})
	}
}
