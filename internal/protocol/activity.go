// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol defines the wire shape of activity events pushed by the
// backend. Everything the dashboard renders flows through ActivityEvent.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EventType classifies where in the platform an activity event originated.
type EventType string

// Event type constants. These match the backend enumeration exactly;
// events carrying anything else are rejected at ingestion.
const (
	EventTypeWorkflow EventType = "Workflow"
	EventTypeChat     EventType = "Chat"
	EventTypeFile     EventType = "File"
	EventTypeState    EventType = "State"
	EventTypeCeremony EventType = "Ceremony"
	EventTypeGit      EventType = "Git"
)

// EventTypes lists all valid event types in display order.
var EventTypes = []EventType{
	EventTypeWorkflow,
	EventTypeChat,
	EventTypeFile,
	EventTypeState,
	EventTypeCeremony,
	EventTypeGit,
}

// Severity indicates how an event should be highlighted in the stream.
type Severity string

// Severity constants
const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ErrMalformedEvent is returned when a received event is missing required
// fields and cannot be appended to the store.
var ErrMalformedEvent = errors.New("malformed activity event")

// ActivityEvent is a single timestamped record of an agent or system action.
// Events are immutable once stored; the store only appends and evicts.
type ActivityEvent struct {
	// ID is the unique event identity, used as the deduplication key.
	ID string `json:"id"`

	// Sequence is the backend-assigned monotonic counter used for gap
	// detection. Nil for legacy events that predate sequence assignment.
	Sequence *int64 `json:"sequence,omitempty"`

	// Timestamp is the emission time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`

	Type     EventType `json:"type"`
	Agent    string    `json:"agent"`
	Action   string    `json:"action"`
	Summary  string    `json:"summary"`
	Severity Severity  `json:"severity,omitempty"`

	// Details carries an open-ended payload (reasoning text, tool calls,
	// file diffs) shown in the expanded row view.
	Details map[string]any `json:"details,omitempty"`
}

// Time returns the emission time as a time.Time.
func (e ActivityEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Seq returns the sequence number and whether the event carries one.
func (e ActivityEvent) Seq() (int64, bool) {
	if e.Sequence == nil {
		return 0, false
	}
	return *e.Sequence, true
}

// Normalize applies per-field coercion policy: a missing or unknown
// severity becomes info. Required-field problems are hard failures handled
// by Validate, not here.
func (e *ActivityEvent) Normalize() {
	switch e.Severity {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
	default:
		e.Severity = SeverityInfo
	}
}

// Validate checks the required fields. Events failing validation are
// rejected at ingestion and never reach the store.
func (e ActivityEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing id", ErrMalformedEvent)
	}
	if e.Timestamp <= 0 {
		return fmt.Errorf("%w: missing timestamp", ErrMalformedEvent)
	}
	if !validType(e.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, e.Type)
	}
	return nil
}

// DecodeActivityEvent parses, normalizes and validates a backend-pushed
// event payload.
func DecodeActivityEvent(data []byte) (ActivityEvent, error) {
	var e ActivityEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return ActivityEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	e.Normalize()
	if err := e.Validate(); err != nil {
		return ActivityEvent{}, err
	}
	return e, nil
}

func validType(t EventType) bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}
