// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noldarim/pulse/internal/config"
	"github.com/noldarim/pulse/internal/stream"
)

func newTestFeed(store *stream.Store) *Feed {
	return NewFeed(config.BackendConfig{
		WebSocketURL:        "ws://127.0.0.1:0/ws",
		ReconnectMinBackoff: time.Millisecond,
		ReconnectMaxBackoff: time.Millisecond,
	}, store)
}

func TestFeed_IngestAppendsValidEvents(t *testing.T) {
	store := stream.NewStore(10)
	f := newTestFeed(store)

	f.ingest([]byte(`{"id":"e1","sequence":1,"timestamp":1700000000000,"type":"Chat","agent":"amy","summary":"hi"}`))
	f.ingest([]byte(`{"id":"e2","sequence":2,"timestamp":1700000000001,"type":"Git","agent":"bob","summary":"push"}`))

	assert.Equal(t, 2, store.Len())
	seq, ok := store.LastSequence()
	assert.True(t, ok)
	assert.Equal(t, int64(2), seq)
}

func TestFeed_IngestDropsMalformedAndCounts(t *testing.T) {
	store := stream.NewStore(10)
	f := newTestFeed(store)

	f.ingest([]byte(`not json`))
	f.ingest([]byte(`{"timestamp":1,"type":"Chat"}`)) // missing id

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 2, f.MalformedCount())
}

func TestFeed_IngestSkipsRedeliveredEvents(t *testing.T) {
	store := stream.NewStore(10)
	f := newTestFeed(store)

	payload := []byte(`{"id":"e1","timestamp":1700000000000,"type":"Chat","agent":"amy"}`)
	f.ingest(payload)
	f.ingest(payload)

	assert.Equal(t, 1, store.Len())
}

func TestFeed_StatusCallback(t *testing.T) {
	f := newTestFeed(stream.NewStore(10))

	var got []bool
	f.OnStatusChange(func(connected bool) { got = append(got, connected) })

	f.notifyStatus(true)
	f.notifyStatus(false)
	assert.Equal(t, []bool{true, false}, got)
}
