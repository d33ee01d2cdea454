// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client connects the dashboard to the platform backend: a
// WebSocket feed for pushed activity events and a thin REST client for
// history backfill and metrics.
package client

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/noldarim/pulse/internal/config"
	"github.com/noldarim/pulse/internal/logger"
	"github.com/noldarim/pulse/internal/protocol"
	"github.com/noldarim/pulse/internal/stream"
)

const (
	readLimit = 1 << 20
	pongWait  = 60 * time.Second
	dedupTTL  = 10 * time.Minute
)

var (
	log     *zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		l := logger.GetClientLogger()
		log = &l
	})
	return log
}

// Feed reads pushed activity events from the backend WebSocket and appends
// them to the store. It reconnects with exponential backoff until its
// context is cancelled.
type Feed struct {
	url        string
	store      *stream.Store
	dedup      *Deduplicator
	minBackoff time.Duration
	maxBackoff time.Duration

	mu        sync.Mutex
	onStatus  func(connected bool)
	malformed int
}

// NewFeed creates a feed client for the configured backend.
func NewFeed(cfg config.BackendConfig, store *stream.Store) *Feed {
	return &Feed{
		url:        cfg.WebSocketURL,
		store:      store,
		dedup:      NewDeduplicator(dedupTTL),
		minBackoff: cfg.ReconnectMinBackoff,
		maxBackoff: cfg.ReconnectMaxBackoff,
	}
}

// OnStatusChange registers a callback invoked when the connection state
// changes. The callback must not block.
func (f *Feed) OnStatusChange(fn func(connected bool)) {
	f.mu.Lock()
	f.onStatus = fn
	f.mu.Unlock()
}

// MalformedCount returns how many received payloads failed to decode.
func (f *Feed) MalformedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.malformed
}

// Run connects and keeps reading until ctx is cancelled. Each connection
// failure or drop triggers a reconnect after a backoff that doubles up to
// the configured maximum and resets on a successful connect.
func (f *Feed) Run(ctx context.Context) {
	backoff := f.minBackoff
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
		if err != nil {
			getLog().Warn().Err(err).Str("url", f.url).Dur("retry_in", backoff).Msg("Feed connection failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > f.maxBackoff {
				backoff = f.maxBackoff
			}
			continue
		}

		getLog().Info().Str("url", f.url).Msg("Feed connected")
		f.notifyStatus(true)
		backoff = f.minBackoff

		f.readLoop(ctx, conn)
		f.notifyStatus(false)
		getLog().Info().Msg("Feed disconnected")
	}
}

// readLoop consumes one connection until it drops or ctx is cancelled.
func (f *Feed) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	// Close the connection when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				getLog().Error().Err(err).Msg("Feed read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		f.ingest(message)
	}
}

// Ingest decodes, deduplicates and appends a single pushed payload.
// Malformed payloads are dropped, logged and counted, never fatal.
func (f *Feed) ingest(message []byte) {
	event, err := protocol.DecodeActivityEvent(message)
	if err != nil {
		f.mu.Lock()
		f.malformed++
		n := f.malformed
		f.mu.Unlock()
		getLog().Warn().Err(err).Int("total_dropped", n).Msg("Dropping malformed event")
		return
	}

	if !f.dedup.ShouldProcess(event.ID) {
		getLog().Debug().Str("id", event.ID).Msg("Skipping redelivered event")
		return
	}

	f.store.Append(event)
}

func (f *Feed) notifyStatus(connected bool) {
	f.mu.Lock()
	fn := f.onStatus
	f.mu.Unlock()
	if fn != nil {
		fn(connected)
	}
}
