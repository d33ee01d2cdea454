// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noldarim/pulse/internal/config"
	"github.com/noldarim/pulse/internal/protocol"
)

func testBackend(t *testing.T, handler http.Handler) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPI(config.BackendConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 2 * time.Second,
	})
}

func TestAPI_History(t *testing.T) {
	api := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/activity/history", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"e1","timestamp":1700000000000,"type":"Git","agent":"Bob","sequence":4}]`))
	}))

	events, err := api.History(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, protocol.EventTypeGit, events[0].Type)
}

func TestAPI_Metrics(t *testing.T) {
	api := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/metrics/summary", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_events":12,"by_type":{"Git":5},"by_agent":{"Bob":12},"last_sequence":40}`))
	}))

	summary, err := api.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, summary.TotalEvents)
	assert.Equal(t, 5, summary.ByType["Git"])
	require.NotNil(t, summary.LastSequence)
	assert.Equal(t, int64(40), *summary.LastSequence)
}

func TestAPI_NonOKStatusIsAnError(t *testing.T) {
	api := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := api.History(context.Background(), 10)
	assert.Error(t, err)
}
