// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Stream.RetentionLimit)
	assert.Equal(t, 10, cfg.Stream.Overscan)
	assert.Equal(t, 30*time.Second, cfg.Stream.RefreshInterval)
	assert.Equal(t, "ws://127.0.0.1:8080/ws", cfg.Backend.WebSocketURL)
}

func TestNewConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
backend:
  base_url: http://backend:9090
  websocket_url: ws://backend:9090/ws
stream:
  retention_limit: 250
  refresh_interval: 5s
log:
  level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9090", cfg.Backend.BaseURL)
	assert.Equal(t, 250, cfg.Stream.RetentionLimit)
	assert.Equal(t, 5*time.Second, cfg.Stream.RefreshInterval)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, 10, cfg.Stream.Overscan)
}

func TestNewConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "log:\n  level: LOUD\n"},
		{"bad websocket scheme", "backend:\n  websocket_url: http://backend/ws\n"},
		{"zero retention", "stream:\n  retention_limit: 0\n"},
		{"negative overscan", "stream:\n  overscan: -1\n"},
		{"refresh too fast", "stream:\n  refresh_interval: 100ms\n"},
		{"bad feedsim port", "feedsim:\n  port: 99999\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := NewConfig(path)
			assert.Error(t, err)
		})
	}
}
