// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// AppConfig holds all application configuration.
// It is instantiated by NewConfig() and passed to the components that need
// it (dependency injection).
type AppConfig struct {
	Backend BackendConfig `mapstructure:"backend"`
	Stream  StreamConfig  `mapstructure:"stream"`
	Log     LogConfig     `mapstructure:"log"`
	Feedsim FeedsimConfig `mapstructure:"feedsim"`
}

// BackendConfig describes how to reach the platform backend.
type BackendConfig struct {
	// BaseURL is the REST endpoint root, e.g. http://127.0.0.1:8080
	BaseURL string `mapstructure:"base_url"`
	// WebSocketURL is the event feed endpoint, e.g. ws://127.0.0.1:8080/ws
	WebSocketURL string `mapstructure:"websocket_url"`

	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	ReconnectMinBackoff time.Duration `mapstructure:"reconnect_min_backoff"`
	ReconnectMaxBackoff time.Duration `mapstructure:"reconnect_max_backoff"`
}

// StreamConfig tunes the activity stream view.
type StreamConfig struct {
	// RetentionLimit bounds how many events are kept in memory.
	RetentionLimit int `mapstructure:"retention_limit"`
	// RowHeightEstimate is the assumed rendered height of a feed row in
	// terminal lines, corrected as rows are measured.
	RowHeightEstimate int `mapstructure:"row_height_estimate"`
	// Overscan is how many extra rows are rendered above and below the
	// visible window.
	Overscan int `mapstructure:"overscan"`
	// RefreshInterval drives the metrics/history re-fetch poll.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	// ExportDir is where exported JSON/CSV documents are written.
	ExportDir string `mapstructure:"export_dir"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level   string            `mapstructure:"level"`
	Format  string            `mapstructure:"format"`
	Output  []LogOutputConfig `mapstructure:"output"`
	Levels  map[string]string `mapstructure:"levels"`
	Context LogContextConfig  `mapstructure:"context"`
}

// LogOutputConfig defines where logs are written
type LogOutputConfig struct {
	Type    string          `mapstructure:"type"` // "file" or "console"
	Enabled bool            `mapstructure:"enabled"`
	Path    string          `mapstructure:"path"`   // For file output
	Rotate  LogRotateConfig `mapstructure:"rotate"` // For file output
}

// LogRotateConfig defines log rotation settings
type LogRotateConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// LogContextConfig defines what context to include in logs
type LogContextConfig struct {
	IncludeCaller    bool `mapstructure:"include_caller"`
	IncludeTimestamp bool `mapstructure:"include_timestamp"`
}

// FeedsimConfig configures the development feed simulator server.
type FeedsimConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ScenarioPath   string   `mapstructure:"scenario_path"`
	AllowedOrigins []string `mapstructure:"allowed_origins"` // Empty = allow all (development)
}

// NewConfig creates an AppConfig by reading from a file, environment
// variables, and applying defaults.
func NewConfig(configPath string) (*AppConfig, error) {
	cfg := defaultConfig()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.pulse")
	}

	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Missing config file is fine; defaults and env vars apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// defaultConfig returns an AppConfig with default values. This is more
// type-safe than using viper.SetDefault().
func defaultConfig() AppConfig {
	return AppConfig{
		Backend: BackendConfig{
			BaseURL:             "http://127.0.0.1:8080",
			WebSocketURL:        "ws://127.0.0.1:8080/ws",
			RequestTimeout:      10 * time.Second,
			ReconnectMinBackoff: time.Second,
			ReconnectMaxBackoff: 30 * time.Second,
		},
		Stream: StreamConfig{
			RetentionLimit:    100,
			RowHeightEstimate: 1,
			Overscan:          10,
			RefreshInterval:   30 * time.Second,
			ExportDir:         ".",
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "json",
			Output: []LogOutputConfig{
				{
					Type:    "file",
					Enabled: true,
					Path:    "./logs/pulse.log",
					Rotate: LogRotateConfig{
						MaxSizeMB:  10,
						MaxBackups: 3,
						MaxAgeDays: 7,
						Compress:   true,
					},
				},
				{
					Type:    "console",
					Enabled: false, // Disabled by default for TUI
				},
			},
			Levels: map[string]string{
				"tui":     "WARN",
				"stream":  "INFO",
				"client":  "INFO",
				"feedsim": "INFO",
			},
			Context: LogContextConfig{
				IncludeCaller:    true,
				IncludeTimestamp: true,
			},
		},
		Feedsim: FeedsimConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// validate checks if the configuration is valid.
func (c *AppConfig) validate() error {
	validLogLevels := map[string]bool{
		"TRACE": true, "DEBUG": true, "INFO": true, "WARN": true, "ERROR": true, "FATAL": true, "PANIC": true,
	}
	if !validLogLevels[strings.ToUpper(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Backend.WebSocketURL == "" {
		return fmt.Errorf("backend.websocket_url is required")
	}
	if !strings.HasPrefix(c.Backend.WebSocketURL, "ws://") && !strings.HasPrefix(c.Backend.WebSocketURL, "wss://") {
		return fmt.Errorf("backend.websocket_url must use ws:// or wss://, got: %s", c.Backend.WebSocketURL)
	}

	if c.Stream.RetentionLimit <= 0 {
		return fmt.Errorf("stream.retention_limit must be positive, got: %d", c.Stream.RetentionLimit)
	}
	if c.Stream.Overscan < 0 {
		return fmt.Errorf("stream.overscan must not be negative, got: %d", c.Stream.Overscan)
	}
	if c.Stream.RefreshInterval < time.Second {
		return fmt.Errorf("stream.refresh_interval must be at least 1s, got: %s", c.Stream.RefreshInterval)
	}

	if c.Feedsim.Port <= 0 || c.Feedsim.Port > 65535 {
		return fmt.Errorf("invalid feedsim port: %d", c.Feedsim.Port)
	}

	return nil
}
