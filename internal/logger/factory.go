// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"github.com/rs/zerolog"
)

// Static logger getters that map directly to config log.levels keys.
// These keep logger names consistent across the codebase.

// GetTUILogger returns a logger for TUI components
func GetTUILogger() zerolog.Logger {
	return GetLogger("tui")
}

// GetStreamLogger returns a logger for the activity stream core
func GetStreamLogger() zerolog.Logger {
	return GetLogger("stream")
}

// GetClientLogger returns a logger for the backend feed/REST client
func GetClientLogger() zerolog.Logger {
	return GetLogger("client")
}

// GetFeedsimLogger returns a logger for the feed simulator
func GetFeedsimLogger() zerolog.Logger {
	return GetLogger("feedsim")
}
