// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/noldarim/pulse/internal/client"
	"github.com/noldarim/pulse/internal/config"
	"github.com/noldarim/pulse/internal/logger"
	"github.com/noldarim/pulse/internal/stream"
	"github.com/noldarim/pulse/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: search ., ./config, $HOME/.pulse)")
	filterQuery := flag.String("filter", "", "initial filter as a shared query string, e.g. types=Chat,Git&search=deploy")
	flag.Parse()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		// Only log to stderr on critical startup errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.CloseGlobal()

	mainLog := logger.GetLogger("main")
	mainLog.Info().Str("backend", cfg.Backend.BaseURL).Msg("Starting pulse dashboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := stream.NewStore(cfg.Stream.RetentionLimit)

	feed := client.NewFeed(cfg.Backend, store)
	go feed.Run(ctx)

	api := client.NewAPI(cfg.Backend)

	// A lenient decode: unknown tokens in a shared link drop out instead of
	// refusing to start.
	initial := stream.DecodeQueryString(*filterQuery)

	if err := tui.StartTUI(store, feed, api, cfg.Stream, initial); err != nil {
		mainLog.Error().Err(err).Msg("TUI exited with error")
		// Log to stderr since the TUI has already torn down the screen
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}

	mainLog.Info().Msg("Pulse dashboard shut down")
}
