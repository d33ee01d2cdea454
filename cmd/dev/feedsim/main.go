// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Standalone activity feed simulator. Serves the same REST and WebSocket
// surface as a real backend so the dashboard can be developed and demoed
// without one.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/noldarim/pulse/internal/config"
	"github.com/noldarim/pulse/internal/feedsim"
	"github.com/noldarim/pulse/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: search ., ./config, $HOME/.pulse)")
	scenarioPath := flag.String("scenario", "", "scenario YAML; overrides feedsim.scenario_path")
	flag.Parse()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.CloseGlobal()

	mainLog := logger.GetLogger("main")

	path := cfg.Feedsim.ScenarioPath
	if *scenarioPath != "" {
		path = *scenarioPath
	}

	scenario := feedsim.DefaultScenario()
	if path != "" {
		scenario, err = feedsim.LoadScenario(path)
		if err != nil {
			mainLog.Error().Err(err).Str("path", path).Msg("Error loading scenario")
			fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
			os.Exit(1)
		}
		mainLog.Info().Str("path", path).Msg("Loaded scenario")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := feedsim.New(&cfg.Feedsim, scenario)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		mainLog.Info().Str("signal", sig.String()).Msg("Shutting down feed simulator")
	case err := <-errChan:
		if err != nil {
			mainLog.Error().Err(err).Msg("Feed simulator failed")
			fmt.Fprintf(os.Stderr, "Feed simulator failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		mainLog.Error().Err(err).Msg("Error during shutdown")
	}
	<-errChan
}
