// StudyDeck - JEE study planner for the terminal
//
// Tracks syllabus progress, question and activity logs, timed study sessions,
// a GitHub notes repository and a per-subject tutor, from a TUI or a CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/studydeck/internal/app"
	"github.com/asteroid-belt/studydeck/internal/cli"
	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	if err := log.Init(cfg.BaseDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to file disabled: %v\n", err)
	}
	defer func() {
		_ = log.Close()
	}()

	// Incomplete configuration still starts, so the TUI can explain what to set.
	a, startErr := app.New(ctx, cfg)
	if startErr != nil && !config.IsConfigError(startErr) {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", startErr)
		return 1
	}

	var tc telemetry.Client
	if a != nil {
		tc = a.Telemetry
		defer func() {
			_ = a.Close()
		}()
	} else {
		tc = telemetry.New(nil)
		defer tc.Close()
	}

	if err := cli.Execute(ctx, cli.Options{
		Config:    cfg,
		App:       a,
		StartErr:  startErr,
		Telemetry: tc,
	}); err != nil {
		return 1
	}
	return 0
}
