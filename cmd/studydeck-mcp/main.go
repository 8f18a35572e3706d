// Package main provides the studydeck-mcp server.
//
// studydeck-mcp exposes the signed-in StudyDeck user's progress, logs, study
// time and notes via the Model Context Protocol.
//
// Usage:
//
//	studydeck-mcp [flags]
//
// The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/studydeck/internal/app"
	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/mcp"
	"github.com/asteroid-belt/studydeck/pkg/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("studydeck-mcp %s\n", version.Version)
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		printHelp()
		os.Exit(0)
	}

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
		os.Exit(1)
	}

	// stdout carries the protocol, so only the file log is used.
	if err := log.Init(cfg.BaseDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to file disabled: %v\n", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		_ = log.Close()
		os.Exit(1)
	}

	server := mcp.NewServer(a, a.Telemetry)
	err = server.Serve(ctx)
	_ = a.Close()
	_ = log.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `studydeck-mcp - MCP server for StudyDeck

USAGE:
    studydeck-mcp [FLAGS]

FLAGS:
    -h, --help       Print this help message
    -v, --version    Print version information

DESCRIPTION:
    studydeck-mcp is a Model Context Protocol (MCP) server that exposes the
    signed-in StudyDeck user's syllabus progress, question and activity logs,
    study time and notes repository to MCP-compatible clients.

    Sign in first with: studydeck login

    The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).

CONFIGURATION:
    Add to your MCP client's configuration:

    {
      "mcpServers": {
        "studydeck": {
          "type": "stdio",
          "command": "studydeck-mcp"
        }
      }
    }

TOOLS PROVIDED:
    studydeck_progress          Weighted syllabus completion
    studydeck_list_questions    List logged questions for a subject
    studydeck_add_question      Log a practice question
    studydeck_cycle_question    Advance a question's status
    studydeck_list_activities   List logged activities for a subject
    studydeck_study_time        Recorded study time per day
    studydeck_list_notes        Browse the notes repository

RESOURCES PROVIDED:
    studydeck://syllabus/{subject}  Subject syllabus with weights as JSON
`
	fmt.Print(help)
}
