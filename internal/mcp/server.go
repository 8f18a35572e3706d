// Package mcp provides the Model Context Protocol server for StudyDeck.
//
// The server exposes the signed-in user's syllabus progress, question and
// activity logs, study time and notes repository to MCP clients over stdio.
// It reuses internal/app so tools see exactly what the TUI and CLI see.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/asteroid-belt/studydeck/internal/app"
	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/pkg/version"
)

// Server wraps the MCP server with StudyDeck's tools.
type Server struct {
	app       *app.App
	userID    func() (string, error)
	server    *server.MCPServer
	telemetry telemetry.Client
}

// NewServer creates a server over a. tc may be nil.
func NewServer(a *app.App, tc telemetry.Client) *Server {
	if tc == nil {
		tc = telemetry.New(nil)
	}
	s := &Server{
		app:       a,
		userID:    a.UserID,
		telemetry: tc,
	}

	s.server = server.NewMCPServer(
		"studydeck",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// Serve restores the stored session and serves over stdio until the client
// disconnects. Without a session the tools report that sign in is needed.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.app.Restore(ctx); err != nil {
		log.Warnw("restore session failed", "op", "mcp.serve", "error", err)
	}
	return server.ServeStdio(s.server)
}

func (s *Server) registerTools() {
	s.server.AddTool(progressTool(), s.handleProgress)

	s.server.AddTool(listQuestionsTool(), s.handleListQuestions)
	s.server.AddTool(addQuestionTool(), s.handleAddQuestion)
	s.server.AddTool(cycleQuestionTool(), s.handleCycleQuestion)
	s.server.AddTool(listActivitiesTool(), s.handleListActivities)

	s.server.AddTool(studyTimeTool(), s.handleStudyTime)
	s.server.AddTool(listNotesTool(), s.handleListNotes)
}

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		mcp.NewResourceTemplate(
			resourcePrefix+"syllabus/{subject}",
			"Subject syllabus",
			mcp.WithTemplateDescription("JSON list of a subject's Class XI and XII topics with their exam weights"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleSyllabusResource,
	)
}
