package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/progress"
)

// resourcePrefix is the URI scheme for StudyDeck resources.
const resourcePrefix = "studydeck://"

// SyllabusResponse is the body of a syllabus resource.
type SyllabusResponse struct {
	Subject  string            `json:"subject"`
	Syllabus progress.Syllabus `json:"syllabus"`
}

// parseSyllabusURI extracts the subject from a studydeck://syllabus/{subject} URI.
func parseSyllabusURI(uri string) (models.Subject, error) {
	if !strings.HasPrefix(uri, resourcePrefix+"syllabus/") {
		return "", fmt.Errorf("invalid URI scheme: %s", uri)
	}
	raw := strings.TrimPrefix(uri, resourcePrefix+"syllabus/")
	if raw == "" {
		return "", fmt.Errorf("empty subject in URI: %s", uri)
	}
	subject, ok := models.ParseSubject(raw)
	if !ok {
		return "", fmt.Errorf("unknown subject in URI: %s", uri)
	}
	return subject, nil
}

// handleSyllabusResource handles studydeck://syllabus/{subject} resources.
func (s *Server) handleSyllabusResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	subject, err := parseSyllabusURI(req.Params.URI)
	if err != nil {
		return nil, err
	}
	syllabus, ok := progress.For(subject)
	if !ok {
		return nil, fmt.Errorf("no syllabus for %s", subject)
	}

	data, err := json.Marshal(SyllabusResponse{Subject: string(subject), Syllabus: syllabus})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal syllabus: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
