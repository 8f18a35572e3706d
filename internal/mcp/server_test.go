package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/studydeck/internal/app"
	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/session"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
)

// recordingTelemetry records MCP tool calls and ignores everything else.
type recordingTelemetry struct {
	telemetry.Client

	mu    sync.Mutex
	calls []toolCall
}

type toolCall struct {
	name    string
	success bool
}

func (r *recordingTelemetry) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, toolCall{name: toolName, success: success})
}

func (r *recordingTelemetry) last() toolCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return toolCall{}
	}
	return r.calls[len(r.calls)-1]
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseDir = t.TempDir()
	cfg.Store.URL = filepath.Join(cfg.BaseDir, "studydeck.db")
	cfg.Store.PublicKey = "client-id.apps.googleusercontent.com"
	cfg.Storage.Backend = config.StorageLocal
	cfg.LLM = config.LLMConfig{}

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// newTestServer returns a server signed in as u1.
func newTestServer(t *testing.T) (*Server, *recordingTelemetry) {
	t.Helper()
	tc := &recordingTelemetry{Client: telemetry.New(nil)}
	s := NewServer(newTestApp(t), tc)
	s.userID = func() (string, error) { return "u1", nil }
	return s, tc
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
	return v
}

func TestNewServer(t *testing.T) {
	s := NewServer(newTestApp(t), nil)
	assert.NotNil(t, s.server)
	assert.NotNil(t, s.telemetry, "nil telemetry becomes a noop client")
}

func TestTools_RequireSignIn(t *testing.T) {
	s, tc := newTestServer(t)
	s.userID = func() (string, error) { return "", session.ErrNotSignedIn }

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"studydeck_progress":        s.handleProgress,
		"studydeck_list_questions":  s.handleListQuestions,
		"studydeck_add_question":    s.handleAddQuestion,
		"studydeck_cycle_question":  s.handleCycleQuestion,
		"studydeck_list_activities": s.handleListActivities,
		"studydeck_study_time":      s.handleStudyTime,
		"studydeck_list_notes":      s.handleListNotes,
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			result := callTool(t, h, map[string]any{"subject": "physics", "name": "q", "id": "x"})
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), "studydeck login")
			assert.Equal(t, toolCall{name: name, success: false}, tc.last())
		})
	}
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 50, parseLimit(map[string]any{}, "limit", 50, 200))
	assert.Equal(t, 10, parseLimit(map[string]any{"limit": float64(10)}, "limit", 50, 200))
	assert.Equal(t, 200, parseLimit(map[string]any{"limit": float64(5000)}, "limit", 50, 200))
	assert.Equal(t, 50, parseLimit(map[string]any{"limit": float64(-1)}, "limit", 50, 200))
	assert.Equal(t, 50, parseLimit(map[string]any{"limit": "ten"}, "limit", 50, 200))
}

func TestRequireSubject(t *testing.T) {
	subject, err := requireSubject(map[string]any{"subject": " Chem "})
	require.NoError(t, err)
	assert.Equal(t, "chemistry", string(subject))

	_, err = requireSubject(map[string]any{})
	assert.ErrorContains(t, err, "subject parameter is required")

	_, err = requireSubject(map[string]any{"subject": "biology"})
	assert.ErrorContains(t, err, "invalid subject")
}
