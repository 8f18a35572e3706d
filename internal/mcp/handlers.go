package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/asteroid-belt/studydeck/internal/logbook"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/progress"
	"github.com/asteroid-belt/studydeck/internal/timer"
)

// Pagination constants for MCP tool handlers.
const (
	defaultEntryLimit = 50
	maxEntryLimit     = 200
	defaultStudyDays  = 7
	maxStudyDays      = 90
)

// parseLimit extracts and validates a numeric parameter from MCP tool
// arguments. Returns defaultVal if not present, caps at maxVal if exceeded.
func parseLimit(arguments map[string]any, name string, defaultVal, maxVal int) int {
	if l, ok := arguments[name].(float64); ok && l > 0 {
		limit := int(l)
		if limit > maxVal {
			return maxVal
		}
		return limit
	}
	return defaultVal
}

func stringArg(arguments map[string]any, name string) string {
	v, _ := arguments[name].(string)
	return strings.TrimSpace(v)
}

// trackToolCall is a helper to track MCP tool invocations.
func (s *Server) trackToolCall(toolName string, start time.Time, success bool) {
	s.telemetry.TrackMCPToolCalled(toolName, time.Since(start).Milliseconds(), success)
}

// failure tracks a failed call and returns msg as a tool error.
func (s *Server) failure(toolName string, start time.Time, format string, args ...any) (*mcp.CallToolResult, error) {
	s.trackToolCall(toolName, start, false)
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}

// success tracks a call and returns v as JSON text.
func (s *Server) success(toolName string, start time.Time, v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return s.failure(toolName, start, "failed to marshal results: %v", err)
	}
	s.trackToolCall(toolName, start, true)
	return mcp.NewToolResultText(string(data)), nil
}

// requireUser returns the signed-in user's id.
func (s *Server) requireUser() (string, error) {
	userID, err := s.userID()
	if err != nil {
		return "", fmt.Errorf("%w (run: studydeck login)", err)
	}
	return userID, nil
}

// requireSubject parses the subject argument.
func requireSubject(arguments map[string]any) (models.Subject, error) {
	raw := stringArg(arguments, "subject")
	if raw == "" {
		return "", fmt.Errorf("subject parameter is required")
	}
	subject, ok := models.ParseSubject(raw)
	if !ok {
		return "", fmt.Errorf("invalid subject %q (want maths, physics or chemistry)", raw)
	}
	return subject, nil
}

// SubjectProgress is one subject's completion in MCP responses.
type SubjectProgress struct {
	Subject string          `json:"subject"`
	Percent float64         `json:"percent"`
	Display string          `json:"display"`
	Topics  []TopicProgress `json:"topics,omitempty"`
}

// TopicProgress is one topic's checklist in MCP responses.
type TopicProgress struct {
	Tier      string             `json:"tier"`
	Name      string             `json:"name"`
	Weight    float64            `json:"weight"`
	Checklist progress.Checklist `json:"checklist"`
	Percent   float64            `json:"percent"`
}

// EntryResponse is a question or activity in MCP responses.
type EntryResponse struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Link    string `json:"link,omitempty"`
	Doubts  string `json:"doubts,omitempty"`
	Date    string `json:"date"`
}

// CycleResult reports a status change.
type CycleResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// StudyDay is one day of recorded study.
type StudyDay struct {
	Date    string `json:"date"`
	Seconds int64  `json:"seconds"`
	Clock   string `json:"clock"`
}

// StudyTimeResponse summarizes recorded study time.
type StudyTimeResponse struct {
	TodaySeconds int64      `json:"today_seconds"`
	Today        string     `json:"today"`
	TotalSeconds int64      `json:"total_seconds"`
	Total        string     `json:"total"`
	Days         []StudyDay `json:"days"`
}

// NoteResponse is one entry of a notes listing.
type NoteResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`
}

// NotesListing is a directory of the notes repository.
type NotesListing struct {
	Repo    string         `json:"repo"`
	Path    string         `json:"path"`
	Entries []NoteResponse `json:"entries"`
}

func questionResponse(q models.QuestionEntry) EntryResponse {
	return EntryResponse{ID: q.ID, Subject: string(q.Subject), Name: q.Name, Status: string(q.Status), Link: q.Link, Doubts: q.Doubts, Date: q.Date}
}

func activityResponse(a models.ActivityEntry) EntryResponse {
	return EntryResponse{ID: a.ID, Subject: string(a.Subject), Name: a.Name, Status: string(a.Status), Link: a.ReferenceLink, Doubts: a.Doubts, Date: a.Datetime}
}

// handleProgress handles the studydeck_progress tool.
func (s *Server) handleProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "studydeck_progress"
	start := time.Now()

	userID, err := s.requireUser()
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}

	subjects := models.Subjects
	if stringArg(req.Params.Arguments, "subject") != "" {
		subject, err := requireSubject(req.Params.Arguments)
		if err != nil {
			return s.failure(tool, start, "%v", err)
		}
		subjects = []models.Subject{subject}
	}
	withTopics, _ := req.Params.Arguments["topics"].(bool)

	t := s.app.Tracker()
	results := make([]SubjectProgress, 0, len(subjects))
	for _, subject := range subjects {
		if _, err := t.Load(ctx, userID, subject); err != nil {
			return s.failure(tool, start, "failed to load progress: %v", err)
		}
		p := SubjectProgress{
			Subject: string(subject),
			Percent: t.Percent(),
			Display: progress.Format(t.Percent()),
		}
		if withTopics {
			syllabus := t.Syllabus()
			for _, tier := range []struct {
				tier   progress.Tier
				topics []progress.Topic
			}{{progress.TierXI, syllabus.ClassXI}, {progress.TierXII, syllabus.ClassXII}} {
				for _, topic := range tier.topics {
					c := t.Checklist(progress.TopicKey(tier.tier, topic.Name))
					p.Topics = append(p.Topics, TopicProgress{
						Tier:      string(tier.tier),
						Name:      topic.Name,
						Weight:    topic.Weight,
						Checklist: c,
						Percent:   progress.TopicPercent(topic.Weight, c),
					})
				}
			}
		}
		results = append(results, p)
	}
	return s.success(tool, start, results)
}

// listEntries loads one subject's log and applies the status filter and limit.
func listEntries[T any, D logbook.Draft[T]](ctx context.Context, l *logbook.Log[T, D], userID string, arguments map[string]any, convert func(T) EntryResponse) ([]EntryResponse, error) {
	subject, err := requireSubject(arguments)
	if err != nil {
		return nil, err
	}
	var status models.EntryStatus
	if raw := stringArg(arguments, "status"); raw != "" {
		status = models.ParseStatus(raw)
	}
	limit := parseLimit(arguments, "limit", defaultEntryLimit, maxEntryLimit)

	if err := l.Load(ctx, userID, subject); err != nil {
		return nil, err
	}
	results := make([]EntryResponse, 0, min(limit, len(l.Entries())))
	for _, e := range l.Entries() {
		r := convert(e)
		if status != "" && r.Status != string(status) {
			continue
		}
		results = append(results, r)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// handleListQuestions handles the studydeck_list_questions tool.
func (s *Server) handleListQuestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "studydeck_list_questions"
	start := time.Now()

	userID, err := s.requireUser()
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}
	results, err := listEntries(ctx, s.app.Questions(), userID, req.Params.Arguments, questionResponse)
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}
	return s.success(tool, start, results)
}

// handleListActivities handles the studydeck_list_activities tool.
func (s *Server) handleListActivities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "studydeck_list_activities"
	start := time.Now()

	userID, err := s.requireUser()
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}
	results, err := listEntries(ctx, s.app.Activities(), userID, req.Params.Arguments, activityResponse)
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}
	return s.success(tool, start, results)
}

// handleAddQuestion handles the studydeck_add_question tool.
func (s *Server) handleAddQuestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "studydeck_add_question"
	start := time.Now()

	userID, err := s.requireUser()
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}
	subject, err := requireSubject(req.Params.Arguments)
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}
	draft := logbook.QuestionDraft{
		Name:   stringArg(req.Params.Arguments, "name"),
		Link:   stringArg(req.Params.Arguments, "link"),
		Doubts: stringArg(req.Params.Arguments, "doubts"),
	}
	if draft.Name == "" {
		return s.failure(tool, start, "name parameter is required")
	}
	if raw := stringArg(req.Params.Arguments, "status"); raw != "" {
		draft.Status = models.ParseStatus(raw)
	}

	l := s.app.Questions()
	if err := l.Load(ctx, userID, subject); err != nil {
		return s.failure(tool, start, "%v", err)
	}
	entry, res := l.Add(ctx, draft)
	if !res.Committed() {
		return s.failure(tool, start, "failed to add question: %v", res.Err)
	}
	s.telemetry.TrackEntryAdded("question", string(subject))
	return s.success(tool, start, questionResponse(entry))
}

// handleCycleQuestion handles the studydeck_cycle_question tool.
func (s *Server) handleCycleQuestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "studydeck_cycle_question"
	start := time.Now()

	userID, err := s.requireUser()
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}
	subject, err := requireSubject(req.Params.Arguments)
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}
	id := stringArg(req.Params.Arguments, "id")
	if id == "" {
		return s.failure(tool, start, "id parameter is required")
	}

	l := s.app.Questions()
	if err := l.Load(ctx, userID, subject); err != nil {
		return s.failure(tool, start, "%v", err)
	}
	if _, ok := l.Find(id); !ok {
		return s.failure(tool, start, "question %q not found", id)
	}
	status, res := l.Cycle(ctx, id)
	s.telemetry.TrackEntryCycled("question", string(status), res.Outcome.String())
	if res.Err != nil {
		return s.failure(tool, start, "failed to update question: %v", res.Err)
	}
	return s.success(tool, start, CycleResult{ID: id, Status: string(status)})
}

// handleStudyTime handles the studydeck_study_time tool.
func (s *Server) handleStudyTime(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "studydeck_study_time"
	start := time.Now()

	userID, err := s.requireUser()
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}
	days := parseLimit(req.Params.Arguments, "days", defaultStudyDays, maxStudyDays)

	today, err := s.app.StudyToday(ctx, userID)
	if err != nil {
		return s.failure(tool, start, "failed to load today's total: %v", err)
	}
	history, err := s.app.StudyHistory(ctx, userID, days)
	if err != nil {
		return s.failure(tool, start, "failed to load study history: %v", err)
	}

	resp := StudyTimeResponse{
		TodaySeconds: today,
		Today:        timer.FormatClock(today),
		Days:         make([]StudyDay, 0, len(history)),
	}
	for _, day := range history {
		resp.TotalSeconds += day.TotalStudyTime
		resp.Days = append(resp.Days, StudyDay{
			Date:    day.SessionDate,
			Seconds: day.TotalStudyTime,
			Clock:   timer.FormatClock(day.TotalStudyTime),
		})
	}
	resp.Total = timer.FormatClock(resp.TotalSeconds)
	return s.success(tool, start, resp)
}

// handleListNotes handles the studydeck_list_notes tool.
func (s *Server) handleListNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "studydeck_list_notes"
	start := time.Now()

	userID, err := s.requireUser()
	if err != nil {
		return s.failure(tool, start, "%v", err)
	}
	repoURL, err := s.app.NotesRepo(ctx, userID)
	if err != nil {
		return s.failure(tool, start, "failed to load profile: %v", err)
	}
	if repoURL == "" {
		return s.failure(tool, start, "no notes repository configured (run: studydeck notes set <github-url>)")
	}

	b := s.app.NotesBrowser()
	if err := b.SetRepo(repoURL); err != nil {
		return s.failure(tool, start, "%v", err)
	}
	if err := b.Load(ctx, stringArg(req.Params.Arguments, "path")); err != nil {
		return s.failure(tool, start, "failed to list notes: %v", err)
	}

	repo, _ := b.Repo()
	listing := NotesListing{
		Repo:    repo.String(),
		Path:    b.Path(),
		Entries: make([]NoteResponse, 0, len(b.Entries())),
	}
	for _, e := range b.Entries() {
		listing.Entries = append(listing.Entries, NoteResponse{
			Name: e.Name,
			Path: e.Path,
			Type: e.Type,
			Size: e.Size,
			URL:  e.HTMLURL,
		})
	}
	return s.success(tool, start, listing)
}
