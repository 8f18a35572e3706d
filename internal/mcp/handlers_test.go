package mcp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/studydeck/internal/logbook"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/progress"
)

func TestHandleProgress(t *testing.T) {
	s, tc := newTestServer(t)
	ctx := context.Background()

	t.Run("all subjects start at zero", func(t *testing.T) {
		results := decode[[]SubjectProgress](t, callTool(t, s.handleProgress, map[string]any{}))
		require.Len(t, results, 3)
		for _, p := range results {
			assert.Zero(t, p.Percent)
			assert.Equal(t, "0.0%", p.Display)
			assert.Empty(t, p.Topics)
		}
		assert.Equal(t, toolCall{name: "studydeck_progress", success: true}, tc.last())
	})

	t.Run("ticked topic shows in its subject", func(t *testing.T) {
		syllabus, ok := progress.For(models.SubjectMaths)
		require.True(t, ok)
		topic := syllabus.ClassXI[0]
		key := progress.TopicKey(progress.TierXI, topic.Name)
		require.NoError(t, s.app.DB.UpsertProgressField(ctx, "u1", models.SubjectMaths, key, models.FieldTheory, true))

		results := decode[[]SubjectProgress](t, callTool(t, s.handleProgress, map[string]any{
			"subject": "maths",
			"topics":  true,
		}))
		require.Len(t, results, 1)
		assert.Equal(t, "maths", results[0].Subject)
		assert.Greater(t, results[0].Percent, 0.0)
		require.Len(t, results[0].Topics, len(syllabus.ClassXI)+len(syllabus.ClassXII))

		first := results[0].Topics[0]
		assert.Equal(t, "XI", first.Tier)
		assert.Equal(t, topic.Name, first.Name)
		assert.True(t, first.Checklist.Theory)
		assert.False(t, first.Checklist.Questions)
		assert.InDelta(t, 20.0, first.Percent, 0.001)
	})

	t.Run("invalid subject", func(t *testing.T) {
		result := callTool(t, s.handleProgress, map[string]any{"subject": "biology"})
		assert.True(t, result.IsError)
	})
}

func TestHandleQuestions(t *testing.T) {
	s, tc := newTestServer(t)

	t.Run("empty list", func(t *testing.T) {
		results := decode[[]EntryResponse](t, callTool(t, s.handleListQuestions, map[string]any{"subject": "physics"}))
		assert.Empty(t, results)
	})

	t.Run("add requires name", func(t *testing.T) {
		result := callTool(t, s.handleAddQuestion, map[string]any{"subject": "physics"})
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "name parameter is required")
	})

	t.Run("add rejects a bad link", func(t *testing.T) {
		result := callTool(t, s.handleAddQuestion, map[string]any{"subject": "physics", "name": "Bad", "link": "not a url"})
		assert.True(t, result.IsError)
	})

	var added EntryResponse
	t.Run("add", func(t *testing.T) {
		added = decode[EntryResponse](t, callTool(t, s.handleAddQuestion, map[string]any{
			"subject": "Physics",
			"name":    "Projectile on an incline",
			"status":  "in progress",
			"link":    "https://example.com/q/1",
		}))
		assert.NotEmpty(t, added.ID)
		assert.Equal(t, "physics", added.Subject)
		assert.Equal(t, string(models.StatusInProgress), added.Status)
		assert.Equal(t, toolCall{name: "studydeck_add_question", success: true}, tc.last())
	})

	t.Run("list filters by status", func(t *testing.T) {
		callTool(t, s.handleAddQuestion, map[string]any{"subject": "physics", "name": "Fresh"})

		all := decode[[]EntryResponse](t, callTool(t, s.handleListQuestions, map[string]any{"subject": "physics"}))
		require.Len(t, all, 2)
		assert.Equal(t, "Fresh", all[0].Name, "newest first")

		inProgress := decode[[]EntryResponse](t, callTool(t, s.handleListQuestions, map[string]any{"subject": "physics", "status": "In Progress"}))
		require.Len(t, inProgress, 1)
		assert.Equal(t, added.ID, inProgress[0].ID)

		limited := decode[[]EntryResponse](t, callTool(t, s.handleListQuestions, map[string]any{"subject": "physics", "limit": float64(1)}))
		assert.Len(t, limited, 1)

		other := decode[[]EntryResponse](t, callTool(t, s.handleListQuestions, map[string]any{"subject": "chemistry"}))
		assert.Empty(t, other)
	})

	t.Run("cycle", func(t *testing.T) {
		res := decode[CycleResult](t, callTool(t, s.handleCycleQuestion, map[string]any{"subject": "physics", "id": added.ID}))
		assert.Equal(t, string(models.StatusCompleted), res.Status)

		res = decode[CycleResult](t, callTool(t, s.handleCycleQuestion, map[string]any{"subject": "physics", "id": added.ID}))
		assert.Equal(t, string(models.StatusNotStarted), res.Status)
	})

	t.Run("cycle unknown id", func(t *testing.T) {
		result := callTool(t, s.handleCycleQuestion, map[string]any{"subject": "physics", "id": "missing"})
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "not found")
	})
}

func TestHandleListActivities(t *testing.T) {
	s, _ := newTestServer(t)
	l := s.app.Activities()
	require.NoError(t, l.Load(context.Background(), "u1", models.SubjectChemistry))
	_, res := l.Add(context.Background(), logbook.ActivityDraft{Name: "Mock test 3", ReferenceLink: "https://example.com/mock"})
	require.True(t, res.Committed())

	results := decode[[]EntryResponse](t, callTool(t, s.handleListActivities, map[string]any{"subject": "chemistry"}))
	require.Len(t, results, 1)
	assert.Equal(t, "Mock test 3", results[0].Name)
	assert.Equal(t, "https://example.com/mock", results[0].Link)
	assert.Equal(t, string(models.StatusNotStarted), results[0].Status)

	result := callTool(t, s.handleListActivities, map[string]any{})
	assert.True(t, result.IsError)
}

func TestHandleStudyTime(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	empty := decode[StudyTimeResponse](t, callTool(t, s.handleStudyTime, map[string]any{}))
	assert.Zero(t, empty.TodaySeconds)
	assert.Equal(t, "00:00:00", empty.Today)

	_, err := s.app.RecordStudy(ctx, "u1", 3600)
	require.NoError(t, err)
	_, err = s.app.RecordStudy(ctx, "u1", 90)
	require.NoError(t, err)

	resp := decode[StudyTimeResponse](t, callTool(t, s.handleStudyTime, map[string]any{"days": float64(3)}))
	assert.Equal(t, int64(3690), resp.TodaySeconds)
	assert.Equal(t, "01:01:30", resp.Today)
	assert.Equal(t, int64(3690), resp.TotalSeconds)
	assert.Equal(t, "01:01:30", resp.Total)
	require.NotEmpty(t, resp.Days)
}

func TestHandleListNotes(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	result := callTool(t, s.handleListNotes, map[string]any{})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "no notes repository configured")

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/asha/jee-notes/contents/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/repos/asha/jee-notes/contents/":
			fmt.Fprint(w, `[
				{"type": "dir", "name": "physics", "path": "physics"},
				{"type": "file", "name": "README.md", "path": "README.md", "size": 12, "html_url": "https://github.com/asha/jee-notes/blob/main/README.md"},
				{"type": "file", "name": "cover.png", "path": "cover.png", "size": 900}
			]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Not Found"}`)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	require.NoError(t, s.app.Notes.SetBaseURL(srv.URL))
	require.NoError(t, s.app.SetNotesRepo(ctx, "u1", "https://github.com/asha/jee-notes"))

	listing := decode[NotesListing](t, callTool(t, s.handleListNotes, map[string]any{}))
	assert.Equal(t, "asha/jee-notes", listing.Repo)
	assert.Equal(t, "", listing.Path)
	require.Len(t, listing.Entries, 2, "images are filtered out")
	assert.Equal(t, "dir", listing.Entries[0].Type)
	assert.Equal(t, "README.md", listing.Entries[1].Name)
	assert.Equal(t, "https://github.com/asha/jee-notes/blob/main/README.md", listing.Entries[1].URL)

	result = callTool(t, s.handleListNotes, map[string]any{"path": "missing"})
	assert.True(t, result.IsError)
}
