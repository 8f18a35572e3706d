package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})

	return db
}

func TestNew_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dirs", "studydeck.db")

	db, err := New(DefaultConfig(dbPath))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialect())
}

func TestNew_EmptyDSN(t *testing.T) {
	_, err := New(DefaultConfig(" "))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	sqliteCfg := DefaultConfig("/tmp/x.db")
	assert.Equal(t, 1, sqliteCfg.MaxOpenConn)

	pgCfg := DefaultConfig("postgres://u:p@localhost/studydeck")
	assert.Equal(t, 8, pgCfg.MaxOpenConn)
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://localhost/db"))
	assert.True(t, IsPostgresDSN("postgresql://localhost/db"))
	assert.False(t, IsPostgresDSN("/home/me/.studydeck/studydeck.db"))
	assert.False(t, IsPostgresDSN("sqlite:///tmp/a.db"))
}

func TestTransaction_Rollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *DB) error {
		require.NoError(t, tx.CreateQuestion(ctx, &models.QuestionEntry{UserID: "u1", Subject: models.SubjectMaths, Name: "Q"}))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	rows, err := db.ListQuestions(ctx, "u1", models.SubjectMaths)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetOrCreateTrackingID_Persistent(t *testing.T) {
	db := testDB(t)

	first := db.GetOrCreateTrackingID()
	require.NotEmpty(t, first)
	assert.Equal(t, first, db.GetOrCreateTrackingID())
}

func TestRecordAppVersion(t *testing.T) {
	db := testDB(t)

	prev, err := db.RecordAppVersion("1.0.0")
	require.NoError(t, err)
	assert.Empty(t, prev)

	prev, err = db.RecordAppVersion("1.1.0")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", prev)

	// Version and tracking id share a row; neither overwrites the other.
	id := db.GetOrCreateTrackingID()
	state, err := db.GetAppState()
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", state.LastVersion)
	assert.Equal(t, id, state.TrackingID)
}

func TestProfiles(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p, err := db.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)

	created, err := db.EnsureProfile(ctx, &models.UserProfile{ID: "u1", Email: "a@example.com", FullName: "A"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = db.EnsureProfile(ctx, &models.UserProfile{ID: "u1", Email: "other@example.com"})
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, db.SetNotesRepo(ctx, "u1", "  https://github.com/a/notes  "))

	p, err = db.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "a@example.com", p.Email)
	assert.Equal(t, "A", p.FullName)
	assert.Equal(t, "https://github.com/a/notes", p.NotesRepoURL)
}

func TestUpsertProgressField(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertProgressField(ctx, "u1", models.SubjectPhysics, "XI-Kinematics", models.FieldTheory, true))
	require.NoError(t, db.UpsertProgressField(ctx, "u1", models.SubjectPhysics, "XI-Kinematics", models.FieldRevision2, true))
	require.NoError(t, db.UpsertProgressField(ctx, "u1", models.SubjectPhysics, "XII-Optics", models.FieldQuestions, true))
	require.NoError(t, db.UpsertProgressField(ctx, "u2", models.SubjectPhysics, "XI-Kinematics", models.FieldTheory, true))

	rows, err := db.ListProgress(ctx, "u1", models.SubjectPhysics)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "XI-Kinematics", rows[0].TopicKey)
	assert.True(t, rows[0].Theory)
	assert.True(t, rows[0].Revision2)
	assert.False(t, rows[0].Questions)

	require.NoError(t, db.UpsertProgressField(ctx, "u1", models.SubjectPhysics, "XI-Kinematics", models.FieldTheory, false))
	rows, err = db.ListProgress(ctx, "u1", models.SubjectPhysics)
	require.NoError(t, err)
	assert.False(t, rows[0].Theory)
	assert.True(t, rows[0].Revision2)
}

func TestUpsertProgressField_UnknownField(t *testing.T) {
	db := testDB(t)
	err := db.UpsertProgressField(context.Background(), "u1", models.SubjectMaths, "XI-Sets", "revision9", true)
	assert.Error(t, err)
}

func TestQuestions(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	older := &models.QuestionEntry{UserID: "u1", Subject: models.SubjectMaths, Name: "Limits", Status: models.StatusNotStarted, CreatedAt: base}
	newer := &models.QuestionEntry{UserID: "u1", Subject: models.SubjectMaths, Name: "Integrals", Status: models.StatusNotStarted, CreatedAt: base.Add(time.Minute)}
	foreign := &models.QuestionEntry{UserID: "u2", Subject: models.SubjectMaths, Name: "Vectors", CreatedAt: base}
	for _, q := range []*models.QuestionEntry{older, newer, foreign} {
		require.NoError(t, db.CreateQuestion(ctx, q))
		require.NotEmpty(t, q.ID)
	}

	rows, err := db.ListQuestions(ctx, "u1", models.SubjectMaths)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Integrals", rows[0].Name)
	assert.Equal(t, "Limits", rows[1].Name)

	require.NoError(t, db.UpdateQuestionStatus(ctx, "u1", older.ID, models.StatusCompleted))
	got, err := db.GetQuestion(ctx, "u1", older.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	// Writes scoped to another user do not touch the row.
	require.NoError(t, db.UpdateQuestionStatus(ctx, "u2", older.ID, models.StatusInProgress))
	got, err = db.GetQuestion(ctx, "u1", older.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	require.NoError(t, db.DeleteQuestions(ctx, "u1", []string{older.ID, newer.ID, foreign.ID}))
	rows, err = db.ListQuestions(ctx, "u1", models.SubjectMaths)
	require.NoError(t, err)
	assert.Empty(t, rows)

	remaining, err := db.ListQuestions(ctx, "u2", models.SubjectMaths)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	require.NoError(t, db.DeleteQuestions(ctx, "u1", nil))
}

func TestActivities(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a := &models.ActivityEntry{UserID: "u1", Subject: models.SubjectChemistry, Name: "Mock test", Status: models.StatusNotStarted, ReferenceLink: "https://example.com"}
	require.NoError(t, db.CreateActivity(ctx, a))

	rows, err := db.ListActivities(ctx, "u1", models.SubjectChemistry)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://example.com", rows[0].ReferenceLink)

	require.NoError(t, db.UpdateActivityStatus(ctx, "u1", a.ID, models.StatusInProgress))
	got, err := db.GetActivity(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)

	missing, err := db.GetActivity(ctx, "u1", "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, db.DeleteActivities(ctx, "u1", []string{a.ID}))
	rows, err = db.ListActivities(ctx, "u1", models.SubjectChemistry)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAddStudySeconds_Accumulates(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	total, err := db.GetStudySeconds(ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	assert.Zero(t, total)

	total, err = db.AddStudySeconds(ctx, "u1", "2024-05-01", 300)
	require.NoError(t, err)
	assert.Equal(t, int64(300), total)

	total, err = db.AddStudySeconds(ctx, "u1", "2024-05-01", 120)
	require.NoError(t, err)
	assert.Equal(t, int64(420), total)

	total, err = db.AddStudySeconds(ctx, "u1", "2024-05-01", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(420), total)

	other, err := db.GetStudySeconds(ctx, "u1", "2024-05-02")
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestStudyHistory(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	for _, day := range []string{"2024-05-01", "2024-05-04", "2024-05-10"} {
		_, err := db.AddStudySeconds(ctx, "u1", day, 60)
		require.NoError(t, err)
	}

	rows, err := db.StudyHistory(ctx, "u1", now, 7)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-05-04", rows[0].SessionDate)
	assert.Equal(t, "2024-05-10", rows[1].SessionDate)
}

func TestAudio(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	first := &models.AudioAsset{UserID: "u1", Name: "rain.mp3", FileURL: "file:///x/rain.mp3", CreatedAt: base}
	second := &models.AudioAsset{UserID: "u1", Name: "lofi.mp3", FileURL: "file:///x/lofi.mp3", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, db.CreateAudio(ctx, first))
	require.NoError(t, db.CreateAudio(ctx, second))

	rows, err := db.ListAudio(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "lofi.mp3", rows[0].Name)

	got, err := db.GetAudio(ctx, "u1", first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "rain.mp3", got.Name)

	require.NoError(t, db.DeleteAudio(ctx, "u1", first.ID))
	got, err = db.GetAudio(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConversations(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	c, err := db.GetConversation(ctx, "u1", models.SubjectPhysics)
	require.NoError(t, err)
	assert.Nil(t, c)

	turns := []models.ChatTurn{{ID: "1", Role: models.RoleUser, Content: "hi"}}
	require.NoError(t, db.SaveConversation(ctx, "u1", models.SubjectPhysics, turns))

	turns = append(turns, models.ChatTurn{ID: "2", Role: models.RoleAssistant, Content: "hello"})
	require.NoError(t, db.SaveConversation(ctx, "u1", models.SubjectPhysics, turns))

	c, err = db.GetConversation(ctx, "u1", models.SubjectPhysics)
	require.NoError(t, err)
	require.NotNil(t, c)
	stored, err := c.Turns()
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "hello", stored[1].Content)

	require.NoError(t, db.DeleteConversation(ctx, "u1", models.SubjectPhysics))
	c, err = db.GetConversation(ctx, "u1", models.SubjectPhysics)
	require.NoError(t, err)
	assert.Nil(t, c)
}
