package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/progress"
	"github.com/asteroid-belt/studydeck/internal/testutil"
)

func TestCollect(t *testing.T) {
	store := testutil.NewDB(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local)

	require.NoError(t, store.CreateQuestion(ctx, &models.QuestionEntry{
		UserID: "u1", Subject: models.SubjectPhysics, Name: "Projectile range", Status: models.StatusInProgress,
	}))
	require.NoError(t, store.CreateActivity(ctx, &models.ActivityEntry{
		UserID: "u1", Subject: models.SubjectChemistry, Name: "Mole concept DPP", Status: models.StatusCompleted,
	}))
	require.NoError(t, store.CreateQuestion(ctx, &models.QuestionEntry{
		UserID: "u2", Subject: models.SubjectPhysics, Name: "not mine",
	}))
	key := progress.TopicKey(progress.TierXI, "Sets, Relations and Functions")
	require.NoError(t, store.UpsertProgressField(ctx, "u1", models.SubjectMaths, key, models.FieldTheory, true))
	_, err := store.AddStudySeconds(ctx, "u1", models.SessionDate(now), 600)
	require.NoError(t, err)

	data, err := Collect(ctx, store, "u1", now, 0)
	require.NoError(t, err)

	require.Len(t, data.Questions, 1)
	assert.Equal(t, "Projectile range", data.Questions[0].Name)
	require.Len(t, data.Activities, 1)
	require.Len(t, data.Sessions, 1)
	assert.Equal(t, int64(600), data.Sessions[0].TotalStudyTime)
	assert.Greater(t, data.Progress[models.SubjectMaths], 0.0)
	assert.Equal(t, 0.0, data.Progress[models.SubjectPhysics])
}

func TestWrite_Sheets(t *testing.T) {
	data := &Data{
		Progress: map[models.Subject]float64{models.SubjectMaths: 50},
		Questions: []models.QuestionEntry{
			{Subject: models.SubjectPhysics, Name: "Projectile range", Status: models.StatusInProgress, Date: "3/9/2024"},
		},
		Activities: []models.ActivityEntry{
			{Subject: models.SubjectChemistry, Name: "Mole concept DPP", Status: models.StatusCompleted},
		},
		Sessions: []models.StudySession{
			{SessionDate: "2024-03-09", TotalStudyTime: 90},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, data))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetProgress, SheetQuestions, SheetActivities, SheetStudy}, f.GetSheetList())

	rows, err := f.GetRows(SheetProgress)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Subject", "Progress"}, rows[0])
	assert.Equal(t, []string{"Maths", "50.0%"}, rows[1])
	assert.Equal(t, []string{"Physics", "0.0%"}, rows[2])

	rows, err = f.GetRows(SheetQuestions)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Projectile range", rows[1][1])
	assert.Equal(t, "In Progress", rows[1][2])

	rows, err = f.GetRows(SheetStudy)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-03-09", "90", "1m30s"}, rows[1])
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.xlsx")
	require.NoError(t, Save(path, &Data{Progress: map[models.Subject]float64{}}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(SheetActivities)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
