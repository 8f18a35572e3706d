// Package export writes a user's study data to an Excel workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/progress"
)

// Sheet names, in workbook order.
const (
	SheetProgress   = "Progress"
	SheetQuestions  = "Questions"
	SheetActivities = "Activities"
	SheetStudy      = "Study"
)

// DefaultHistoryDays is how much study history an export includes.
const DefaultHistoryDays = 30

// Store reads everything an export contains.
type Store interface {
	ListProgress(ctx context.Context, userID string, subject models.Subject) ([]models.TopicProgress, error)
	ListQuestions(ctx context.Context, userID string, subject models.Subject) ([]models.QuestionEntry, error)
	ListActivities(ctx context.Context, userID string, subject models.Subject) ([]models.ActivityEntry, error)
	StudyHistory(ctx context.Context, userID string, now time.Time, days int) ([]models.StudySession, error)
}

// Data is the content of one export.
type Data struct {
	Progress   map[models.Subject]float64
	Questions  []models.QuestionEntry
	Activities []models.ActivityEntry
	Sessions   []models.StudySession
}

// Collect reads every subject's progress and entries plus the last days of
// study for userID.
func Collect(ctx context.Context, store Store, userID string, now time.Time, days int) (*Data, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	data := &Data{Progress: map[models.Subject]float64{}}
	for _, subject := range models.Subjects {
		rows, err := store.ListProgress(ctx, userID, subject)
		if err != nil {
			return nil, fmt.Errorf("list %s progress: %w", subject, err)
		}
		syllabus, _ := progress.For(subject)
		state := make(map[string]progress.Checklist, len(rows))
		for _, row := range rows {
			state[row.TopicKey] = progress.FromRow(row)
		}
		data.Progress[subject] = progress.Overall(syllabus, state)

		questions, err := store.ListQuestions(ctx, userID, subject)
		if err != nil {
			return nil, fmt.Errorf("list %s questions: %w", subject, err)
		}
		data.Questions = append(data.Questions, questions...)

		activities, err := store.ListActivities(ctx, userID, subject)
		if err != nil {
			return nil, fmt.Errorf("list %s activities: %w", subject, err)
		}
		data.Activities = append(data.Activities, activities...)
	}

	sessions, err := store.StudyHistory(ctx, userID, now, days)
	if err != nil {
		return nil, fmt.Errorf("study history: %w", err)
	}
	data.Sessions = sessions
	return data, nil
}

// Build lays data out as a workbook. The caller closes it.
func Build(data *Data) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetProgress); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, name := range []string{SheetQuestions, SheetActivities, SheetStudy} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, header: header}
	w.rows(SheetProgress, []any{"Subject", "Progress"}, progressRows(data))
	w.rows(SheetQuestions, []any{"Subject", "Question", "Status", "Link", "Doubts", "Date"}, questionRows(data.Questions))
	w.rows(SheetActivities, []any{"Subject", "Activity", "Status", "Reference", "Doubts", "Logged"}, activityRows(data.Activities))
	w.rows(SheetStudy, []any{"Date", "Seconds", "Studied"}, studyRows(data.Sessions))
	if w.err != nil {
		_ = f.Close()
		return nil, w.err
	}

	_ = f.SetColWidth(SheetQuestions, "B", "B", 48)
	_ = f.SetColWidth(SheetActivities, "B", "B", 48)
	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and writes it to w.
func Write(w io.Writer, data *Data) error {
	f, err := Build(data)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}

// Save builds the workbook and saves it at path.
func Save(path string, data *Data) error {
	f, err := Build(data)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) rows(sheet string, header []any, rows [][]any) {
	if w.err != nil {
		return
	}
	if err := w.f.SetSheetRow(sheet, "A1", &header); err != nil {
		w.err = err
		return
	}
	if err := w.f.SetRowStyle(sheet, 1, 1, w.header); err != nil {
		w.err = err
		return
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			w.err = err
			return
		}
	}
}

func progressRows(data *Data) [][]any {
	rows := make([][]any, 0, len(models.Subjects))
	for _, subject := range models.Subjects {
		rows = append(rows, []any{subject.Title(), progress.Format(data.Progress[subject])})
	}
	return rows
}

func questionRows(entries []models.QuestionEntry) [][]any {
	rows := make([][]any, 0, len(entries))
	for _, q := range entries {
		rows = append(rows, []any{q.Subject.Title(), q.Name, string(q.Status), q.Link, q.Doubts, q.Date})
	}
	return rows
}

func activityRows(entries []models.ActivityEntry) [][]any {
	rows := make([][]any, 0, len(entries))
	for _, a := range entries {
		rows = append(rows, []any{a.Subject.Title(), a.Name, string(a.Status), a.ReferenceLink, a.Doubts, a.Datetime})
	}
	return rows
}

func studyRows(sessions []models.StudySession) [][]any {
	rows := make([][]any, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []any{s.SessionDate, s.TotalStudyTime, formatDuration(s.TotalStudyTime)})
	}
	return rows
}

func formatDuration(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}
