// Package tracker keeps the syllabus checklist state for one subject and
// persists toggles.
package tracker

import (
	"context"
	"fmt"

	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/mutation"
	"github.com/asteroid-belt/studydeck/internal/progress"
)

// Store persists checklist rows.
type Store interface {
	ListProgress(ctx context.Context, userID string, subject models.Subject) ([]models.TopicProgress, error)
	UpsertProgressField(ctx context.Context, userID string, subject models.Subject, topicKey, field string, value bool) error
}

// Tracker is the loaded checklist of one user and subject.
type Tracker struct {
	store    Store
	userID   string
	subject  models.Subject
	syllabus progress.Syllabus
	state    map[string]progress.Checklist
}

// New returns an empty tracker.
func New(store Store) *Tracker {
	return &Tracker{store: store, state: map[string]progress.Checklist{}}
}

// Load reads the subject's checklist rows. On failure the state is empty.
func (t *Tracker) Load(ctx context.Context, userID string, subject models.Subject) (map[string]progress.Checklist, error) {
	syllabus, ok := progress.For(subject)
	if !ok {
		return nil, fmt.Errorf("unknown subject %q", subject)
	}
	t.userID = userID
	t.subject = subject
	t.syllabus = syllabus
	t.state = map[string]progress.Checklist{}

	rows, err := t.store.ListProgress(ctx, userID, subject)
	if err != nil {
		log.Warnw("load progress failed", "op", "tracker.load", "user", userID, "subject", subject, "error", err)
		return t.state, fmt.Errorf("load progress: %w", err)
	}
	for _, row := range rows {
		t.state[row.TopicKey] = progress.FromRow(row)
	}
	return t.state, nil
}

// Subject returns the loaded subject.
func (t *Tracker) Subject() models.Subject { return t.subject }

// Syllabus returns the loaded subject's syllabus.
func (t *Tracker) Syllabus() progress.Syllabus { return t.syllabus }

// Checklist returns the state of one topic. Unknown keys are all-false.
func (t *Tracker) Checklist(topicKey string) progress.Checklist {
	return t.state[topicKey]
}

// Toggle sets one flag. The change is applied locally first; if the write
// fails the state is reloaded from the store.
func (t *Tracker) Toggle(ctx context.Context, topicKey, field string, value bool) mutation.Result {
	if !models.IsChecklistField(field) {
		return mutation.Failed(mutation.Unchanged, fmt.Errorf("unknown checklist field %q", field))
	}
	t.state[topicKey] = t.state[topicKey].With(field, value)

	err := t.store.UpsertProgressField(ctx, t.userID, t.subject, topicKey, field, value)
	if err == nil {
		return mutation.OK()
	}
	log.Warnw("toggle progress failed", "op", "tracker.toggle", "user", t.userID, "topic", topicKey, "field", field, "error", err)

	if _, reloadErr := t.Load(ctx, t.userID, t.subject); reloadErr != nil {
		return mutation.Failed(mutation.Reverted, fmt.Errorf("toggle %s: %w (reload failed: %v)", field, err, reloadErr))
	}
	return mutation.Failed(mutation.Reverted, fmt.Errorf("toggle %s: %w", field, err))
}

// Percent returns the overall weighted completion.
func (t *Tracker) Percent() float64 {
	return progress.Overall(t.syllabus, t.state)
}
