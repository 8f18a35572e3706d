// Package logbook keeps the per-subject question and activity logs.
//
// A Log holds the loaded entries for one (user, subject) pair together with
// the delete-mode selection. Writes go to the store; the local copy follows
// the rules of each operation's mutation outcome.
package logbook

import (
	"context"
	"fmt"
	"time"

	"github.com/asteroid-belt/studydeck/internal/db"
	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/mutation"
)

// Store persists entries of type T.
type Store[T any] interface {
	List(ctx context.Context, userID string, subject models.Subject) ([]T, error)
	Create(ctx context.Context, entry *T) error
	UpdateStatus(ctx context.Context, userID, id string, status models.EntryStatus) error
	Delete(ctx context.Context, userID string, ids []string) error
}

// Draft builds an entry of type T from form input.
type Draft[T any] interface {
	Entry(userID string, subject models.Subject, now time.Time) T
}

// accessor reads and writes the id and status of an entry.
type accessor[T any] struct {
	id     func(*T) string
	status func(*T) *models.EntryStatus
}

// Log is the loaded log for one user and subject.
type Log[T any, D Draft[T]] struct {
	name      string
	store     Store[T]
	access    accessor[T]
	normalize func(D) D
	now       func() time.Time

	userID     string
	subject    models.Subject
	entries    []T
	deleteMode bool
	selected   map[string]bool
}

// QuestionLog is the question log.
type QuestionLog = Log[models.QuestionEntry, QuestionDraft]

// ActivityLog is the activity log.
type ActivityLog = Log[models.ActivityEntry, ActivityDraft]

// NewQuestionLog returns an empty question log backed by store.
func NewQuestionLog(store Store[models.QuestionEntry]) *QuestionLog {
	return &QuestionLog{
		name:  "questions",
		store: store,
		access: accessor[models.QuestionEntry]{
			id:     func(q *models.QuestionEntry) string { return q.ID },
			status: func(q *models.QuestionEntry) *models.EntryStatus { return &q.Status },
		},
		normalize: QuestionDraft.normalized,
		now:       time.Now,
		selected:  map[string]bool{},
	}
}

// NewActivityLog returns an empty activity log backed by store.
func NewActivityLog(store Store[models.ActivityEntry]) *ActivityLog {
	return &ActivityLog{
		name:  "activities",
		store: store,
		access: accessor[models.ActivityEntry]{
			id:     func(a *models.ActivityEntry) string { return a.ID },
			status: func(a *models.ActivityEntry) *models.EntryStatus { return &a.Status },
		},
		normalize: ActivityDraft.normalized,
		now:       time.Now,
		selected:  map[string]bool{},
	}
}

// Load replaces the local entries with the store's, newest first. On failure
// the log is left empty.
func (l *Log[T, D]) Load(ctx context.Context, userID string, subject models.Subject) error {
	l.userID = userID
	l.subject = subject
	l.entries = nil
	l.deleteMode = false
	l.selected = map[string]bool{}

	entries, err := l.store.List(ctx, userID, subject)
	if err != nil {
		log.Warnw("list entries failed", "op", l.name+".list", "user", userID, "subject", subject, "error", err)
		return fmt.Errorf("list %s: %w", l.name, err)
	}
	l.entries = entries
	return nil
}

// Entries returns the local entries, newest first.
func (l *Log[T, D]) Entries() []T {
	return l.entries
}

// Subject returns the subject the log was loaded for.
func (l *Log[T, D]) Subject() models.Subject {
	return l.subject
}

// Find returns the entry with the given id.
func (l *Log[T, D]) Find(id string) (T, bool) {
	var zero T
	if i := l.index(id); i >= 0 {
		return l.entries[i], true
	}
	return zero, false
}

func (l *Log[T, D]) index(id string) int {
	for i := range l.entries {
		if l.access.id(&l.entries[i]) == id {
			return i
		}
	}
	return -1
}

// Add validates and stores a new entry. On success it is prepended locally;
// on failure nothing changes locally.
func (l *Log[T, D]) Add(ctx context.Context, draft D) (T, mutation.Result) {
	var zero T
	draft = l.normalize(draft)
	if err := validateDraft(draft); err != nil {
		return zero, mutation.Failed(mutation.Unchanged, err)
	}

	entry := draft.Entry(l.userID, l.subject, l.now())
	if err := l.store.Create(ctx, &entry); err != nil {
		log.Warnw("create entry failed", "op", l.name+".create", "user", l.userID, "error", err)
		return zero, mutation.Failed(mutation.Unchanged, fmt.Errorf("create %s entry: %w", l.name, err))
	}
	l.entries = append([]T{entry}, l.entries...)
	return entry, mutation.OK()
}

// Cycle advances an entry's status. The local copy is updated first and kept
// even if the write fails.
func (l *Log[T, D]) Cycle(ctx context.Context, id string) (models.EntryStatus, mutation.Result) {
	i := l.index(id)
	if i < 0 {
		return "", mutation.Failed(mutation.Unchanged, fmt.Errorf("%s entry %q not found", l.name, id))
	}
	status := l.access.status(&l.entries[i])
	next := status.Next()
	*status = next

	if err := l.store.UpdateStatus(ctx, l.userID, id, next); err != nil {
		log.Warnw("update status failed", "op", l.name+".cycle", "user", l.userID, "id", id, "error", err)
		return next, mutation.Failed(mutation.LocalOnly, fmt.Errorf("update %s status: %w", l.name, err))
	}
	return next, mutation.OK()
}

// DeleteMode reports whether selection for deletion is active.
func (l *Log[T, D]) DeleteMode() bool {
	return l.deleteMode
}

// ToggleDeleteMode enters or leaves delete mode. Leaving it clears the selection.
func (l *Log[T, D]) ToggleDeleteMode() {
	l.deleteMode = !l.deleteMode
	if !l.deleteMode {
		l.selected = map[string]bool{}
	}
}

// ToggleSelected flips the selection of id. It is a no-op outside delete mode.
func (l *Log[T, D]) ToggleSelected(id string) {
	if !l.deleteMode || l.index(id) < 0 {
		return
	}
	if l.selected[id] {
		delete(l.selected, id)
	} else {
		l.selected[id] = true
	}
}

// IsSelected reports whether id is selected for deletion.
func (l *Log[T, D]) IsSelected(id string) bool {
	return l.selected[id]
}

// Selected returns the selected ids in list order.
func (l *Log[T, D]) Selected() []string {
	var ids []string
	for i := range l.entries {
		if id := l.access.id(&l.entries[i]); l.selected[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// DeleteSelected removes the selected entries and leaves delete mode. On
// failure nothing changes locally.
func (l *Log[T, D]) DeleteSelected(ctx context.Context) mutation.Result {
	ids := l.Selected()
	if len(ids) == 0 {
		return mutation.OK()
	}
	return l.Delete(ctx, ids)
}

// Delete removes the given entries.
func (l *Log[T, D]) Delete(ctx context.Context, ids []string) mutation.Result {
	if err := l.store.Delete(ctx, l.userID, ids); err != nil {
		log.Warnw("delete entries failed", "op", l.name+".delete", "user", l.userID, "count", len(ids), "error", err)
		return mutation.Failed(mutation.Unchanged, fmt.Errorf("delete %s: %w", l.name, err))
	}

	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	kept := l.entries[:0:0]
	for i := range l.entries {
		if !gone[l.access.id(&l.entries[i])] {
			kept = append(kept, l.entries[i])
		}
	}
	l.entries = kept
	l.selected = map[string]bool{}
	l.deleteMode = false
	return mutation.OK()
}

// QuestionStore adapts the database to Store[models.QuestionEntry].
type QuestionStore struct{ DB *db.DB }

func (s QuestionStore) List(ctx context.Context, userID string, subject models.Subject) ([]models.QuestionEntry, error) {
	return s.DB.ListQuestions(ctx, userID, subject)
}

func (s QuestionStore) Create(ctx context.Context, q *models.QuestionEntry) error {
	return s.DB.CreateQuestion(ctx, q)
}

func (s QuestionStore) UpdateStatus(ctx context.Context, userID, id string, status models.EntryStatus) error {
	return s.DB.UpdateQuestionStatus(ctx, userID, id, status)
}

func (s QuestionStore) Delete(ctx context.Context, userID string, ids []string) error {
	return s.DB.DeleteQuestions(ctx, userID, ids)
}

// ActivityStore adapts the database to Store[models.ActivityEntry].
type ActivityStore struct{ DB *db.DB }

func (s ActivityStore) List(ctx context.Context, userID string, subject models.Subject) ([]models.ActivityEntry, error) {
	return s.DB.ListActivities(ctx, userID, subject)
}

func (s ActivityStore) Create(ctx context.Context, a *models.ActivityEntry) error {
	return s.DB.CreateActivity(ctx, a)
}

func (s ActivityStore) UpdateStatus(ctx context.Context, userID, id string, status models.EntryStatus) error {
	return s.DB.UpdateActivityStatus(ctx, userID, id, status)
}

func (s ActivityStore) Delete(ctx context.Context, userID string, ids []string) error {
	return s.DB.DeleteActivities(ctx, userID, ids)
}
