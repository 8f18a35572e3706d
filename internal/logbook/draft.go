package logbook

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// Display layouts for the stamped date columns.
const (
	DateLayout     = "1/2/2006"
	DatetimeLayout = "1/2/2006, 3:04:05 PM"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// QuestionDraft is the add-question form.
type QuestionDraft struct {
	Name   string             `validate:"required,max=500"`
	Status models.EntryStatus `validate:"omitempty,oneof='Not Started' 'In Progress' 'Completed'"`
	Link   string             `validate:"omitempty,url"`
	Doubts string             `validate:"max=10000"`
}

// Entry builds the row for a validated draft.
func (d QuestionDraft) Entry(userID string, subject models.Subject, now time.Time) models.QuestionEntry {
	status := d.Status
	if status == "" {
		status = models.StatusNotStarted
	}
	return models.QuestionEntry{
		UserID:    userID,
		Subject:   subject,
		Name:      d.Name,
		Status:    status,
		Link:      d.Link,
		Doubts:    d.Doubts,
		Date:      now.Format(DateLayout),
		CreatedAt: now,
	}
}

func (d QuestionDraft) normalized() QuestionDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Link = strings.TrimSpace(d.Link)
	return d
}

// ActivityDraft is the add-activity form.
type ActivityDraft struct {
	Name          string             `validate:"required,max=500"`
	Status        models.EntryStatus `validate:"omitempty,oneof='Not Started' 'In Progress' 'Completed'"`
	ReferenceLink string             `validate:"omitempty,url"`
	Doubts        string             `validate:"max=10000"`
}

// Entry builds the row for a validated draft.
func (d ActivityDraft) Entry(userID string, subject models.Subject, now time.Time) models.ActivityEntry {
	status := d.Status
	if status == "" {
		status = models.StatusNotStarted
	}
	return models.ActivityEntry{
		UserID:        userID,
		Subject:       subject,
		Name:          d.Name,
		Status:        status,
		ReferenceLink: d.ReferenceLink,
		Doubts:        d.Doubts,
		Datetime:      now.Format(DatetimeLayout),
		CreatedAt:     now,
	}
}

func (d ActivityDraft) normalized() ActivityDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.ReferenceLink = strings.TrimSpace(d.ReferenceLink)
	return d
}

// ValidationError lists the fields of a draft that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", strings.Join(e.Fields, ", "))
}

func validateDraft(d any) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return &ValidationError{Fields: fields}
}
