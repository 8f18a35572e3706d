package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryStatus is the three-valued status of question and activity entries.
type EntryStatus string

const (
	StatusNotStarted EntryStatus = "Not Started"
	StatusInProgress EntryStatus = "In Progress"
	StatusCompleted  EntryStatus = "Completed"
)

// Statuses lists every status in cycle order.
var Statuses = []EntryStatus{StatusNotStarted, StatusInProgress, StatusCompleted}

// Next advances the status cycle. Unknown values reset to Not Started.
func (s EntryStatus) Next() EntryStatus {
	switch s {
	case StatusNotStarted:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	case StatusCompleted:
		return StatusNotStarted
	default:
		return StatusNotStarted
	}
}

// ParseStatus accepts "in progress", "in-progress", "IN_PROGRESS" and the
// like. Anything unrecognized is Not Started.
func ParseStatus(s string) EntryStatus {
	normalized := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch normalized {
	case "in progress":
		return StatusInProgress
	case "completed", "done":
		return StatusCompleted
	default:
		return StatusNotStarted
	}
}

// QuestionEntry is one row in the question log.
type QuestionEntry struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	UserID    string      `gorm:"size:128;not null;index:idx_questions_owner" json:"user_id"`
	Subject   Subject     `gorm:"size:32;not null;index:idx_questions_owner" json:"subject"`
	Name      string      `gorm:"size:500;not null" json:"name"`
	Status    EntryStatus `gorm:"size:20;not null;default:Not Started" json:"status"`
	Link      string      `gorm:"size:1024" json:"link"`
	Doubts    string      `gorm:"type:text" json:"doubts"`
	Date      string      `gorm:"size:32" json:"date"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (QuestionEntry) TableName() string {
	return "questions"
}

// BeforeCreate assigns an id when the caller did not.
func (q *QuestionEntry) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// ActivityEntry is one row in the activity log.
type ActivityEntry struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	UserID        string      `gorm:"size:128;not null;index:idx_activities_owner" json:"user_id"`
	Subject       Subject     `gorm:"size:32;not null;index:idx_activities_owner" json:"subject"`
	Name          string      `gorm:"size:500;not null" json:"name"`
	Status        EntryStatus `gorm:"size:20;not null;default:Not Started" json:"status"`
	ReferenceLink string      `gorm:"size:1024" json:"reference_link"`
	Doubts        string      `gorm:"type:text" json:"doubts"`
	Datetime      string      `gorm:"size:64" json:"datetime"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (ActivityEntry) TableName() string {
	return "activities"
}

// BeforeCreate assigns an id when the caller did not.
func (a *ActivityEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
