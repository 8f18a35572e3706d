package models

import "time"

// Checklist field names, matching the tracker_progress columns.
const (
	FieldTheory    = "theory"
	FieldQuestions = "questions"
	FieldRevision1 = "revision1"
	FieldRevision2 = "revision2"
	FieldRevision3 = "revision3"
)

// ChecklistFields lists the five flags in display order.
var ChecklistFields = []string{FieldTheory, FieldQuestions, FieldRevision1, FieldRevision2, FieldRevision3}

// IsChecklistField reports whether name is one of the five flag columns.
func IsChecklistField(name string) bool {
	for _, f := range ChecklistFields {
		if f == name {
			return true
		}
	}
	return false
}

// TopicProgress holds the checklist flags for one topic. A missing row means
// every flag is false.
type TopicProgress struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_progress_topic" json:"user_id"`
	Subject   Subject   `gorm:"size:32;not null;uniqueIndex:idx_progress_topic" json:"subject"`
	TopicKey  string    `gorm:"size:255;not null;uniqueIndex:idx_progress_topic" json:"topic_key"`
	Theory    bool      `gorm:"default:false" json:"theory"`
	Questions bool      `gorm:"default:false" json:"questions"`
	Revision1 bool      `gorm:"default:false" json:"revision1"`
	Revision2 bool      `gorm:"default:false" json:"revision2"`
	Revision3 bool      `gorm:"default:false" json:"revision3"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (TopicProgress) TableName() string {
	return "tracker_progress"
}
