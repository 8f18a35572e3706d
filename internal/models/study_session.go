package models

import "time"

// SessionDateLayout is the calendar-day key of a study session.
const SessionDateLayout = "2006-01-02"

// StudySession accumulates the seconds studied on one calendar day.
type StudySession struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	UserID         string    `gorm:"size:128;not null;uniqueIndex:idx_session_day" json:"user_id"`
	SessionDate    string    `gorm:"size:10;not null;uniqueIndex:idx_session_day" json:"session_date"`
	TotalStudyTime int64     `gorm:"not null;default:0" json:"total_study_time"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (StudySession) TableName() string {
	return "study_sessions"
}

// SessionDate returns the day key for t in its own location.
func SessionDate(t time.Time) string {
	return t.Format(SessionDateLayout)
}
