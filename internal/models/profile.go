package models

import "time"

// UserProfile is created on first sign-in and holds the notes repository link.
type UserProfile struct {
	ID           string    `gorm:"primaryKey;size:128" json:"id"`
	Email        string    `gorm:"size:320;not null" json:"email"`
	FullName     string    `gorm:"size:255" json:"full_name"`
	AvatarURL    string    `gorm:"size:1024" json:"avatar_url"`
	NotesRepoURL string    `gorm:"column:notes_repo_url;size:1024" json:"notes_repo_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (UserProfile) TableName() string {
	return "user_profiles"
}

// AppState stores process-local settings such as the telemetry tracking id.
type AppState struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	TrackingID  string    `gorm:"size:64" json:"tracking_id"`
	LastVersion string    `gorm:"size:64" json:"last_version"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (AppState) TableName() string {
	return "app_state"
}
