package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AudioAsset is an uploaded playlist track. The blob lives in object storage
// under ObjectKey.
type AudioAsset struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:128;not null;index" json:"user_id"`
	Name      string    `gorm:"size:500;not null" json:"name"`
	FileURL   string    `gorm:"size:2048;not null" json:"file_url"`
	ObjectKey string    `gorm:"column:object_path;size:1024" json:"object_path"`
	FileSize  int64     `json:"file_size"`
	MimeType  string    `gorm:"size:128" json:"mime_type"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (AudioAsset) TableName() string {
	return "audio_files"
}

// BeforeCreate assigns an id when the caller did not.
func (a *AudioAsset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
