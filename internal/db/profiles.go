package db

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// GetProfile returns the user's profile or nil when none exists.
func (db *DB) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := db.WithContext(ctx).Where("id = ?", userID).First(&p).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// EnsureProfile inserts p unless a profile with the same id exists. It
// reports whether a row was created.
func (db *DB) EnsureProfile(ctx context.Context, p *models.UserProfile) (bool, error) {
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(p)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetNotesRepo saves the trimmed notes repository URL on the user's profile.
func (db *DB) SetNotesRepo(ctx context.Context, userID, repoURL string) error {
	p := models.UserProfile{ID: userID, NotesRepoURL: strings.TrimSpace(repoURL)}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"notes_repo_url", "updated_at"}),
	}).Create(&p).Error
}
