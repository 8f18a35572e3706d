package db

import (
	"context"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// ListAudio returns the user's playlist, newest first.
func (db *DB) ListAudio(ctx context.Context, userID string) ([]models.AudioAsset, error) {
	var rows []models.AudioAsset
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// CreateAudio inserts an audio asset row.
func (db *DB) CreateAudio(ctx context.Context, a *models.AudioAsset) error {
	return db.WithContext(ctx).Create(a).Error
}

// GetAudio returns an asset owned by userID, or nil.
func (db *DB) GetAudio(ctx context.Context, userID, id string) (*models.AudioAsset, error) {
	var a models.AudioAsset
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&a).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// DeleteAudio removes an asset row owned by userID.
func (db *DB) DeleteAudio(ctx context.Context, userID, id string) error {
	return db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.AudioAsset{}).Error
}
