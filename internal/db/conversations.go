package db

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// GetConversation returns the stored transcript row, or nil.
func (db *DB) GetConversation(ctx context.Context, userID string, subject models.Subject) (*models.AiConversation, error) {
	var c models.AiConversation
	err := db.WithContext(ctx).Where("user_id = ? AND subject = ?", userID, subject).First(&c).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// SaveConversation overwrites the transcript for (user, subject).
func (db *DB) SaveConversation(ctx context.Context, userID string, subject models.Subject, turns []models.ChatTurn) error {
	row := models.AiConversation{UserID: userID, Subject: subject, UpdatedAt: time.Now()}
	if err := row.SetTurns(turns); err != nil {
		return err
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"messages", "updated_at"}),
	}).Create(&row).Error
}

// DeleteConversation removes the transcript for (user, subject).
func (db *DB) DeleteConversation(ctx context.Context, userID string, subject models.Subject) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND subject = ?", userID, subject).
		Delete(&models.AiConversation{}).Error
}
