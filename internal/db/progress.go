package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// ListProgress returns every stored checklist row for the subject.
func (db *DB) ListProgress(ctx context.Context, userID string, subject models.Subject) ([]models.TopicProgress, error) {
	var rows []models.TopicProgress
	err := db.WithContext(ctx).
		Where("user_id = ? AND subject = ?", userID, subject).
		Order("topic_key").
		Find(&rows).Error
	return rows, err
}

// UpsertProgressField sets one checklist flag, creating the row on first use.
// The other flags of an existing row are left untouched.
func (db *DB) UpsertProgressField(ctx context.Context, userID string, subject models.Subject, topicKey, field string, value bool) error {
	if !models.IsChecklistField(field) {
		return fmt.Errorf("unknown checklist field %q", field)
	}

	row := map[string]interface{}{
		"user_id":    userID,
		"subject":    subject,
		"topic_key":  topicKey,
		field:        value,
		"created_at": time.Now(),
		"updated_at": time.Now(),
	}
	return db.WithContext(ctx).Model(&models.TopicProgress{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "subject"}, {Name: "topic_key"}},
		DoUpdates: clause.AssignmentColumns([]string{field, "updated_at"}),
	}).Create(row).Error
}
