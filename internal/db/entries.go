package db

import (
	"context"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// ListQuestions returns the user's questions for a subject, newest first.
func (db *DB) ListQuestions(ctx context.Context, userID string, subject models.Subject) ([]models.QuestionEntry, error) {
	var rows []models.QuestionEntry
	err := db.WithContext(ctx).
		Where("user_id = ? AND subject = ?", userID, subject).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// CreateQuestion inserts a question entry.
func (db *DB) CreateQuestion(ctx context.Context, q *models.QuestionEntry) error {
	return db.WithContext(ctx).Create(q).Error
}

// GetQuestion returns a question owned by userID, or nil.
func (db *DB) GetQuestion(ctx context.Context, userID, id string) (*models.QuestionEntry, error) {
	var q models.QuestionEntry
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&q).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

// UpdateQuestionStatus sets the status of a question owned by userID.
func (db *DB) UpdateQuestionStatus(ctx context.Context, userID, id string, status models.EntryStatus) error {
	return db.WithContext(ctx).Model(&models.QuestionEntry{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", status).Error
}

// DeleteQuestions removes the listed questions owned by userID.
func (db *DB) DeleteQuestions(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.QuestionEntry{}).Error
}

// ListActivities returns the user's activities for a subject, newest first.
func (db *DB) ListActivities(ctx context.Context, userID string, subject models.Subject) ([]models.ActivityEntry, error) {
	var rows []models.ActivityEntry
	err := db.WithContext(ctx).
		Where("user_id = ? AND subject = ?", userID, subject).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// CreateActivity inserts an activity entry.
func (db *DB) CreateActivity(ctx context.Context, a *models.ActivityEntry) error {
	return db.WithContext(ctx).Create(a).Error
}

// GetActivity returns an activity owned by userID, or nil.
func (db *DB) GetActivity(ctx context.Context, userID, id string) (*models.ActivityEntry, error) {
	var a models.ActivityEntry
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&a).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// UpdateActivityStatus sets the status of an activity owned by userID.
func (db *DB) UpdateActivityStatus(ctx context.Context, userID, id string, status models.EntryStatus) error {
	return db.WithContext(ctx).Model(&models.ActivityEntry{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", status).Error
}

// DeleteActivities removes the listed activities owned by userID.
func (db *DB) DeleteActivities(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.ActivityEntry{}).Error
}
