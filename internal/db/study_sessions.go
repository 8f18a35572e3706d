package db

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// GetStudySeconds returns the total seconds recorded for the day, 0 if none.
func (db *DB) GetStudySeconds(ctx context.Context, userID, day string) (int64, error) {
	var s models.StudySession
	err := db.WithContext(ctx).Where("user_id = ? AND session_date = ?", userID, day).First(&s).Error
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return s.TotalStudyTime, nil
}

// AddStudySeconds adds seconds to the day's total and returns the new total.
func (db *DB) AddStudySeconds(ctx context.Context, userID, day string, seconds int64) (int64, error) {
	if seconds <= 0 {
		return db.GetStudySeconds(ctx, userID, day)
	}

	row := models.StudySession{UserID: userID, SessionDate: day, TotalStudyTime: seconds}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "session_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_study_time": gorm.Expr("study_sessions.total_study_time + excluded.total_study_time"),
			"updated_at":       time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return 0, err
	}
	return db.GetStudySeconds(ctx, userID, day)
}

// StudyHistory returns the sessions of the last days days ending at now,
// oldest first. Days without study are omitted.
func (db *DB) StudyHistory(ctx context.Context, userID string, now time.Time, days int) ([]models.StudySession, error) {
	if days <= 0 {
		days = 7
	}
	from := models.SessionDate(now.AddDate(0, 0, -(days - 1)))
	to := models.SessionDate(now)

	var rows []models.StudySession
	err := db.WithContext(ctx).
		Where("user_id = ? AND session_date >= ? AND session_date <= ?", userID, from, to).
		Order("session_date").
		Find(&rows).Error
	return rows, err
}
