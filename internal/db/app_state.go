package db

import (
	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/studydeck/internal/models"
)

const appStateID = "default"

// GetAppState retrieves the local application state, or a blank default.
func (db *DB) GetAppState() (*models.AppState, error) {
	var state models.AppState
	err := db.Where("id = ?", appStateID).First(&state).Error
	if err != nil {
		if isNotFound(err) {
			return &models.AppState{ID: appStateID}, nil
		}
		return nil, err
	}
	return &state, nil
}

// GetOrCreateTrackingID returns the persistent tracking ID, creating one if it doesn't exist.
// On any error, it falls back to a per-session ID.
func (db *DB) GetOrCreateTrackingID() string {
	state, err := db.GetAppState()
	if err != nil {
		return generateSessionID()
	}
	if state.TrackingID != "" {
		return state.TrackingID
	}

	state.TrackingID = generateSessionID()
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tracking_id", "updated_at"}),
	}).Create(state).Error
	if err != nil {
		// Even if save fails, return the generated ID for this session
		return state.TrackingID
	}
	return state.TrackingID
}

// RecordAppVersion stores v as the last version that wrote to this store and
// returns the one recorded before it.
func (db *DB) RecordAppVersion(v string) (string, error) {
	state, err := db.GetAppState()
	if err != nil {
		return "", err
	}
	previous := state.LastVersion
	state.LastVersion = v
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_version", "updated_at"}),
	}).Create(state).Error
	return previous, err
}

func generateSessionID() string {
	return uuid.New().String()
}
