package models

import (
	"testing"
)

func TestEntryStatus_Next(t *testing.T) {
	tests := []struct {
		name   string
		status EntryStatus
		want   EntryStatus
	}{
		{name: "not started advances", status: StatusNotStarted, want: StatusInProgress},
		{name: "in progress advances", status: StatusInProgress, want: StatusCompleted},
		{name: "completed wraps", status: StatusCompleted, want: StatusNotStarted},
		{name: "unknown resets to not started", status: EntryStatus("Blocked"), want: StatusNotStarted},
		{name: "empty resets to not started", status: EntryStatus(""), want: StatusNotStarted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Next(); got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntryStatus_NextCycleReturnsToStart(t *testing.T) {
	for _, s := range Statuses {
		if got := s.Next().Next().Next(); got != s {
			t.Errorf("three steps from %q ended at %q", s, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]EntryStatus{
		"in progress": StatusInProgress,
		"In-Progress": StatusInProgress,
		"IN_PROGRESS": StatusInProgress,
		"completed":   StatusCompleted,
		" Done ":      StatusCompleted,
		"not started": StatusNotStarted,
		"":            StatusNotStarted,
		"something":   StatusNotStarted,
	}
	for in, want := range tests {
		if got := ParseStatus(in); got != want {
			t.Errorf("ParseStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTableNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{UserProfile{}.TableName(), "user_profiles"},
		{TopicProgress{}.TableName(), "tracker_progress"},
		{QuestionEntry{}.TableName(), "questions"},
		{ActivityEntry{}.TableName(), "activities"},
		{StudySession{}.TableName(), "study_sessions"},
		{AudioAsset{}.TableName(), "audio_files"},
		{AiConversation{}.TableName(), "ai_conversations"},
		{AppState{}.TableName(), "app_state"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("TableName() = %q, want %q", tt.got, tt.want)
		}
	}
}
