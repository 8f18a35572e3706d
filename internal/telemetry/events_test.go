package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventConstants(t *testing.T) {
	// CLI events
	assert.Equal(t, "app_started", EventAppStarted)
	assert.Equal(t, "app_exited", EventAppExited)
	assert.Equal(t, "cli_command_executed", EventCLICommandExecuted)
	assert.Equal(t, "cli_error_occurred", EventCLIErrorOccurred)
	assert.Equal(t, "workbook_exported", EventExported)

	// TUI events
	assert.Equal(t, "view_navigated", EventViewNavigated)
	assert.Equal(t, "topic_toggled", EventTopicToggled)
	assert.Equal(t, "entry_added", EventEntryAdded)
	assert.Equal(t, "entry_cycled", EventEntryCycled)
	assert.Equal(t, "entries_deleted", EventEntriesDeleted)
	assert.Equal(t, "study_interval_committed", EventStudyCommitted)
	assert.Equal(t, "tutor_message_sent", EventTutorMessageSent)
	assert.Equal(t, "notes_file_opened", EventNotesFileOpened)
	assert.Equal(t, "audio_uploaded", EventAudioUploaded)

	// MCP events
	assert.Equal(t, "mcp_tool_called", EventMCPToolCalled)
}
