package telemetry

import (
	"runtime"
	"strings"

	"github.com/asteroid-belt/studydeck/pkg/version"
)

// Event names - CLI
const (
	EventAppStarted         = "app_started"
	EventAppExited          = "app_exited"
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error_occurred"
	EventExported           = "workbook_exported"
	EventSignedIn           = "signed_in"
	EventSignedOut          = "signed_out"
)

// Event names - TUI
const (
	EventViewNavigated    = "view_navigated"
	EventSubjectSwitched  = "subject_switched"
	EventTopicToggled     = "topic_toggled"
	EventEntryAdded       = "entry_added"
	EventEntryCycled      = "entry_cycled"
	EventEntriesDeleted   = "entries_deleted"
	EventStudyCommitted   = "study_interval_committed"
	EventBreakStarted     = "break_started"
	EventTutorMessageSent = "tutor_message_sent"
	EventNotesFileOpened  = "notes_file_opened"
	EventNotesRepoSet     = "notes_repo_set"
	EventAudioUploaded    = "audio_uploaded"
	EventAudioRemoved     = "audio_removed"
)

// Event names - MCP
const (
	EventMCPToolCalled = "mcp_tool_called"
)

// baseProperties returns common properties for all events.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"version":    version.Version,
		"prerelease": version.IsPrerelease(),
		"dev_build":  version.IsDevBuild(),
	}
}

// --- CLI & shared ---

// TrackAppStarted tracks application startup.
func (c *posthogClient) TrackAppStarted(mode string, signedIn bool) {
	props := baseProperties()
	props["mode"] = mode
	props["signed_in"] = signedIn
	c.Track(EventAppStarted, props)
}

// TrackAppExited tracks application exit.
func (c *posthogClient) TrackAppExited(mode string, sessionDurationMs int64, commandsRun int) {
	props := baseProperties()
	props["mode"] = mode
	props["session_duration_ms"] = sessionDurationMs
	props["commands_run"] = commandsRun
	c.Track(EventAppExited, props)
}

// TrackCLICommandExecuted tracks CLI command execution.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command_name"] = commandName
	props["has_flags"] = hasFlags
	props["execution_duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

// TrackCLIError tracks CLI errors.
func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["error_type"] = errorType
	c.Track(EventCLIErrorOccurred, props)
}

// TrackExported tracks a workbook export.
func (c *posthogClient) TrackExported(questions, activities, days int) {
	props := baseProperties()
	props["question_count"] = questions
	props["activity_count"] = activities
	props["history_days"] = days
	c.Track(EventExported, props)
}

// TrackSignedIn tracks a completed sign in.
func (c *posthogClient) TrackSignedIn(firstTime bool) {
	props := baseProperties()
	props["first_time"] = firstTime
	c.Track(EventSignedIn, props)
}

// TrackSignedOut tracks a sign out.
func (c *posthogClient) TrackSignedOut() {
	c.Track(EventSignedOut, baseProperties())
}

// --- TUI ---

// TrackViewNavigated tracks tab changes.
func (c *posthogClient) TrackViewNavigated(viewName, previousView string) {
	props := baseProperties()
	props["view_name"] = viewName
	props["previous_view"] = previousView
	c.Track(EventViewNavigated, props)
}

// TrackSubjectSwitched tracks the subject switcher.
func (c *posthogClient) TrackSubjectSwitched(subject string) {
	props := baseProperties()
	props["subject"] = subject
	c.Track(EventSubjectSwitched, props)
}

// TrackTopicToggled tracks a progress checkbox change.
func (c *posthogClient) TrackTopicToggled(subject, field string, value bool, outcome string) {
	props := baseProperties()
	props["subject"] = subject
	props["field"] = field
	props["value"] = value
	props["outcome"] = outcome
	c.Track(EventTopicToggled, props)
}

// TrackEntryAdded tracks a new question or activity.
func (c *posthogClient) TrackEntryAdded(kind, subject string) {
	props := baseProperties()
	props["kind"] = kind
	props["subject"] = subject
	c.Track(EventEntryAdded, props)
}

// TrackEntryCycled tracks a status change.
func (c *posthogClient) TrackEntryCycled(kind, status, outcome string) {
	props := baseProperties()
	props["kind"] = kind
	props["status"] = status
	props["outcome"] = outcome
	c.Track(EventEntryCycled, props)
}

// TrackEntriesDeleted tracks a bulk delete.
func (c *posthogClient) TrackEntriesDeleted(kind string, count int, outcome string) {
	props := baseProperties()
	props["kind"] = kind
	props["count"] = count
	props["outcome"] = outcome
	c.Track(EventEntriesDeleted, props)
}

// TrackStudyCommitted tracks a study interval added to the daily total.
func (c *posthogClient) TrackStudyCommitted(seconds int64) {
	props := baseProperties()
	props["seconds"] = seconds
	c.Track(EventStudyCommitted, props)
}

// TrackBreakStarted tracks a break.
func (c *posthogClient) TrackBreakStarted(breakSeconds int64) {
	props := baseProperties()
	props["break_seconds"] = breakSeconds
	c.Track(EventBreakStarted, props)
}

// TrackTutorMessageSent tracks a tutor request. Message text is never sent.
func (c *posthogClient) TrackTutorMessageSent(subject, model string, hasImage, failed bool) {
	props := baseProperties()
	props["subject"] = subject
	props["model"] = model
	props["has_image"] = hasImage
	props["failed"] = failed
	c.Track(EventTutorMessageSent, props)
}

// TrackNotesFileOpened tracks a notes file view.
func (c *posthogClient) TrackNotesFileOpened(extension string) {
	props := baseProperties()
	props["extension"] = strings.ToLower(extension)
	c.Track(EventNotesFileOpened, props)
}

// TrackNotesRepoSet tracks a saved notes repository. The URL is not sent.
func (c *posthogClient) TrackNotesRepoSet() {
	c.Track(EventNotesRepoSet, baseProperties())
}

// TrackAudioUploaded tracks a playlist upload.
func (c *posthogClient) TrackAudioUploaded(mimeType string, sizeBytes int64) {
	props := baseProperties()
	props["mime_type"] = mimeType
	props["size_bytes"] = sizeBytes
	c.Track(EventAudioUploaded, props)
}

// TrackAudioRemoved tracks a playlist removal.
func (c *posthogClient) TrackAudioRemoved(outcome string) {
	props := baseProperties()
	props["outcome"] = outcome
	c.Track(EventAudioRemoved, props)
}

// --- MCP ---

// TrackMCPToolCalled tracks MCP tool invocations.
func (c *posthogClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	props := baseProperties()
	props["tool_name"] = toolName
	props["duration_ms"] = durationMs
	props["success"] = success
	c.Track(EventMCPToolCalled, props)
}

// --- No-op implementations ---

func (c *noopClient) TrackAppStarted(mode string, signedIn bool)                           {}
func (c *noopClient) TrackAppExited(mode string, sessionDurationMs int64, commandsRun int) {}
func (c *noopClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
}
func (c *noopClient) TrackCLIError(commandName, errorType string)                         {}
func (c *noopClient) TrackExported(questions, activities, days int)                       {}
func (c *noopClient) TrackSignedIn(firstTime bool)                                        {}
func (c *noopClient) TrackSignedOut()                                                     {}
func (c *noopClient) TrackViewNavigated(viewName, previousView string)                    {}
func (c *noopClient) TrackSubjectSwitched(subject string)                                 {}
func (c *noopClient) TrackTopicToggled(subject, field string, value bool, outcome string) {}
func (c *noopClient) TrackEntryAdded(kind, subject string)                                {}
func (c *noopClient) TrackEntryCycled(kind, status, outcome string)                       {}
func (c *noopClient) TrackEntriesDeleted(kind string, count int, outcome string)          {}
func (c *noopClient) TrackStudyCommitted(seconds int64)                                   {}
func (c *noopClient) TrackBreakStarted(breakSeconds int64)                                {}
func (c *noopClient) TrackTutorMessageSent(subject, model string, hasImage, failed bool)  {}
func (c *noopClient) TrackNotesFileOpened(extension string)                               {}
func (c *noopClient) TrackNotesRepoSet()                                                  {}
func (c *noopClient) TrackAudioUploaded(mimeType string, sizeBytes int64)                 {}
func (c *noopClient) TrackAudioRemoved(outcome string)                                    {}
func (c *noopClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool)  {}
