package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedID string

func (f fixedID) GetOrCreateTrackingID() string { return string(f) }

func TestNew_DisabledByEnvVar(t *testing.T) {
	t.Setenv(EnvTrackingEnabled, "false")

	originalKey := PostHogAPIKey
	PostHogAPIKey = "phc_test"
	defer func() { PostHogAPIKey = originalKey }()

	client := New(fixedID("abc"))
	_, ok := client.(*noopClient)
	assert.True(t, ok, "Should return noopClient when disabled")
	assert.Empty(t, client.GetTrackingID())
}

func TestNew_DisabledWithoutAPIKey(t *testing.T) {
	originalKey := PostHogAPIKey
	PostHogAPIKey = ""
	defer func() { PostHogAPIKey = originalKey }()

	client := New(nil)
	_, ok := client.(*noopClient)
	assert.True(t, ok, "Should return noopClient without API key")
}

func TestNew_EnabledUsesTrackingID(t *testing.T) {
	t.Setenv(EnvTrackingEnabled, "true")

	originalKey := PostHogAPIKey
	PostHogAPIKey = "phc_test"
	defer func() { PostHogAPIKey = originalKey }()

	client := New(fixedID("tracking-123"))
	defer client.Close()

	_, ok := client.(*posthogClient)
	assert.True(t, ok)
	assert.Equal(t, "tracking-123", client.GetTrackingID())
}

func TestNoopClient_DoesNotPanic(t *testing.T) {
	client := &noopClient{}

	client.Track("test_event", map[string]interface{}{"key": "value"})
	client.TrackAppStarted("cli", true)
	client.TrackAppExited("tui", 5000, 3)
	client.TrackCLICommandExecuted("questions", true, 100)
	client.TrackCLIError("ask", "network")
	client.TrackExported(10, 4, 30)
	client.TrackSignedIn(true)
	client.TrackSignedOut()

	client.TrackViewNavigated("timer", "tracker")
	client.TrackSubjectSwitched("physics")
	client.TrackTopicToggled("maths", "theory", true, "committed")
	client.TrackEntryAdded("question", "chemistry")
	client.TrackEntryCycled("activity", "In Progress", "local-only")
	client.TrackEntriesDeleted("question", 2, "committed")
	client.TrackStudyCommitted(1500)
	client.TrackBreakStarted(300)
	client.TrackTutorMessageSent("physics", "openai/gpt-4o", true, false)
	client.TrackNotesFileOpened(".md")
	client.TrackNotesRepoSet()
	client.TrackAudioUploaded("audio/mpeg", 1024)
	client.TrackAudioRemoved("committed")

	client.TrackMCPToolCalled("studydeck_progress", 100, true)

	client.Close()
}

func TestBaseProperties(t *testing.T) {
	props := baseProperties()

	assert.Contains(t, props, "os")
	assert.Contains(t, props, "arch")
	assert.Contains(t, props, "version")
	assert.Contains(t, props, "dev_build")
}
