package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/studydeck/internal/chat"
	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/llm"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/testutil"
)

type echoProvider struct {
	models []string
}

func (p *echoProvider) Chat(_ context.Context, messages []llm.Message, opts llm.ChatOptions) (*llm.Response, error) {
	p.models = append(p.models, opts.Model)
	return &llm.Response{Content: "Answer to: " + messages[len(messages)-1].Text(), Model: opts.Model}, nil
}

func (p *echoProvider) Name() string         { return "echo" }
func (p *echoProvider) Models() []string     { return []string{"m1"} }
func (p *echoProvider) DefaultModel() string { return "m1" }

var tutorScope = Scope{UserID: "u1", Subject: models.SubjectPhysics}

func loadedTutor(t *testing.T, provider llm.Provider) (*TutorView, *chat.Relay) {
	t.Helper()
	relay := chat.NewRelay(provider, testutil.NewDB(t), nil, config.LLMConfig{DefaultModel: "m1"})
	v := NewTutorView(relay, noTelemetry())
	v.SetSize(100, 40)
	v.HandleLoaded(v.Load(tutorScope)().(TutorLoadedMsg))
	require.NoError(t, v.err)
	return v, relay
}

func TestTutorView_EmptyShowsQuickPrompts(t *testing.T) {
	v, _ := loadedTutor(t, &echoProvider{})
	out := v.View()
	assert.Contains(t, out, "Physics tutor")
	assert.Contains(t, out, "m1")
	assert.Contains(t, out, chat.QuickPrompts(models.SubjectPhysics)[0])
	assert.False(t, v.Typing())
}

func TestTutorView_QuickPrompt(t *testing.T) {
	v, relay := loadedTutor(t, &echoProvider{})
	prompt := chat.QuickPrompts(models.SubjectPhysics)[0]

	cmd := v.Update(keyPress("1"))
	require.NotNil(t, cmd)
	assert.Contains(t, v.transcript(), "Tutor is thinking")
	assert.Nil(t, v.Update(keyPress("2")), "one request at a time")

	v.HandleReply(cmd().(TutorReplyMsg))
	require.NoError(t, v.err)
	require.Len(t, v.turns, 2)
	assert.Equal(t, models.RoleUser, v.turns[0].Role)
	assert.Equal(t, prompt, v.turns[0].Content)
	assert.Equal(t, "Answer to: "+prompt, v.turns[1].Content)
	assert.Empty(t, v.pending)

	saved, err := relay.Load(context.Background(), "u1", models.SubjectPhysics)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestTutorView_Compose(t *testing.T) {
	v, _ := loadedTutor(t, &echoProvider{})

	v.Update(keyPress("i"))
	assert.True(t, v.Typing())
	assert.Nil(t, v.Update(keyPress("enter")), "empty messages are not sent")

	for _, k := range typeText("What is torque?") {
		v.Update(k)
	}
	cmd := v.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	assert.Empty(t, v.input.Value())
	v.HandleReply(cmd().(TutorReplyMsg))
	require.Len(t, v.turns, 2)
	assert.Equal(t, "What is torque?", v.turns[0].Content)

	v.Update(keyPress("esc"))
	assert.False(t, v.Typing())
}

func TestTutorView_NoProviderGivesErrorTurn(t *testing.T) {
	v, _ := loadedTutor(t, nil)

	cmd := v.Update(keyPress("1"))
	require.NotNil(t, cmd)
	v.HandleReply(cmd().(TutorReplyMsg))

	require.Len(t, v.turns, 2)
	assert.True(t, chat.IsErrorTurn(v.turns[1]))
	assert.NoError(t, v.err, "provider failures live in the transcript")
}

func TestTutorView_CopyLastReply(t *testing.T) {
	v, _ := loadedTutor(t, &echoProvider{})
	v.HandleReply(v.Update(keyPress("1"))().(TutorReplyMsg))

	var copied models.ChatTurn
	v.copyTurn = func(turn models.ChatTurn) error {
		copied = turn
		return nil
	}
	v.Update(keyPress("c"))
	assert.Equal(t, models.RoleAssistant, copied.Role)
	assert.Contains(t, v.View(), "Reply copied to clipboard")

	v.copyTurn = func(models.ChatTurn) error { return assert.AnError }
	v.Update(keyPress("c"))
	assert.ErrorIs(t, v.err, assert.AnError)
}

func TestTutorView_Clear(t *testing.T) {
	v, relay := loadedTutor(t, &echoProvider{})
	v.HandleReply(v.Update(keyPress("1"))().(TutorReplyMsg))

	v.Update(keyPress("x"))
	require.NotNil(t, v.confirm)
	assert.True(t, v.Typing())

	cmd := v.Update(keyPress("y"))
	require.NotNil(t, cmd)
	v.HandleCleared(cmd().(TutorClearedMsg))

	assert.Empty(t, v.turns)
	assert.Contains(t, v.View(), "Conversation cleared")
	saved, err := relay.Load(context.Background(), "u1", models.SubjectPhysics)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestTutorView_ClearNeedsTurns(t *testing.T) {
	v, _ := loadedTutor(t, &echoProvider{})
	v.Update(keyPress("x"))
	assert.Nil(t, v.confirm)
}

func TestTutorView_PickModel(t *testing.T) {
	provider := &echoProvider{}
	v, relay := loadedTutor(t, provider)

	v.Update(keyPress("m"))
	assert.True(t, v.Typing())
	assert.Contains(t, v.View(), "Choose a model")
	v.Update(keyPress("down"))
	v.Update(keyPress("enter"))

	assert.False(t, v.Typing())
	assert.Equal(t, llm.OpenRouterModels[1], v.model)
	assert.Equal(t, llm.OpenRouterModels[1], relay.Model())

	v.HandleReply(v.Update(keyPress("1"))().(TutorReplyMsg))
	assert.Equal(t, []string{llm.OpenRouterModels[1]}, provider.models)
}

func TestTutorView_AttachMissingFile(t *testing.T) {
	v, _ := loadedTutor(t, &echoProvider{})

	v.Update(keyPress("a"))
	for _, k := range typeText("/does/not/exist.png") {
		v.Update(k)
	}
	assert.Nil(t, v.Update(keyPress("enter")))
	assert.Error(t, v.err)
	assert.True(t, v.Typing(), "stays in attach mode")
	assert.Empty(t, v.image)

	v.Update(keyPress("esc"))
	assert.False(t, v.Typing())
}

func TestTutorView_StaleReplyIgnored(t *testing.T) {
	v, _ := loadedTutor(t, &echoProvider{})
	cmd := v.Update(keyPress("1"))
	require.NotNil(t, cmd)
	msg := cmd().(TutorReplyMsg)

	msg.Scope = Scope{UserID: "u1", Subject: models.SubjectChemistry}
	v.HandleReply(msg)
	assert.Empty(t, v.turns)
	assert.False(t, v.gate.busy)
}
