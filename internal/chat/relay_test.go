package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/llm"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/storage"
)

type fakeProvider struct {
	reply    string
	err      error
	messages []llm.Message
	opts     llm.ChatOptions
}

func (p *fakeProvider) Chat(ctx context.Context, messages []llm.Message, opts llm.ChatOptions) (*llm.Response, error) {
	p.messages = messages
	p.opts = opts
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: p.reply}, nil
}

func (p *fakeProvider) Name() string         { return "fake" }
func (p *fakeProvider) Models() []string     { return []string{"fake"} }
func (p *fakeProvider) DefaultModel() string { return "fake" }

type memoryStore struct {
	rows    map[string][]models.ChatTurn
	saveErr error
	saves   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: map[string][]models.ChatTurn{}}
}

func (s *memoryStore) key(userID string, subject models.Subject) string {
	return userID + "/" + string(subject)
}

func (s *memoryStore) GetConversation(ctx context.Context, userID string, subject models.Subject) (*models.AiConversation, error) {
	turns, ok := s.rows[s.key(userID, subject)]
	if !ok {
		return nil, nil
	}
	c := &models.AiConversation{UserID: userID, Subject: subject}
	if err := c.SetTurns(turns); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *memoryStore) SaveConversation(ctx context.Context, userID string, subject models.Subject, turns []models.ChatTurn) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.rows[s.key(userID, subject)] = append([]models.ChatTurn(nil), turns...)
	return nil
}

func (s *memoryStore) DeleteConversation(ctx context.Context, userID string, subject models.Subject) error {
	delete(s.rows, s.key(userID, subject))
	return nil
}

type fakeBucket struct {
	uploads map[string]string
	err     error
}

func (b *fakeBucket) Name() string { return "ai-images" }

func (b *fakeBucket) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	if b.err != nil {
		return b.err
	}
	data, _ := io.ReadAll(r)
	if b.uploads == nil {
		b.uploads = map[string]string{}
	}
	b.uploads[key] = string(data)
	return nil
}

func (b *fakeBucket) Remove(ctx context.Context, keys ...string) error { return nil }

func (b *fakeBucket) PublicURL(key string) string {
	return "https://storage.googleapis.com/ai-images/" + key
}

func newTestRelay(p llm.Provider, store ConversationStore, bucket *fakeBucket) *Relay {
	r := NewRelay(p, store, bucket, config.DefaultLLMConfig())
	r.now = func() time.Time { return time.UnixMilli(1700000000000) }
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
	return r
}

func TestRelay_SendSuccess(t *testing.T) {
	provider := &fakeProvider{reply: "F = ma"}
	store := newMemoryStore()
	relay := newTestRelay(provider, store, &fakeBucket{})

	turns, err := relay.Send(context.Background(), "u1", models.SubjectPhysics, nil, "  Newton's second law?  ", nil)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, "Newton's second law?", turns[0].Content)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.Equal(t, "F = ma", turns[1].Content)

	assert.Equal(t, "openai/gpt-4o", provider.opts.Model)
	assert.Equal(t, 0.7, provider.opts.Temperature)
	assert.Equal(t, 2000, provider.opts.MaxTokens)

	require.Len(t, provider.messages, 2)
	assert.Equal(t, llm.RoleSystem, provider.messages[0].Role)
	assert.Contains(t, provider.messages[0].Content, "specializing in physics")

	loaded, err := relay.Load(context.Background(), "u1", models.SubjectPhysics)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestRelay_SendProviderErrorBecomesTurn(t *testing.T) {
	store := newMemoryStore()
	relay := newTestRelay(&fakeProvider{err: errors.New("API Error: 401")}, store, &fakeBucket{})

	turns, err := relay.Send(context.Background(), "u1", models.SubjectMaths, nil, "hi", nil)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.True(t, strings.HasPrefix(turns[1].Content, "I'm having trouble connecting to the AI service."))
	assert.Contains(t, turns[1].Content, "Error details: API Error: 401")
	assert.Equal(t, 1, store.saves, "transcript is persisted on failure too")
	assert.True(t, IsErrorTurn(turns[1]))
	assert.False(t, IsErrorTurn(turns[0]))
}

func TestRelay_SendWithoutProvider(t *testing.T) {
	relay := newTestRelay(nil, newMemoryStore(), &fakeBucket{})
	turns, err := relay.Send(context.Background(), "u1", models.SubjectMaths, nil, "hi", nil)
	require.NoError(t, err)
	assert.Contains(t, turns[1].Content, "no LLM provider configured")
}

func TestRelay_SendImage(t *testing.T) {
	provider := &fakeProvider{reply: "A free body diagram."}
	bucket := &fakeBucket{}
	relay := newTestRelay(provider, newMemoryStore(), bucket)

	turns, err := relay.Send(context.Background(), "u1", models.SubjectPhysics, nil, "", &Image{Name: "fbd.png", Data: strings.NewReader("png")})
	require.NoError(t, err)

	user := turns[0]
	assert.Equal(t, DefaultImagePrompt, user.Content)
	assert.Equal(t, "https://storage.googleapis.com/ai-images/u1/1700000000000-fbd.png", user.ImageURL)
	assert.Equal(t, "png", bucket.uploads["u1/1700000000000-fbd.png"])

	last := provider.messages[len(provider.messages)-1]
	require.Len(t, last.Parts, 2)
	assert.Equal(t, llm.PartText, last.Parts[0].Type)
	assert.Equal(t, llm.PartImageURL, last.Parts[1].Type)
	assert.Equal(t, user.ImageURL, last.Parts[1].ImageURL)
}

func TestRelay_SendImageFromLocalBucketIsInlined(t *testing.T) {
	bucket, err := storage.NewLocalBucket(t.TempDir(), "ai-images")
	require.NoError(t, err)
	provider := &fakeProvider{reply: "A titration curve."}
	relay := NewRelay(provider, newMemoryStore(), bucket, config.DefaultLLMConfig())
	relay.now = func() time.Time { return time.UnixMilli(1700000000000) }

	turns, err := relay.Send(context.Background(), "u1", models.SubjectChemistry, nil, "what is this", &Image{Name: "q.png", Data: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Equal(t, bucket.PublicURL("u1/1700000000000-q.png"), turns[0].ImageURL, "the transcript keeps the stored URL")

	last := provider.messages[len(provider.messages)-1]
	require.Len(t, last.Parts, 2)
	assert.Equal(t, "data:image/png;base64,cG5n", last.Parts[1].ImageURL)

	// Later requests still carry the image while it is inside the window.
	_, err = relay.Send(context.Background(), "u1", models.SubjectChemistry, turns, "and the endpoint?", nil)
	require.NoError(t, err)
	imageTurn := provider.messages[1]
	require.Len(t, imageTurn.Parts, 2)
	assert.Equal(t, "data:image/png;base64,cG5n", imageTurn.Parts[1].ImageURL)
}

func TestRelay_MissingLocalImageSendsTextOnly(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	relay := newTestRelay(provider, newMemoryStore(), &fakeBucket{})
	transcript := []models.ChatTurn{
		{Role: models.RoleUser, Content: "look", ImageURL: "file:///nonexistent/ai-images/u1/1-q.png"},
		{Role: models.RoleAssistant, Content: "seen"},
	}

	_, err := relay.Send(context.Background(), "u1", models.SubjectPhysics, transcript, "again", nil)
	require.NoError(t, err)
	assert.Empty(t, provider.messages[1].Parts)
	assert.Equal(t, "look", provider.messages[1].Content)
}

func TestRelay_SendImageUploadFailureStillSends(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	relay := newTestRelay(provider, newMemoryStore(), &fakeBucket{err: errors.New("bucket down")})

	turns, err := relay.Send(context.Background(), "u1", models.SubjectPhysics, nil, "look", &Image{Name: "a.png", Data: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Empty(t, turns[0].ImageURL)
	assert.Empty(t, provider.messages[len(provider.messages)-1].Parts)
}

func TestRelay_SendRejectsNonImage(t *testing.T) {
	bucket := &fakeBucket{}
	relay := newTestRelay(&fakeProvider{reply: "ok"}, newMemoryStore(), bucket)

	turns, err := relay.Send(context.Background(), "u1", models.SubjectPhysics, nil, "look", &Image{Name: "notes.txt", Data: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Empty(t, turns[0].ImageURL)
	assert.Empty(t, bucket.uploads)
}

func TestRelay_SendSaveFailure(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("db down")
	relay := newTestRelay(&fakeProvider{reply: "ok"}, store, &fakeBucket{})

	turns, err := relay.Send(context.Background(), "u1", models.SubjectPhysics, nil, "hi", nil)
	require.Error(t, err)
	assert.Len(t, turns, 2)
}

func TestRelay_Clear(t *testing.T) {
	store := newMemoryStore()
	relay := newTestRelay(&fakeProvider{reply: "ok"}, store, &fakeBucket{})
	_, err := relay.Send(context.Background(), "u1", models.SubjectPhysics, nil, "hi", nil)
	require.NoError(t, err)

	require.NoError(t, relay.Clear(context.Background(), "u1", models.SubjectPhysics))
	turns, err := relay.Load(context.Background(), "u1", models.SubjectPhysics)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestRelay_Model(t *testing.T) {
	relay := newTestRelay(nil, newMemoryStore(), nil)
	assert.Equal(t, "openai/gpt-4o", relay.Model())
	relay.SetModel("anthropic/claude-3-haiku")
	assert.Equal(t, "anthropic/claude-3-haiku", relay.Model())
	relay.SetModel("")
	assert.Equal(t, "anthropic/claude-3-haiku", relay.Model())
	assert.Len(t, relay.Models(), 6)
}

func TestBuildRequest_Window(t *testing.T) {
	var transcript []models.ChatTurn
	for i := 0; i < 13; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		transcript = append(transcript, models.ChatTurn{Role: role, Content: fmt.Sprintf("m%d", i)})
	}

	messages := BuildRequest(models.SubjectChemistry, transcript)
	require.Len(t, messages, Window+1)
	assert.Equal(t, llm.RoleSystem, messages[0].Role)
	assert.Equal(t, "m3", messages[1].Content)
	assert.Equal(t, "m12", messages[Window].Content)

	short := BuildRequest(models.SubjectChemistry, transcript[:2])
	assert.Len(t, short, 3)
}

func TestBuildRequest_SkipsUnfetchableImages(t *testing.T) {
	messages := BuildRequest(models.SubjectMaths, []models.ChatTurn{
		{Role: models.RoleUser, Content: "local", ImageURL: "file:///tmp/a.png"},
		{Role: models.RoleUser, Content: "hosted", ImageURL: "https://storage.googleapis.com/ai-images/u1/a.png"},
	})
	require.Len(t, messages, 3)
	assert.Empty(t, messages[1].Parts)
	assert.Equal(t, "local", messages[1].Content)
	require.Len(t, messages[2].Parts, 2)
}

func TestSystemPrompt(t *testing.T) {
	chem := SystemPrompt(models.SubjectChemistry)
	assert.Contains(t, chem, "specializing in chemistry")
	assert.Contains(t, chem, "Subject Focus - Chemistry:")
	assert.Contains(t, chem, "IUPAC nomenclature")

	maths := SystemPrompt(models.SubjectMaths)
	assert.Contains(t, maths, "Coordinate Geometry")
	assert.NotContains(t, maths, "IUPAC")
}

func TestQuickPrompts(t *testing.T) {
	prompts := QuickPrompts(models.SubjectMaths)
	require.Len(t, prompts, 6)
	assert.Equal(t, "Explain a fundamental maths concept for JEE", prompts[0])
	assert.Equal(t, "What are common mistakes students make in maths?", prompts[5])
}

func TestCopy(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	require.NoError(t, Copy(models.ChatTurn{Content: "E = mc^2"}))
	assert.Equal(t, "E = mc^2", copied)
}
