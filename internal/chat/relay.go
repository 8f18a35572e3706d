// Package chat relays tutor conversations to the completion API and keeps
// one persisted transcript per user and subject.
package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/llm"
	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/storage"
)

// Window is the number of most recent turns sent with each request.
const Window = 10

// DefaultImagePrompt replaces empty text when only an image is sent.
const DefaultImagePrompt = "Please analyze this image"

const (
	errorTurnPrefix = "I'm having trouble connecting to the AI service."
	errorTurnFormat = errorTurnPrefix + " Please check your OpenRouter API key and try again.\n\nError details: %s"
)

// ConversationStore persists transcripts.
type ConversationStore interface {
	GetConversation(ctx context.Context, userID string, subject models.Subject) (*models.AiConversation, error)
	SaveConversation(ctx context.Context, userID string, subject models.Subject, turns []models.ChatTurn) error
	DeleteConversation(ctx context.Context, userID string, subject models.Subject) error
}

// Image is an attachment for a user turn.
type Image struct {
	Name   string
	Data   io.Reader
	Length int64
}

// Relay sends tutor turns and keeps transcripts.
type Relay struct {
	provider llm.Provider
	store    ConversationStore
	images   storage.Bucket
	opts     llm.ChatOptions

	now   func() time.Time
	newID func() string
}

// NewRelay creates a relay. provider may be nil when no API key is set; every
// send then produces an error turn.
func NewRelay(provider llm.Provider, store ConversationStore, images storage.Bucket, cfg config.LLMConfig) *Relay {
	return &Relay{
		provider: provider,
		store:    store,
		images:   images,
		opts: llm.ChatOptions{
			Model:       cfg.DefaultModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Model returns the model used for requests.
func (r *Relay) Model() string {
	return r.opts.Model
}

// SetModel selects the model for subsequent requests.
func (r *Relay) SetModel(model string) {
	if model != "" {
		r.opts.Model = model
	}
}

// Models returns the selectable models.
func (r *Relay) Models() []string {
	return llm.OpenRouterModels
}

// Load returns the stored transcript, or an empty one.
func (r *Relay) Load(ctx context.Context, userID string, subject models.Subject) ([]models.ChatTurn, error) {
	c, err := r.store.GetConversation(ctx, userID, subject)
	if err != nil {
		log.Warnw("load conversation failed", "op", "chat.load", "user", userID, "subject", subject, "error", err)
		return []models.ChatTurn{}, fmt.Errorf("load conversation: %w", err)
	}
	if c == nil {
		return []models.ChatTurn{}, nil
	}
	return c.Turns()
}

// Clear deletes the stored transcript.
func (r *Relay) Clear(ctx context.Context, userID string, subject models.Subject) error {
	if err := r.store.DeleteConversation(ctx, userID, subject); err != nil {
		log.Warnw("clear conversation failed", "op", "chat.clear", "user", userID, "subject", subject, "error", err)
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}

// BuildRequest returns the persona followed by the last Window turns. Images
// become a text and image_url pair; an image URL a remote model cannot fetch
// is left out.
func BuildRequest(subject models.Subject, transcript []models.ChatTurn) []llm.Message {
	start := 0
	if len(transcript) > Window {
		start = len(transcript) - Window
	}
	messages := make([]llm.Message, 0, Window+1)
	messages = append(messages, llm.NewSystemMessage(SystemPrompt(subject)))
	for _, turn := range transcript[start:] {
		if turn.ImageURL != "" && storage.IsRemoteURL(turn.ImageURL) {
			msg := llm.NewUserImageMessage(turn.Content, turn.ImageURL)
			msg.Role = turn.Role
			messages = append(messages, msg)
			continue
		}
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	return messages
}

// Send appends a user turn and the tutor's reply to transcript and persists
// the result. Provider failures become an assistant error turn and are not
// returned. The returned error reports only a failed save; the transcript is
// valid either way.
func (r *Relay) Send(ctx context.Context, userID string, subject models.Subject, transcript []models.ChatTurn, text string, image *Image) ([]models.ChatTurn, error) {
	var imageURL string
	if image != nil {
		url, err := r.uploadImage(ctx, userID, image)
		if err != nil {
			log.Warnw("image upload failed", "op", "chat.upload", "user", userID, "error", err)
		} else {
			imageURL = url
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = DefaultImagePrompt
	}

	turns := make([]models.ChatTurn, 0, len(transcript)+2)
	turns = append(turns, transcript...)
	turns = append(turns, models.ChatTurn{
		ID:        r.newID(),
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: r.now(),
		Subject:   subject,
		ImageURL:  imageURL,
	})

	reply, err := r.complete(ctx, subject, turns)
	if err != nil {
		log.Warnw("tutor request failed", "op", "chat.send", "user", userID, "subject", subject, "model", r.opts.Model, "error", err)
		reply = fmt.Sprintf(errorTurnFormat, err.Error())
	}
	turns = append(turns, models.ChatTurn{
		ID:        r.newID(),
		Role:      models.RoleAssistant,
		Content:   reply,
		Timestamp: r.now(),
		Subject:   subject,
	})

	if err := r.store.SaveConversation(ctx, userID, subject, turns); err != nil {
		log.Warnw("save conversation failed", "op", "chat.save", "user", userID, "subject", subject, "error", err)
		return turns, fmt.Errorf("save conversation: %w", err)
	}
	return turns, nil
}

func (r *Relay) complete(ctx context.Context, subject models.Subject, turns []models.ChatTurn) (string, error) {
	if r.provider == nil {
		return "", fmt.Errorf("no LLM provider configured")
	}
	resp, err := r.provider.Chat(ctx, BuildRequest(subject, r.outbound(turns)), r.opts)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// outbound returns the request window with local image URLs inlined as data
// URLs. The transcript itself keeps the stored URLs.
func (r *Relay) outbound(turns []models.ChatTurn) []models.ChatTurn {
	start := 0
	if len(turns) > Window {
		start = len(turns) - Window
	}
	window := append([]models.ChatTurn(nil), turns[start:]...)
	for i := range window {
		u := window[i].ImageURL
		if u == "" || storage.IsRemoteURL(u) {
			continue
		}
		inlined, err := storage.InlineURL(u)
		if err != nil {
			log.Warnw("inline image failed", "op", "chat.inline", "url", u, "error", err)
			window[i].ImageURL = ""
			continue
		}
		window[i].ImageURL = inlined
	}
	return window
}

func (r *Relay) uploadImage(ctx context.Context, userID string, image *Image) (string, error) {
	if r.images == nil {
		return "", fmt.Errorf("image storage is not configured")
	}
	contentType := storage.ContentTypeFor(image.Name)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%s is not an image", image.Name)
	}
	key := storage.ObjectKey(userID, r.now(), image.Name)
	if err := r.images.Upload(ctx, key, image.Data, contentType); err != nil {
		return "", err
	}
	return r.images.PublicURL(key), nil
}

// IsErrorTurn reports whether turn is the assistant's stand-in for a failed
// completion.
func IsErrorTurn(turn models.ChatTurn) bool {
	return turn.Role == models.RoleAssistant && strings.HasPrefix(turn.Content, errorTurnPrefix)
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// Copy places a turn's content on the system clipboard.
func Copy(turn models.ChatTurn) error {
	return writeClipboard(turn.Content)
}
