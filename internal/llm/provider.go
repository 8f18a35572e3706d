// Package llm provides interfaces and implementations for LLM providers.
package llm

import (
	"context"
	"fmt"

	"github.com/asteroid-belt/studydeck/internal/config"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Chat sends messages and waits for the complete response.
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (*Response, error)

	// Name returns the provider name (e.g., "openrouter", "anthropic").
	Name() string

	// Models returns available model IDs for this provider.
	Models() []string

	// DefaultModel returns the default model for this provider.
	DefaultModel() string
}

// Roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Part types.
const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// Part is one element of a multi-part message.
type Part struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Message represents a chat message. When Parts is non-empty it replaces
// Content.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Parts   []Part `json:"parts,omitempty"`
}

// Text returns the message text, joining text parts if needed.
func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	var s string
	for _, p := range m.Parts {
		if p.Type == PartText {
			s += p.Text
		}
	}
	return s
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewUserImageMessage creates a user message with text and an image.
func NewUserImageMessage(text, imageURL string) Message {
	return Message{Role: RoleUser, Parts: []Part{
		{Type: PartText, Text: text},
		{Type: PartImageURL, ImageURL: imageURL},
	}}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ChatOptions configures a chat request.
type ChatOptions struct {
	Model       string  // Model to use (empty = provider default)
	MaxTokens   int     // Maximum tokens in response
	Temperature float64 // Sampling temperature (0-1)
}

// Response represents a complete chat response.
type Response struct {
	Content      string // Response content
	Model        string // Model used
	FinishReason string // Why generation stopped
	Usage        Usage  // Token usage
}

// Usage tracks token usage for a request.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ProviderType represents supported LLM providers.
type ProviderType string

const (
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
)

// NewProvider creates a provider based on configuration.
// It auto-detects the provider if not explicitly set.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	return NewProviderWithOverrides(cfg, "", "")
}

// NewProviderWithOverrides creates a provider with optional overrides.
func NewProviderWithOverrides(cfg config.LLMConfig, providerOverride, modelOverride string) (Provider, error) {
	providerName := providerOverride
	if providerName == "" {
		providerName = cfg.DefaultProvider
	}

	if providerName == "" {
		providerName = detectProvider(cfg)
	}

	if providerName == "" {
		return nil, fmt.Errorf("no LLM provider configured: set OPENROUTER_API_KEY, OPENAI_API_KEY, or ANTHROPIC_API_KEY")
	}

	model := modelOverride
	if model == "" {
		model = cfg.DefaultModel
	}

	switch ProviderType(providerName) {
	case ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
		}
		return NewOpenRouterProvider(cfg.OpenRouterAPIKey, model)

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return NewOpenAIProvider(cfg.OpenAIAPIKey, model)

	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		return NewAnthropicProvider(cfg.AnthropicAPIKey, model)

	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openrouter, openai, anthropic)", providerName)
	}
}

// detectProvider determines which provider to use based on available API keys.
// OpenRouter comes first because the tutor model ids are OpenRouter ids.
func detectProvider(cfg config.LLMConfig) string {
	if cfg.OpenRouterAPIKey != "" {
		return string(ProviderOpenRouter)
	}
	if cfg.OpenAIAPIKey != "" {
		return string(ProviderOpenAI)
	}
	if cfg.AnthropicAPIKey != "" {
		return string(ProviderAnthropic)
	}
	return ""
}

// IsConfigured returns true if any LLM provider is configured.
func IsConfigured(cfg config.LLMConfig) bool {
	return cfg.AnthropicAPIKey != "" || cfg.OpenAIAPIKey != "" || cfg.OpenRouterAPIKey != ""
}

// NewAnthropicProvider creates an Anthropic provider.
func NewAnthropicProvider(apiKey, model string) (Provider, error) {
	return NewAnthropicProviderImpl(apiKey, model)
}

// NewOpenAIProvider creates an OpenAI provider.
func NewOpenAIProvider(apiKey, model string) (Provider, error) {
	return newOpenAIProvider(apiKey, model)
}

// NewOpenRouterProvider creates an OpenRouter provider.
func NewOpenRouterProvider(apiKey, model string) (Provider, error) {
	return newOpenRouterProvider(apiKey, model, OpenRouterBaseURL)
}
