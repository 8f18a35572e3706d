package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/studydeck/internal/config"
)

func TestDetectProvider_Order(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LLMConfig
		want string
	}{
		{"none", config.LLMConfig{}, ""},
		{"anthropic only", config.LLMConfig{AnthropicAPIKey: "a"}, "anthropic"},
		{"openai over anthropic", config.LLMConfig{AnthropicAPIKey: "a", OpenAIAPIKey: "o"}, "openai"},
		{"openrouter first", config.LLMConfig{AnthropicAPIKey: "a", OpenAIAPIKey: "o", OpenRouterAPIKey: "r"}, "openrouter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectProvider(tt.cfg))
		})
	}
}

func TestNewProvider_NoKeys(t *testing.T) {
	_, err := NewProvider(config.LLMConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM provider configured")
	assert.False(t, IsConfigured(config.LLMConfig{}))
}

func TestNewProvider_DefaultsToOpenRouterTutorModel(t *testing.T) {
	cfg := config.DefaultLLMConfig()
	cfg.OpenRouterAPIKey = "sk-or"

	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", p.Name())
	assert.Equal(t, "openai/gpt-4o", p.DefaultModel())
}

func TestNewProvider_MapsTutorModelForNativeProviders(t *testing.T) {
	cfg := config.DefaultLLMConfig()
	cfg.OpenAIAPIKey = "sk"
	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, OpenAIModelGPT4o, p.DefaultModel())

	cfg = config.DefaultLLMConfig()
	cfg.AnthropicAPIKey = "sk-ant"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())
	assert.Equal(t, DefaultAnthropicModel, p.DefaultModel())
}

func TestNewProviderWithOverrides(t *testing.T) {
	cfg := config.LLMConfig{OpenRouterAPIKey: "r"}

	_, err := NewProviderWithOverrides(cfg, "openai", "")
	assert.EqualError(t, err, "OPENAI_API_KEY not set")

	_, err = NewProviderWithOverrides(cfg, "cohere", "")
	assert.Error(t, err)

	p, err := NewProviderWithOverrides(cfg, "", "anthropic/claude-3-haiku")
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", p.DefaultModel())
}

func TestMessageText(t *testing.T) {
	assert.Equal(t, "plain", NewUserMessage("plain").Text())
	assert.Equal(t, "look", NewUserImageMessage("look", "https://x/y.png").Text())
}
