package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// OpenRouterBaseURL is the base URL for OpenRouter's OpenAI-compatible API.
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// OpenRouterDefaultModel is the default tutor model.
	OpenRouterDefaultModel = "openai/gpt-4o"

	openRouterReferer = "https://github.com/asteroid-belt/studydeck"
	openRouterTitle   = "Studydeck JEE Tutor"
)

// OpenRouterModels lists the tutor models offered in the model picker.
var OpenRouterModels = []string{
	"openai/gpt-4o",
	"openai/gpt-4o-mini",
	"anthropic/claude-3.5-sonnet",
	"anthropic/claude-3-haiku",
	"google/gemini-pro-1.5",
	"meta-llama/llama-3.2-90b-vision-instruct",
}

// OpenRouterProvider implements the Provider interface for OpenRouter.
type OpenRouterProvider struct {
	client       *openai.Client
	baseURL      string
	defaultModel string
}

// openRouterTransport adds the attribution headers OpenRouter expects.
type openRouterTransport struct {
	base http.RoundTripper
}

func (t *openRouterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("HTTP-Referer", openRouterReferer)
	req.Header.Set("X-Title", openRouterTitle)
	return t.base.RoundTrip(req)
}

// newOpenRouterProvider creates an OpenRouter provider talking to baseURL.
func newOpenRouterProvider(apiKey, model, baseURL string) (*OpenRouterProvider, error) {
	if apiKey == "" {
		return nil, errors.New("OpenRouter API key is required")
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	config.HTTPClient = &http.Client{
		Transport: &openRouterTransport{base: http.DefaultTransport},
	}

	if model == "" {
		model = OpenRouterDefaultModel
	}

	return &OpenRouterProvider{
		client:       openai.NewClientWithConfig(config),
		baseURL:      baseURL,
		defaultModel: model,
	}, nil
}

// Chat sends messages and waits for the complete response.
func (p *OpenRouterProvider) Chat(ctx context.Context, messages []Message, opts ChatOptions) (*Response, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}

	resp, err := p.client.CreateChatCompletion(ctx, buildOpenAIRequest(model, messages, opts))
	if err != nil {
		return nil, fmt.Errorf("openrouter chat error: %w", err)
	}
	return fromOpenAIResponse("openrouter", resp)
}

// Name returns the provider name.
func (p *OpenRouterProvider) Name() string {
	return string(ProviderOpenRouter)
}

// Models returns available model IDs for this provider.
func (p *OpenRouterProvider) Models() []string {
	return OpenRouterModels
}

// DefaultModel returns the default model for this provider.
func (p *OpenRouterProvider) DefaultModel() string {
	return p.defaultModel
}

// BaseURL returns the configured API base URL.
func (p *OpenRouterProvider) BaseURL() string {
	return p.baseURL
}
