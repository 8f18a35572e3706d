package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI model constants.
const (
	OpenAIModelGPT4oMini   = "gpt-4o-mini"
	OpenAIModelGPT4o       = "gpt-4o"
	OpenAIModelGPT4Turbo   = "gpt-4-turbo"
	OpenAIDefaultModel     = OpenAIModelGPT4o
	OpenAIDefaultMaxTokens = 2000
)

// openAIModels lists available OpenAI models.
var openAIModels = []string{
	OpenAIModelGPT4o,
	OpenAIModelGPT4oMini,
	OpenAIModelGPT4Turbo,
}

// OpenAIClientInterface abstracts the OpenAI client for testing.
type OpenAIClientInterface interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider implements the Provider interface for OpenAI.
type OpenAIProvider struct {
	client OpenAIClientInterface
	model  string
}

// NewOpenAIProviderWithClient creates a provider with a custom client interface (for testing).
func NewOpenAIProviderWithClient(client OpenAIClientInterface, model string) *OpenAIProvider {
	if model == "" {
		model = OpenAIDefaultModel
	}
	return &OpenAIProvider{client: client, model: openAINativeModel(model)}
}

// newOpenAIProvider creates a new OpenAI provider with the given API key and model.
// OpenRouter-style ids ("openai/gpt-4o") are accepted.
func newOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	if model == "" {
		model = OpenAIDefaultModel
	}
	model = openAINativeModel(model)

	if !isValidOpenAIModel(model) {
		return nil, fmt.Errorf("invalid OpenAI model: %s (available: %v)", model, openAIModels)
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(openai.DefaultConfig(apiKey)),
		model:  model,
	}, nil
}

// openAINativeModel strips the "openai/" routing prefix.
func openAINativeModel(model string) string {
	return strings.TrimPrefix(model, "openai/")
}

func isValidOpenAIModel(model string) bool {
	for _, m := range openAIModels {
		if m == model {
			return true
		}
	}
	return false
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return string(ProviderOpenAI)
}

// Models returns available model IDs.
func (p *OpenAIProvider) Models() []string {
	return openAIModels
}

// DefaultModel returns the configured model.
func (p *OpenAIProvider) DefaultModel() string {
	return p.model
}

// Chat sends messages and waits for the complete response.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message, opts ChatOptions) (*Response, error) {
	model := p.model
	if opts.Model != "" {
		model = openAINativeModel(opts.Model)
		if !isValidOpenAIModel(model) {
			model = p.model
		}
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = OpenAIDefaultMaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, buildOpenAIRequest(model, messages, opts))
	if err != nil {
		return nil, fmt.Errorf("openai chat error: %w", err)
	}
	return fromOpenAIResponse("openai", resp)
}

// toOpenAIMessages converts generic messages. Multi-part messages use
// MultiContent; the two content fields are mutually exclusive.
func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		if len(msg.Parts) == 0 {
			out[i] = openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
			continue
		}
		parts := make([]openai.ChatMessagePart, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			switch p.Type {
			case PartImageURL:
				parts = append(parts, openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: p.ImageURL},
				})
			default:
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: p.Text,
				})
			}
		}
		out[i] = openai.ChatCompletionMessage{Role: msg.Role, MultiContent: parts}
	}
	return out
}

func buildOpenAIRequest(model string, messages []Message, opts ChatOptions) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		req.Temperature = float32(opts.Temperature)
	}
	return req
}

func fromOpenAIResponse(provider string, resp openai.ChatCompletionResponse) (*Response, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", provider)
	}
	choice := resp.Choices[0]
	return &Response{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
