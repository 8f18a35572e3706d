package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicModels lists available Anthropic models.
var AnthropicModels = []string{
	"claude-3-5-sonnet-20241022",
	"claude-3-haiku-20240307",
	"claude-3-5-haiku-20241022",
	"claude-3-opus-20240229",
}

// DefaultAnthropicModel is the native id of the default tutor model.
const DefaultAnthropicModel = "claude-3-5-sonnet-20241022"

// anthropicAliases maps OpenRouter ids to native model ids.
var anthropicAliases = map[string]string{
	"anthropic/claude-3.5-sonnet": "claude-3-5-sonnet-20241022",
	"anthropic/claude-3-haiku":    "claude-3-haiku-20240307",
	"anthropic/claude-3.5-haiku":  "claude-3-5-haiku-20241022",
	"anthropic/claude-3-opus":     "claude-3-opus-20240229",
}

// AnthropicClientInterface defines the interface for Anthropic API client.
// This allows for mocking in tests.
type AnthropicClientInterface interface {
	CreateMessage(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

type anthropicClientWrapper struct {
	client anthropic.Client
}

func (w *anthropicClientWrapper) CreateMessage(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return w.client.Messages.New(ctx, params)
}

// AnthropicProvider implements Provider using Anthropic's API.
type AnthropicProvider struct {
	client AnthropicClientInterface
	model  string
}

// NewAnthropicProviderImpl creates a new Anthropic provider.
// Non-Anthropic OpenRouter ids (such as the default "openai/gpt-4o") fall
// back to DefaultAnthropicModel.
func NewAnthropicProviderImpl(apiKey, model string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model = anthropicNativeModel(model)
	if !isValidAnthropicModel(model) {
		return nil, fmt.Errorf("invalid Anthropic model: %s", model)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicProvider{
		client: &anthropicClientWrapper{client: client},
		model:  model,
	}, nil
}

// NewAnthropicProviderWithClient creates an Anthropic provider with a custom client.
func NewAnthropicProviderWithClient(client AnthropicClientInterface, model string) *AnthropicProvider {
	return &AnthropicProvider{
		client: client,
		model:  anthropicNativeModel(model),
	}
}

func anthropicNativeModel(model string) string {
	if model == "" {
		return DefaultAnthropicModel
	}
	if native, ok := anthropicAliases[model]; ok {
		return native
	}
	if isValidAnthropicModel(model) {
		return model
	}
	if strings.Contains(model, "/") {
		return DefaultAnthropicModel
	}
	return model
}

func isValidAnthropicModel(model string) bool {
	for _, m := range AnthropicModels {
		if m == model {
			return true
		}
	}
	return false
}

// Chat sends messages and waits for the complete response.
func (p *AnthropicProvider) Chat(ctx context.Context, messages []Message, opts ChatOptions) (*Response, error) {
	model := p.model
	if opts.Model != "" {
		model = anthropicNativeModel(opts.Model)
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}

	anthropicMessages, systemPrompt := p.convertMessages(messages)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  anthropicMessages,
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	msg, err := p.client.CreateMessage(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic chat: %w", err)
	}

	// Check the Type field directly so mocked responses without raw JSON work.
	var content string
	for _, block := range msg.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &Response{
		Content:      content,
		Model:        string(msg.Model),
		FinishReason: string(msg.StopReason),
		Usage: Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}

// convertMessages converts generic messages to Anthropic format.
// System messages are extracted and returned separately since Anthropic
// uses a dedicated system parameter.
func (p *AnthropicProvider) convertMessages(messages []Message) ([]anthropic.MessageParam, string) {
	var anthropicMessages []anthropic.MessageParam
	var systemPrompt string

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			systemPrompt = msg.Text()
		case RoleUser:
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(contentBlocks(msg)...))
		case RoleAssistant:
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(contentBlocks(msg)...))
		}
	}

	return anthropicMessages, systemPrompt
}

func contentBlocks(msg Message) []anthropic.ContentBlockParamUnion {
	if len(msg.Parts) == 0 {
		return []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content)}
	}
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		switch part.Type {
		case PartImageURL:
			blocks = append(blocks, anthropic.NewImageBlock(anthropic.URLImageSourceParam{URL: part.ImageURL}))
		default:
			blocks = append(blocks, anthropic.NewTextBlock(part.Text))
		}
	}
	return blocks
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return string(ProviderAnthropic)
}

// Models returns available models.
func (p *AnthropicProvider) Models() []string {
	return AnthropicModels
}

// DefaultModel returns the configured model.
func (p *AnthropicProvider) DefaultModel() string {
	return p.model
}
