package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOpenAIClient implements OpenAIClientInterface for testing.
type mockOpenAIClient struct {
	completionResponse openai.ChatCompletionResponse
	completionErr      error
	capturedReq        openai.ChatCompletionRequest
}

func (m *mockOpenAIClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.capturedReq = req
	if m.completionErr != nil {
		return openai.ChatCompletionResponse{}, m.completionErr
	}
	return m.completionResponse, nil
}

func TestNewOpenAIProvider(t *testing.T) {
	provider, err := newOpenAIProvider("test-api-key", "")
	require.NoError(t, err)
	assert.Equal(t, OpenAIDefaultModel, provider.model)

	provider, err = newOpenAIProvider("test-api-key", "openai/gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, OpenAIModelGPT4oMini, provider.model)

	_, err = newOpenAIProvider("", "")
	assert.EqualError(t, err, "OpenAI API key is required")

	_, err = newOpenAIProvider("k", "gpt-2")
	assert.Error(t, err)
}

func TestOpenAIProvider_Chat(t *testing.T) {
	client := &mockOpenAIClient{completionResponse: openai.ChatCompletionResponse{
		Model:   "gpt-4o",
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "42"}, FinishReason: "stop"}},
	}}
	provider := NewOpenAIProviderWithClient(client, "")

	resp, err := provider.Chat(context.Background(), []Message{
		NewSystemMessage("tutor"),
		NewUserImageMessage("solve", "https://x/y.png"),
	}, ChatOptions{Model: "openai/gpt-4o-mini", Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Content)

	req := client.capturedReq
	assert.Equal(t, OpenAIModelGPT4oMini, req.Model)
	assert.Equal(t, OpenAIDefaultMaxTokens, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "tutor", req.Messages[0].Content)
	assert.Empty(t, req.Messages[1].Content)
	require.Len(t, req.Messages[1].MultiContent, 2)
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, req.Messages[1].MultiContent[1].Type)
	assert.Equal(t, "https://x/y.png", req.Messages[1].MultiContent[1].ImageURL.URL)
}

func TestOpenAIProvider_ChatUnknownModelFallsBack(t *testing.T) {
	client := &mockOpenAIClient{completionResponse: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "ok"}}},
	}}
	provider := NewOpenAIProviderWithClient(client, OpenAIModelGPT4o)

	_, err := provider.Chat(context.Background(), []Message{NewUserMessage("hi")}, ChatOptions{Model: "google/gemini-pro-1.5"})
	require.NoError(t, err)
	assert.Equal(t, OpenAIModelGPT4o, client.capturedReq.Model)
}

func TestOpenAIProvider_ChatError(t *testing.T) {
	provider := NewOpenAIProviderWithClient(&mockOpenAIClient{completionErr: errors.New("boom")}, "")
	_, err := provider.Chat(context.Background(), []Message{NewUserMessage("hi")}, ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
