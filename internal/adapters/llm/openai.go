package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/acampora/minerva/internal/domain"
)

// OpenAIClient implements domain.CompletionClient against any
// OpenAI-compatible chat completions endpoint (Groq by default).
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIClient builds a client for the given endpoint. baseURL may be
// empty to use the library default.
func NewOpenAIClient(apiKey, baseURL, model string, temperature float32) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("completion API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}, nil
}

// Complete sends the message sequence and returns the generated reply.
// Non-success statuses surface as *domain.APIError with the status code and
// response body; transport failures as *domain.NetworkError. No retry.
func (c *OpenAIClient) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    toChatMessages(messages),
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &domain.APIError{StatusCode: 200, Body: "response contained no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(messages []domain.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case domain.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		case domain.RoleSystem:
			role = openai.ChatMessageRoleSystem
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.APIError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.APIError{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	return &domain.NetworkError{Err: err}
}
