package llm

import (
	"context"
	"fmt"

	"github.com/acampora/minerva/internal/domain"
)

// MockClient is a deterministic completion client for local mode and tests.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	if len(messages) == 0 {
		return "", &domain.APIError{StatusCode: 400, Body: "no messages supplied"}
	}
	last := messages[len(messages)-1]
	return fmt.Sprintf("You asked %q. Let's work through it step by step.", last.Content), nil
}
