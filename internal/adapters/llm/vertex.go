package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/acampora/minerva/internal/domain"
)

// VertexClient implements domain.CompletionClient on Vertex AI (Gemini),
// the alternate completion backend for GCP deployments.
type VertexClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

func NewVertexClient(ctx context.Context, projectID, location, modelName string, temperature float32) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("project and location are required for the vertex backend")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClient{
		client:      client,
		modelName:   modelName,
		temperature: temperature,
	}, nil
}

// Complete maps the message sequence onto Gemini contents. A leading
// system message becomes the system instruction.
func (v *VertexClient) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	var system string
	var contents []*genai.Content

	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			system = m.Content
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	temp := v.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", &domain.NetworkError{Err: fmt.Errorf("vertex generate content: %w", err)}
	}

	text := res.Text()
	if text == "" {
		return "", &domain.APIError{StatusCode: 200, Body: "vertex returned empty text"}
	}
	return text, nil
}
