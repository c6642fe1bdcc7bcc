// Package contextbuild assembles the context window sent to the completion
// API for each request, either as a fixed tail window of the conversation
// history or as a single retrieval-augmented prompt.
package contextbuild

import (
	"context"

	"github.com/acampora/minerva/internal/domain"
)

// Strategy produces the message sequence for one completion request.
// history is the in-memory turn list of the active conversation, already
// ending with the user's latest turn; query is that turn's text.
type Strategy interface {
	BuildMessages(ctx context.Context, history []*domain.Turn, query string) []domain.Message
}

// BuildMessages takes the most recent maxTurns entries of the history
// (0 means unlimited), preserves chronological order, and prepends a single
// system message when systemPrompt is non-empty. Pure function.
func BuildMessages(history []*domain.Turn, maxTurns int, systemPrompt string) []domain.Message {
	window := history
	if maxTurns > 0 && len(window) > maxTurns {
		window = window[len(window)-maxTurns:]
	}

	out := make([]domain.Message, 0, len(window)+1)
	if systemPrompt != "" {
		out = append(out, domain.Message{Role: domain.RoleSystem, Content: systemPrompt})
	}
	for _, turn := range window {
		out = append(out, domain.Message{Role: turn.Role, Content: turn.Text})
	}
	return out
}

// WindowStrategy replays a fixed tail window of the conversation history.
type WindowStrategy struct {
	MaxTurns     int
	SystemPrompt string
}

func (s WindowStrategy) BuildMessages(ctx context.Context, history []*domain.Turn, query string) []domain.Message {
	return BuildMessages(history, s.MaxTurns, s.SystemPrompt)
}
