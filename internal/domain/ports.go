package domain

import "context"

// TurnStore defines turn persistence. The backing service serializes writes
// per (user, conversation); appends are create-only and keyed by the turn
// ID, so a retried append of the same turn is a no-op.
type TurnStore interface {
	Append(ctx context.Context, turn *Turn) error
	ListTurns(ctx context.Context, userID UserID, conversationID ConversationID) ([]*Turn, error)
	ListConversations(ctx context.Context, userID UserID) ([]*ConversationSummary, error)
}

// CompletionClient sends an assembled message sequence to the external
// completion endpoint. Failures are *APIError or *NetworkError; no retry
// is performed here.
type CompletionClient interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Retriever returns the texts of past exchanges semantically similar to a
// query, best match first.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]string, error)
}

// MemoryIndexer stores one exchange document into the retrieval memory.
type MemoryIndexer interface {
	Index(ctx context.Context, document string) error
}
