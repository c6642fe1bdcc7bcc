// Package chat orchestrates one user submission end to end: persist the
// user turn, assemble the context window, call the completion client, and
// persist the reply.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acampora/minerva/internal/app/contextbuild"
	"github.com/acampora/minerva/internal/app/session"
	"github.com/acampora/minerva/internal/domain"
	"github.com/acampora/minerva/internal/observability"
)

// Greeting is shown by the boundary when a user identifies. It is not a
// stored turn; assistant turns only ever come from completion replies.
const Greeting = "Hi, how may I help you?"

type Service struct {
	store      domain.TurnStore
	completion domain.CompletionClient
	strategy   contextbuild.Strategy
	indexer    domain.MemoryIndexer // optional, retrieval mode only
	now        func() time.Time
	newID      func() string
}

func NewService(
	store domain.TurnStore,
	completion domain.CompletionClient,
	strategy contextbuild.Strategy,
	indexer domain.MemoryIndexer,
) *Service {
	return &Service{
		store:      store,
		completion: completion,
		strategy:   strategy,
		indexer:    indexer,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// NewSession returns a fresh unidentified session bound to the service's
// turn store.
func (s *Service) NewSession() *session.Session {
	return session.New(s.store)
}

type SubmitOutput struct {
	UserTurn      *domain.Turn
	AssistantTurn *domain.Turn
}

// Submit runs the orchestration pipeline for one user input. The user turn
// is durably appended before the completion call; on completion failure the
// error is surfaced, no assistant turn is created, and the conversation is
// left awaiting a reply, recoverable by re-sending.
func (s *Service) Submit(ctx context.Context, sess *session.Session, input string) (*SubmitOutput, error) {
	if strings.TrimSpace(input) == "" {
		return nil, domain.ErrEmptyInput
	}
	if !sess.Identified() {
		return nil, domain.ErrNotIdentified
	}
	if !sess.HasConversation() {
		if _, err := sess.StartNew(); err != nil {
			return nil, err
		}
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", sess.UserID(),
		"conversation_id", sess.ConversationID(),
	)

	userTurn := &domain.Turn{
		ID:             domain.TurnID(s.newID()),
		UserID:         sess.UserID(),
		ConversationID: sess.ConversationID(),
		Role:           domain.RoleUser,
		Text:           input,
		CreatedAt:      s.now(),
	}
	if err := sess.AppendLocal(userTurn); err != nil {
		return nil, err
	}
	if err := s.store.Append(ctx, userTurn); err != nil {
		// Drop the local copy so memory stays a replica of the store;
		// the submission is retryable as a whole.
		sess.RemoveLocal(userTurn.ID)
		log.Error("failed to persist user turn", "error", err)
		return nil, fmt.Errorf("persisting user turn: %w", err)
	}

	messages := s.strategy.BuildMessages(ctx, sess.History(), input)

	replyText, err := s.completion.Complete(ctx, messages)
	if err != nil {
		log.Error("completion failed", "error", err)
		return nil, err
	}

	assistantTurn := &domain.Turn{
		ID:             domain.TurnID(s.newID()),
		UserID:         sess.UserID(),
		ConversationID: sess.ConversationID(),
		Role:           domain.RoleAssistant,
		Text:           replyText,
		CreatedAt:      s.now(),
	}
	if err := sess.AppendLocal(assistantTurn); err != nil {
		return nil, err
	}
	if err := s.store.Append(ctx, assistantTurn); err != nil {
		sess.RemoveLocal(assistantTurn.ID)
		log.Error("failed to persist assistant turn", "error", err)
		return nil, fmt.Errorf("persisting assistant turn: %w", err)
	}

	if s.indexer != nil {
		doc := fmt.Sprintf("User: %s\nAssistant: %s", input, replyText)
		if err := s.indexer.Index(ctx, doc); err != nil {
			// Best effort: memory indexing never fails a submission.
			log.Warn("failed to index exchange", "error", err)
		}
	}

	log.Info("submission completed")
	return &SubmitOutput{UserTurn: userTurn, AssistantTurn: assistantTurn}, nil
}

// ListConversations returns the user's conversation picker entries, most
// recently active first.
func (s *Service) ListConversations(ctx context.Context, sess *session.Session) ([]*domain.ConversationSummary, error) {
	if !sess.Identified() {
		return nil, domain.ErrNotIdentified
	}
	convs, err := s.store.ListConversations(ctx, sess.UserID())
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	return convs, nil
}
