// Package session holds the per-client conversation session: the identified
// user, the active conversation, and an in-memory replica of its turns.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/acampora/minerva/internal/domain"
)

// Session is the process-local state of one interactive client. It moves
// through Unidentified -> Active(no conversation) -> Active(conversation X).
// The in-memory turn list mirrors the store's turns for the active
// (user, conversation) pair, ascending by creation time; the store stays
// the durable source of truth.
//
// A Session is not safe for concurrent use; each client owns one.
type Session struct {
	store domain.TurnStore

	userID         domain.UserID
	conversationID domain.ConversationID
	turns          []*domain.Turn
}

func New(store domain.TurnStore) *Session {
	return &Session{store: store}
}

// Identify validates and normalizes the raw identity string. On success the
// session becomes Active; if the store already holds conversations for the
// user, the most recently active one is resumed with its turns loaded.
func (s *Session) Identify(ctx context.Context, raw string) (domain.UserID, error) {
	userID, err := domain.ParseUserID(raw)
	if err != nil {
		return "", err
	}

	convs, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("listing conversations for %s: %w", userID, err)
	}

	s.userID = userID
	if len(convs) > 0 {
		// ListConversations orders by most recent activity first.
		if err := s.SelectExisting(ctx, convs[0].ID); err != nil {
			s.userID = ""
			return "", err
		}
	}
	return userID, nil
}

// StartNew begins a fresh conversation with a new opaque identifier and an
// empty in-memory turn list. Nothing is persisted until a turn is appended.
func (s *Session) StartNew() (domain.ConversationID, error) {
	if s.userID == "" {
		return "", domain.ErrNotIdentified
	}
	s.conversationID = domain.ConversationID(uuid.NewString())
	s.turns = nil
	return s.conversationID, nil
}

// SelectExisting switches to a previously stored conversation, replacing
// the in-memory turn list with the store's turns for it.
func (s *Session) SelectExisting(ctx context.Context, id domain.ConversationID) error {
	if s.userID == "" {
		return domain.ErrNotIdentified
	}
	turns, err := s.store.ListTurns(ctx, s.userID, id)
	if err != nil {
		return fmt.Errorf("loading turns for conversation %s: %w", id, err)
	}
	s.conversationID = id
	s.turns = turns
	return nil
}

// AppendLocal adds a turn to the in-memory list only. Persisting it is the
// orchestrator's separate store call, so the two stay independently
// retryable.
func (s *Session) AppendLocal(turn *domain.Turn) error {
	if s.userID == "" {
		return domain.ErrNotIdentified
	}
	if s.conversationID == "" {
		return domain.ErrNoConversation
	}
	s.turns = append(s.turns, turn)
	return nil
}

// RemoveLocal drops the turn with the given id from the in-memory list.
// Used to restore the store replica when a persist fails after a local
// append.
func (s *Session) RemoveLocal(id domain.TurnID) {
	for i, t := range s.turns {
		if t.ID == id {
			s.turns = append(s.turns[:i], s.turns[i+1:]...)
			return
		}
	}
}

// History returns a copy of the in-memory turn list for the active
// conversation, oldest first.
func (s *Session) History() []*domain.Turn {
	out := make([]*domain.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) UserID() domain.UserID { return s.userID }

func (s *Session) ConversationID() domain.ConversationID { return s.conversationID }

// Identified reports whether Identify has succeeded.
func (s *Session) Identified() bool { return s.userID != "" }

// HasConversation reports whether a conversation is active.
func (s *Session) HasConversation() bool { return s.conversationID != "" }
