package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/acampora/minerva/internal/domain"
)

// TurnStore is an in-memory domain.TurnStore for local mode and tests.
type TurnStore struct {
	mu    sync.RWMutex
	turns map[domain.UserID][]*domain.Turn
	seen  map[domain.TurnID]bool
}

func NewTurnStore() *TurnStore {
	return &TurnStore{
		turns: make(map[domain.UserID][]*domain.Turn),
		seen:  make(map[domain.TurnID]bool),
	}
}

func (s *TurnStore) Append(ctx context.Context, turn *domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Appends are keyed by turn ID; a retried append is a no-op.
	if s.seen[turn.ID] {
		return nil
	}
	s.seen[turn.ID] = true

	copied := *turn
	s.turns[turn.UserID] = append(s.turns[turn.UserID], &copied)
	return nil
}

func (s *TurnStore) ListTurns(ctx context.Context, userID domain.UserID, conversationID domain.ConversationID) ([]*domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Turn
	for _, t := range s.turns[userID] {
		if t.ConversationID == conversationID {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *TurnStore) ListConversations(ctx context.Context, userID domain.UserID) ([]*domain.ConversationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byConv := make(map[domain.ConversationID][]*domain.Turn)
	for _, t := range s.turns[userID] {
		byConv[t.ConversationID] = append(byConv[t.ConversationID], t)
	}

	var out []*domain.ConversationSummary
	for id, turns := range byConv {
		sort.SliceStable(turns, func(i, j int) bool {
			return turns[i].CreatedAt.Before(turns[j].CreatedAt)
		})

		summary := &domain.ConversationSummary{ID: id}
		for _, t := range turns {
			if t.Role == domain.RoleUser {
				summary.Label = domain.Label(t.Text)
				break
			}
		}
		// Conversations with no user-authored turn stay invisible to
		// conversation pickers.
		if summary.Label == "" {
			continue
		}
		summary.LastActivity = turns[len(turns)-1].CreatedAt
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, nil
}
