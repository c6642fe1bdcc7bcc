package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/acampora/minerva/internal/domain"
)

// Store implements domain.TurnStore on Firestore. Turns live in a single
// top-level collection keyed by turn ID so that both per-conversation range
// queries and per-user grouping queries stay simple.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for the Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) turnsCol() *firestore.CollectionRef {
	return s.client.Collection("turns")
}

type turnDoc struct {
	UserID         string    `firestore:"user_id"`
	ConversationID string    `firestore:"conversation_id"`
	Role           string    `firestore:"role"`
	Text           string    `firestore:"text"`
	CreatedAt      time.Time `firestore:"created_at"`
}

// Append writes one turn with create-only semantics: an existing document
// with the same turn ID is never overwritten, so a retried append of the
// same turn is a no-op.
func (s *Store) Append(ctx context.Context, turn *domain.Turn) error {
	doc := turnDoc{
		UserID:         string(turn.UserID),
		ConversationID: string(turn.ConversationID),
		Role:           string(turn.Role),
		Text:           turn.Text,
		CreatedAt:      turn.CreatedAt,
	}

	_, err := s.turnsCol().Doc(string(turn.ID)).Create(ctx, doc)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("firestore Append: %w", mapUnavailable(err))
	}
	return nil
}

func (s *Store) ListTurns(ctx context.Context, userID domain.UserID, conversationID domain.ConversationID) ([]*domain.Turn, error) {
	q := s.turnsCol().
		Where("user_id", "==", string(userID)).
		Where("conversation_id", "==", string(conversationID)).
		OrderBy("created_at", firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Turn
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListTurns: %w", mapUnavailable(err))
		}

		turn, err := decodeTurn(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, turn)
	}
	return out, nil
}

// ListConversations groups the user's turns by conversation. Firestore has
// no first-match projection, so grouping happens here over a single
// ascending scan of the user's turns.
func (s *Store) ListConversations(ctx context.Context, userID domain.UserID) ([]*domain.ConversationSummary, error) {
	q := s.turnsCol().
		Where("user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	summaries := make(map[domain.ConversationID]*domain.ConversationSummary)
	var order []*domain.ConversationSummary

	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListConversations: %w", mapUnavailable(err))
		}

		turn, err := decodeTurn(snap)
		if err != nil {
			return nil, err
		}

		summary, ok := summaries[turn.ConversationID]
		if !ok {
			summary = &domain.ConversationSummary{ID: turn.ConversationID}
			summaries[turn.ConversationID] = summary
			order = append(order, summary)
		}
		if summary.Label == "" && turn.Role == domain.RoleUser {
			summary.Label = domain.Label(turn.Text)
		}
		summary.LastActivity = turn.CreatedAt
	}

	// Conversations without a user-authored turn stay out of the picker;
	// most recent activity first.
	var out []*domain.ConversationSummary
	for _, summary := range order {
		if summary.Label == "" {
			continue
		}
		out = append(out, summary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, nil
}

func decodeTurn(snap *firestore.DocumentSnapshot) (*domain.Turn, error) {
	var doc turnDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode turnDoc: %w", err)
	}
	return &domain.Turn{
		ID:             domain.TurnID(snap.Ref.ID),
		UserID:         domain.UserID(doc.UserID),
		ConversationID: domain.ConversationID(doc.ConversationID),
		Role:           domain.Role(doc.Role),
		Text:           doc.Text,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

// mapUnavailable tags unreachable-backend failures with
// domain.ErrStoreUnavailable so the boundary can tell them apart from data
// errors.
func mapUnavailable(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}
