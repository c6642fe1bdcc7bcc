package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/acampora/minerva/internal/adapters/storage/memory"
	"github.com/acampora/minerva/internal/domain"
)

func turnAt(id, conv, role, text string, at time.Time) *domain.Turn {
	return &domain.Turn{
		ID:             domain.TurnID(id),
		UserID:         "ana@example.com",
		ConversationID: domain.ConversationID(conv),
		Role:           domain.Role(role),
		Text:           text,
		CreatedAt:      at,
	}
}

func TestListTurnsOrdering(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTurnStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Appended out of order on purpose.
	for _, tn := range []*domain.Turn{
		turnAt("t2", "c1", "assistant", "reply", base.Add(time.Second)),
		turnAt("t1", "c1", "user", "question", base),
		turnAt("t3", "c2", "user", "other conversation", base.Add(2*time.Second)),
	} {
		if err := store.Append(ctx, tn); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	turns, err := store.ListTurns(ctx, "ana@example.com", "c1")
	if err != nil {
		t.Fatalf("ListTurns failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].ID != "t1" || turns[1].ID != "t2" {
		t.Fatalf("expected ascending order t1,t2, got %s,%s", turns[0].ID, turns[1].ID)
	}
}

func TestAppendIsIdempotentPerTurnID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTurnStore()
	tn := turnAt("t1", "c1", "user", "hello", time.Now())

	if err := store.Append(ctx, tn); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, tn); err != nil {
		t.Fatalf("retried Append failed: %v", err)
	}

	turns, err := store.ListTurns(ctx, tn.UserID, tn.ConversationID)
	if err != nil {
		t.Fatalf("ListTurns failed: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn after retried append, got %d", len(turns))
	}
}

func TestListConversationsLabelsAndOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTurnStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	long := "How do I compute a confidence interval for a proportion?"
	for _, tn := range []*domain.Turn{
		turnAt("t1", "older", "user", long, base),
		turnAt("t2", "older", "assistant", "like this", base.Add(time.Second)),
		turnAt("t3", "newer", "user", "What is a p-value?", base.Add(time.Hour)),
		turnAt("t4", "hidden", "system", "system only", base.Add(2*time.Hour)),
	} {
		if err := store.Append(ctx, tn); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	convs, err := store.ListConversations(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations (system-only hidden), got %d", len(convs))
	}
	if convs[0].ID != "newer" || convs[1].ID != "older" {
		t.Fatalf("expected most-recent-first order, got %s,%s", convs[0].ID, convs[1].ID)
	}

	wantLabel := string([]rune(long)[:40]) + "…"
	if convs[1].Label != wantLabel {
		t.Fatalf("expected label %q, got %q", wantLabel, convs[1].Label)
	}
	if convs[0].Label != "What is a p-value?" {
		t.Fatalf("unexpected label %q", convs[0].Label)
	}
}

func TestListTurnsEmptyIsNotAnError(t *testing.T) {
	store := memory.NewTurnStore()
	turns, err := store.ListTurns(context.Background(), "nobody@example.com", "none")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty result, got %d", len(turns))
	}
}
