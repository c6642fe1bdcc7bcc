package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/acampora/minerva/internal/adapters/storage/memory"
	"github.com/acampora/minerva/internal/app/session"
	"github.com/acampora/minerva/internal/domain"
)

func seedTurn(t *testing.T, store *memory.TurnStore, conv, role, text string, at time.Time) {
	t.Helper()
	err := store.Append(context.Background(), &domain.Turn{
		ID:             domain.TurnID(text + at.String()),
		UserID:         "ana@example.com",
		ConversationID: domain.ConversationID(conv),
		Role:           domain.Role(role),
		Text:           text,
		CreatedAt:      at,
	})
	if err != nil {
		t.Fatalf("seeding turn failed: %v", err)
	}
}

func TestIdentifyRejectsMalformedInput(t *testing.T) {
	sess := session.New(memory.NewTurnStore())
	if _, err := sess.Identify(context.Background(), "not-an-email"); !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
	if sess.Identified() {
		t.Fatal("session must stay unidentified after a failed Identify")
	}
}

func TestIdentifyFirstTimeHasNoConversation(t *testing.T) {
	sess := session.New(memory.NewTurnStore())
	userID, err := sess.Identify(context.Background(), "Ana@Example.com")
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if userID != "ana@example.com" {
		t.Fatalf("expected normalized user id, got %q", userID)
	}
	if sess.HasConversation() {
		t.Fatal("first-time identify must not activate a conversation")
	}
}

func TestIdentifyResumesMostRecentConversation(t *testing.T) {
	store := memory.NewTurnStore()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedTurn(t, store, "older", "user", "first question", base)
	seedTurn(t, store, "recent", "user", "second question", base.Add(time.Hour))

	sess := session.New(store)
	if _, err := sess.Identify(context.Background(), "ana@example.com"); err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if sess.ConversationID() != "recent" {
		t.Fatalf("expected most recent conversation resumed, got %q", sess.ConversationID())
	}
	if got := len(sess.History()); got != 1 {
		t.Fatalf("expected 1 rehydrated turn, got %d", got)
	}
}

func TestStartNewRequiresIdentity(t *testing.T) {
	sess := session.New(memory.NewTurnStore())
	if _, err := sess.StartNew(); !errors.Is(err, domain.ErrNotIdentified) {
		t.Fatalf("expected ErrNotIdentified, got %v", err)
	}
}

func TestStartNewThenSelectExistingReplacesHistory(t *testing.T) {
	store := memory.NewTurnStore()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedTurn(t, store, "populated", "user", "stored question", base)
	seedTurn(t, store, "populated", "assistant", "stored answer", base.Add(time.Second))

	sess := session.New(store)
	ctx := context.Background()
	if _, err := sess.Identify(ctx, "ana@example.com"); err != nil {
		t.Fatalf("Identify failed: %v", err)
	}

	fresh, err := sess.StartNew()
	if err != nil {
		t.Fatalf("StartNew failed: %v", err)
	}
	if fresh == "populated" {
		t.Fatal("expected a fresh conversation id")
	}
	if len(sess.History()) != 0 {
		t.Fatal("StartNew must clear the in-memory turn list")
	}

	// Abandon the fresh conversation before appending anything.
	if err := sess.SelectExisting(ctx, "populated"); err != nil {
		t.Fatalf("SelectExisting failed: %v", err)
	}
	history := sess.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 turns from the populated conversation, got %d", len(history))
	}
	for _, turn := range history {
		if turn.ConversationID != "populated" {
			t.Fatalf("residual turn from abandoned conversation: %+v", turn)
		}
	}

	// The abandoned conversation left nothing in the store.
	turns, err := store.ListTurns(ctx, "ana@example.com", fresh)
	if err != nil {
		t.Fatalf("ListTurns failed: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected no stored turns for abandoned conversation, got %d", len(turns))
	}
}

func TestAppendLocalGuards(t *testing.T) {
	sess := session.New(memory.NewTurnStore())
	turn := &domain.Turn{ID: "t1", Role: domain.RoleUser, Text: "hi"}

	if err := sess.AppendLocal(turn); !errors.Is(err, domain.ErrNotIdentified) {
		t.Fatalf("expected ErrNotIdentified, got %v", err)
	}

	if _, err := sess.Identify(context.Background(), "ana@example.com"); err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if err := sess.AppendLocal(turn); !errors.Is(err, domain.ErrNoConversation) {
		t.Fatalf("expected ErrNoConversation, got %v", err)
	}
}

func TestRemoveLocalDropsOnlyMatchingTurn(t *testing.T) {
	sess := session.New(memory.NewTurnStore())
	ctx := context.Background()
	if _, err := sess.Identify(ctx, "ana@example.com"); err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if _, err := sess.StartNew(); err != nil {
		t.Fatalf("StartNew failed: %v", err)
	}

	for _, id := range []string{"t1", "t2"} {
		turn := &domain.Turn{ID: domain.TurnID(id), Role: domain.RoleUser, Text: id}
		if err := sess.AppendLocal(turn); err != nil {
			t.Fatalf("AppendLocal failed: %v", err)
		}
	}

	sess.RemoveLocal("t1")
	history := sess.History()
	if len(history) != 1 || history[0].ID != "t2" {
		t.Fatalf("expected only t2 to remain, got %+v", history)
	}
}
