package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"replydesk/internal/domain"
	"replydesk/internal/domain/pending"
	"replydesk/internal/domain/risk"
)

func newTestStore(t *testing.T) *PendingStore {
	t.Helper()
	return NewPendingStore(filepath.Join(t.TempDir(), "pending.json"))
}

func TestAddAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.Add(ctx, "hr@acme.example", "salary talk", risk.CategorySalaryNegotiation, "risky")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if item.Status != pending.StatusPending {
		t.Fatalf("expected status pending, got %s", item.Status)
	}

	got, err := s.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Sender != "hr@acme.example" || got.RiskCategory != risk.CategorySalaryNegotiation {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestGetUnknownID(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first, _ := s.Add(ctx, "a", "first", risk.CategoryNone, "")
	second, _ := s.Add(ctx, "b", "second", risk.CategoryNone, "")

	items, err := s.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Fatal("expected newest-first ordering")
	}
}

func TestListStatusFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, _ := s.Add(ctx, "a", "one", risk.CategoryNone, "")
	_, _ = s.Add(ctx, "b", "two", risk.CategoryNone, "")
	if _, err := s.Respond(ctx, a.ID, "done"); err != nil {
		t.Fatalf("respond: %v", err)
	}

	answered := pending.StatusAnswered
	items, err := s.List(ctx, &answered)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != a.ID {
		t.Fatalf("expected only the answered item, got %+v", items)
	}
}

func TestRespondSetsAnsweredFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, _ := s.Add(ctx, "a", "question", risk.CategoryLowConfidence, "unsure")

	updated, err := s.Respond(ctx, item.ID, "the answer")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if updated.Status != pending.StatusAnswered {
		t.Fatalf("expected status answered, got %s", updated.Status)
	}
	if updated.AdminResponse != "the answer" {
		t.Fatalf("expected admin response, got %q", updated.AdminResponse)
	}
	if updated.AnsweredAt == nil {
		t.Fatal("expected answered_at to be set")
	}
}

func TestReloadRecoversState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.json")
	ctx := context.Background()

	s1 := NewPendingStore(path)
	item, _ := s1.Add(ctx, "hr@acme.example", "msg", risk.CategoryLegalContractual, "nda")
	if _, err := s1.Respond(ctx, item.ID, "escalated"); err != nil {
		t.Fatalf("respond: %v", err)
	}

	// Fresh store from the same file must see the full state.
	s2 := NewPendingStore(path)
	got, err := s2.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	if got.Status != pending.StatusAnswered || got.AdminResponse != "escalated" {
		t.Fatalf("expected answered state to survive reload, got %+v", got)
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s := NewPendingStore(path)
	items, err := s.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty store, got %d items", len(items))
	}
}
