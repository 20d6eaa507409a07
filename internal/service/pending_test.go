package service

import (
	"context"
	"errors"
	"testing"

	"replydesk/internal/domain"
	"replydesk/internal/domain/pending"
	"replydesk/internal/domain/risk"
	"replydesk/internal/port/auditlog"
	"replydesk/internal/port/notifier"
)

type pendingFixture struct {
	svc    *PendingService
	store  *memStore
	audit  *memAudit
	rec    *recordingNotifier
	notify *NotificationService
}

func newPendingFixture(t *testing.T) *pendingFixture {
	t.Helper()
	store := newMemStore()
	audit := &memAudit{}
	rec := &recordingNotifier{}
	notify := NewNotificationService([]notifier.Notifier{rec}, 8)
	t.Cleanup(notify.Close)
	return &pendingFixture{
		svc:    NewPendingService(store, notify, audit),
		store:  store,
		audit:  audit,
		rec:    rec,
		notify: notify,
	}
}

func TestRespondRecordsAnswer(t *testing.T) {
	f := newPendingFixture(t)
	ctx := context.Background()

	item, _ := f.store.Add(ctx, "hr@acme.example", "salary?", risk.CategorySalaryNegotiation, "risky")

	updated, err := f.svc.Respond(ctx, item.ID, "Let's discuss in person.")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if updated.Status != pending.StatusAnswered {
		t.Fatalf("expected answered, got %s", updated.Status)
	}
	if updated.AdminResponse != "Let's discuss in person." {
		t.Fatalf("unexpected admin response %q", updated.AdminResponse)
	}

	records, _ := f.audit.Recent(ctx, 10)
	if len(records) != 1 || records[0].Type != auditlog.TypeAdminResponse {
		t.Fatalf("expected one admin_response audit record, got %+v", records)
	}
}

func TestRespondTwiceRejectedWithoutMutation(t *testing.T) {
	f := newPendingFixture(t)
	ctx := context.Background()

	item, _ := f.store.Add(ctx, "hr@acme.example", "q", risk.CategoryLowConfidence, "unsure")

	if _, err := f.svc.Respond(ctx, item.ID, "first answer"); err != nil {
		t.Fatalf("first respond: %v", err)
	}

	_, err := f.svc.Respond(ctx, item.ID, "second answer")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// The recorded answer must be untouched.
	got, _ := f.store.Get(ctx, item.ID)
	if got.AdminResponse != "first answer" {
		t.Fatalf("expected first answer preserved, got %q", got.AdminResponse)
	}
}

func TestRespondEmptyResponseRejected(t *testing.T) {
	f := newPendingFixture(t)
	ctx := context.Background()

	item, _ := f.store.Add(ctx, "a", "q", risk.CategoryNone, "")

	_, err := f.svc.Respond(ctx, item.ID, "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRespondUnknownID(t *testing.T) {
	f := newPendingFixture(t)

	_, err := f.svc.Respond(context.Background(), "missing", "answer")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRespondNotifiesAdminResponse(t *testing.T) {
	f := newPendingFixture(t)
	ctx := context.Background()

	item, _ := f.store.Add(ctx, "a", "q", risk.CategoryNone, "")
	if _, err := f.svc.Respond(ctx, item.ID, "answer"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	f.notify.Close()

	events := f.rec.Events()
	if len(events) == 0 || events[len(events)-1] != notifier.EventAdminResponse {
		t.Fatalf("expected admin_response event, got %v", events)
	}
}
