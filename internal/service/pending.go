package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"replydesk/internal/domain"
	"replydesk/internal/domain/pending"
	"replydesk/internal/port/auditlog"
	"replydesk/internal/port/notifier"
	"replydesk/internal/port/pendingstore"
)

// PendingService is the boundary in front of the pending-item store. It
// enforces the one-way pending -> answered transition before the store's
// unconditional mutation runs.
type PendingService struct {
	store  pendingstore.Store
	notify *NotificationService
	audit  auditlog.Log
}

// NewPendingService creates a PendingService.
func NewPendingService(store pendingstore.Store, notify *NotificationService, audit auditlog.Log) *PendingService {
	return &PendingService{
		store:  store,
		notify: notify,
		audit:  audit,
	}
}

// List returns pending items newest-first, optionally filtered by status.
func (s *PendingService) List(ctx context.Context, status *pending.Status) ([]pending.Item, error) {
	return s.store.List(ctx, status)
}

// Get returns a single pending item.
func (s *PendingService) Get(ctx context.Context, id string) (pending.Item, error) {
	return s.store.Get(ctx, id)
}

// Respond records the human's answer for a pending item. A second respond
// attempt on an already-answered item is rejected with domain.ErrConflict
// before the store is touched, leaving the recorded answer intact.
func (s *PendingService) Respond(ctx context.Context, id, response string) (pending.Item, error) {
	if response == "" {
		return pending.Item{}, fmt.Errorf("%w: response is required", domain.ErrValidation)
	}

	item, err := s.store.Get(ctx, id)
	if err != nil {
		return pending.Item{}, err
	}
	if item.Status == pending.StatusAnswered {
		return pending.Item{}, fmt.Errorf("pending item %s: %w", id, domain.ErrConflict)
	}

	updated, err := s.store.Respond(ctx, id, response)
	if err != nil {
		return pending.Item{}, err
	}

	s.notify.Enqueue(notifier.Notification{
		Event: notifier.EventAdminResponse,
		Payload: map[string]string{
			"sender":     updated.Sender,
			"message":    updated.Message,
			"response":   response,
			"pending_id": updated.ID,
		},
	})

	rec := auditlog.Record{
		Timestamp:       time.Now().UTC(),
		Type:            auditlog.TypeAdminResponse,
		Sender:          updated.Sender,
		MessagePreview:  truncate(updated.Message, 120),
		Category:        string(updated.RiskCategory),
		Status:          string(updated.Status),
		PendingID:       updated.ID,
		ResponsePreview: truncate(response, 200),
	}
	if err := s.audit.Append(ctx, rec); err != nil {
		slog.Error("audit append failed", "pending_id", id, "error", err)
	}

	return updated, nil
}
