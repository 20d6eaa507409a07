// Package pendingstore defines the durable pending-item queue port.
package pendingstore

import (
	"context"

	"replydesk/internal/domain/pending"
	"replydesk/internal/domain/risk"
)

// Store is the pending-item queue contract.
//
// Respond performs the mutation unconditionally; the service boundary must
// reject a second respond attempt on an already-answered item before calling
// it, preserving the one-way pending -> answered transition.
type Store interface {
	// Add creates a new pending item with a fresh unique id and persists it.
	Add(ctx context.Context, sender, msg string, category risk.Category, reason string) (pending.Item, error)

	// List returns items newest-first. A nil status returns all items.
	List(ctx context.Context, status *pending.Status) ([]pending.Item, error)

	// Get returns a single item or domain.ErrNotFound.
	Get(ctx context.Context, id string) (pending.Item, error)

	// Respond marks the item answered, recording the response and timestamp.
	Respond(ctx context.Context, id, response string) (pending.Item, error)
}
