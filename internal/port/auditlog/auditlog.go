// Package auditlog defines the append-only audit trail port.
package auditlog

import (
	"context"
	"time"
)

// Record types.
const (
	TypeOutcome       = "outcome"
	TypeAdminResponse = "admin_response"
)

// Record is one audit entry. Outcome records are appended exactly once per
// processed message, after the outcome is fully constructed.
type Record struct {
	Timestamp                 time.Time `json:"timestamp"`
	Type                      string    `json:"type"`
	Sender                    string    `json:"sender"`
	MessagePreview            string    `json:"message_preview"`
	Category                  string    `json:"category"`
	Score                     float64   `json:"evaluator_score"`
	Status                    string    `json:"status"`
	HumanInterventionRequired bool      `json:"human_intervention_required"`
	Iterations                int       `json:"iterations"`
	PendingID                 string    `json:"pending_id,omitempty"`
	ResponsePreview           string    `json:"response_preview"`
}

// Log is the append contract. Storage mechanics beyond append-plus-read
// are an adapter concern.
type Log interface {
	// Append writes one record to durable storage.
	Append(ctx context.Context, rec Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
}
