// Package generator defines the reply-generation capability port.
package generator

import (
	"context"

	"replydesk/internal/domain/message"
)

// RevisionRequest carries the loop context for one revision call: the
// previous attempt and the trusted verdict it received.
type RevisionRequest struct {
	Message          message.Inbound
	PreviousResponse string
	Feedback         string
	Score            float64
	Category         message.Category
}

// Generator produces draft replies to employer messages.
type Generator interface {
	// Generate drafts a first reply to an inbound message.
	Generate(ctx context.Context, msg message.Inbound) (message.Attempt, error)

	// Revise drafts an improved reply given the previous attempt and the
	// evaluator's feedback.
	Revise(ctx context.Context, req RevisionRequest) (message.Attempt, error)
}
