// Package evaluator defines the reply-scoring capability port.
package evaluator

import (
	"context"

	"replydesk/internal/domain/message"
	"replydesk/internal/domain/scoring"
)

// Verdict is the raw judge output before the trusted scoring policy runs.
// Only the sub-scores and feedback are carried: the overall score and the
// approval decision are always recomputed server-side.
type Verdict struct {
	Scores   scoring.CriterionScores
	Feedback string

	// Fallback reports that the judge output could not be parsed and Scores
	// holds substituted neutral values. A fallback verdict never approves.
	Fallback bool
}

// Evaluator scores a drafted reply against the inbound message.
type Evaluator interface {
	Evaluate(ctx context.Context, msg message.Inbound, response string) (Verdict, error)
}
