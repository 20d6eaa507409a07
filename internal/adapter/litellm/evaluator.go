package litellm

import (
	"context"
	"fmt"

	"replydesk/internal/domain/message"
	"replydesk/internal/port/evaluator"
)

// Evaluator implements evaluator.Evaluator using the model as a judge.
type Evaluator struct {
	client *Client
	system string
}

// NewEvaluator creates an Evaluator. threshold is rendered into the judge
// prompt for context; the actual approval decision is recomputed by the
// scoring policy.
func NewEvaluator(client *Client, threshold float64) *Evaluator {
	return &Evaluator{
		client: client,
		system: judgeSystemPrompt(threshold),
	}
}

// Evaluate scores a generated reply. Transport failures are returned as
// errors; unparseable judge output is recovered into a fallback verdict.
func (e *Evaluator) Evaluate(ctx context.Context, msg message.Inbound, response string) (evaluator.Verdict, error) {
	content, err := e.client.Complete(ctx, e.system,
		evaluationUserPrompt(msg.Text, response), judgeTemperature)
	if err != nil {
		return evaluator.Verdict{}, fmt.Errorf("evaluate: %w", err)
	}
	return parseVerdict(content), nil
}
