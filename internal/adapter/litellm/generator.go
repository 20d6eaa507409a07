package litellm

import (
	"context"
	"fmt"

	"replydesk/internal/domain/message"
	"replydesk/internal/domain/profile"
	"replydesk/internal/port/generator"
)

// Generation runs at a moderate temperature; judging runs near-greedy for
// consistent verdicts.
const (
	generationTemperature = 0.4
	judgeTemperature      = 0.1
)

// Generator implements generator.Generator against the chat completions API.
type Generator struct {
	client    *Client
	system    string
	threshold float64
}

// NewGenerator creates a Generator grounded in the given candidate profile.
// threshold is only used to render revision prompts.
func NewGenerator(client *Client, p profile.Profile, threshold float64) *Generator {
	return &Generator{
		client:    client,
		system:    generationSystemPrompt(p.Summarize()),
		threshold: threshold,
	}
}

// Generate produces the first reply attempt for an inbound message.
func (g *Generator) Generate(ctx context.Context, msg message.Inbound) (message.Attempt, error) {
	content, err := g.client.Complete(ctx, g.system, msg.Text, generationTemperature)
	if err != nil {
		return message.Attempt{}, fmt.Errorf("generate: %w", err)
	}
	return parseAttempt(content), nil
}

// Revise produces an improved attempt from evaluator feedback.
func (g *Generator) Revise(ctx context.Context, req generator.RevisionRequest) (message.Attempt, error) {
	prompt := revisionPrompt(req.Message.Text, req.PreviousResponse, req.Feedback,
		req.Score, g.threshold, string(req.Category))

	content, err := g.client.Complete(ctx, g.system, prompt, generationTemperature)
	if err != nil {
		return message.Attempt{}, fmt.Errorf("revise: %w", err)
	}
	return parseAttempt(content), nil
}
