package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/semaphore"

	"replydesk/internal/domain"
	"replydesk/internal/domain/message"
	"replydesk/internal/domain/risk"
	"replydesk/internal/domain/scoring"
	otelx "replydesk/internal/adapter/otel"
	"replydesk/internal/port/auditlog"
	"replydesk/internal/port/cache"
	"replydesk/internal/port/evaluator"
	"replydesk/internal/port/generator"
	"replydesk/internal/port/notifier"
	"replydesk/internal/port/pendingstore"
)

// DispatchConfig tunes the revision orchestrator.
type DispatchConfig struct {
	// MaxIterations bounds the generate-then-score loop. Must be >= 1.
	MaxIterations int

	// MaxConcurrent bounds concurrent message flows across requests.
	MaxConcurrent int

	// AckMessage is the canned reply returned to senders whose message was
	// escalated to a human.
	AckMessage string

	// DedupeTTL is how long identical (sender, message) deliveries replay
	// the cached outcome instead of reprocessing. Ignored without a cache.
	DedupeTTL time.Duration
}

// DispatchService is the revision orchestrator: it sequences risk check,
// generation, evaluation and revision for each inbound message and resolves
// every message to exactly one terminal outcome.
//
// Within one message the flow is strictly sequential; across messages,
// flows run concurrently up to MaxConcurrent.
type DispatchService struct {
	classifier *risk.Classifier
	policy     scoring.Policy
	gen        generator.Generator
	eval       evaluator.Evaluator
	store      pendingstore.Store
	notify     *NotificationService
	audit      auditlog.Log
	outcomes   cache.Cache   // optional; nil disables deduplication
	metrics    *otelx.Metrics // optional
	cfg        DispatchConfig
	sem        *semaphore.Weighted
}

// NewDispatchService wires the orchestrator. outcomes and metrics may be nil.
func NewDispatchService(
	classifier *risk.Classifier,
	policy scoring.Policy,
	gen generator.Generator,
	eval evaluator.Evaluator,
	store pendingstore.Store,
	notify *NotificationService,
	audit auditlog.Log,
	outcomes cache.Cache,
	metrics *otelx.Metrics,
	cfg DispatchConfig,
) *DispatchService {
	if cfg.MaxIterations < 1 {
		cfg.MaxIterations = 1
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	return &DispatchService{
		classifier: classifier,
		policy:     policy,
		gen:        gen,
		eval:       eval,
		store:      store,
		notify:     notify,
		audit:      audit,
		outcomes:   outcomes,
		metrics:    metrics,
		cfg:        cfg,
		sem:        semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
	}
}

// Process runs one inbound message end-to-end and returns its terminal
// outcome. A capability transport failure or timeout is returned as an
// error, never as a silently empty outcome.
func (s *DispatchService) Process(ctx context.Context, msg message.Inbound) (message.Outcome, error) {
	if msg.Sender == "" {
		return message.Outcome{}, fmt.Errorf("%w: sender is required", domain.ErrValidation)
	}
	if msg.Text == "" {
		return message.Outcome{}, fmt.Errorf("%w: message is required", domain.ErrValidation)
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return message.Outcome{}, fmt.Errorf("acquire flow slot: %w", err)
	}
	defer s.sem.Release(1)

	if outcome, ok := s.cachedOutcome(ctx, msg); ok {
		slog.Info("duplicate delivery, replaying outcome",
			"sender", msg.Sender, "status", outcome.Status)
		return outcome, nil
	}

	start := time.Now()

	s.notify.Enqueue(notifier.Notification{
		Event: notifier.EventNewMessage,
		Payload: map[string]string{
			"sender":  msg.Sender,
			"message": msg.Text,
		},
	})

	// Risk check runs keyword-only before any generation call: flagged
	// messages never incur a generation cost.
	if verdict := s.classifier.Classify(msg.Text); verdict.Flagged {
		return s.escalateRisk(ctx, msg, verdict, 0, start)
	}

	attempt, err := s.gen.Generate(ctx, msg)
	if err != nil {
		return message.Outcome{}, fmt.Errorf("generation capability: %w", err)
	}

	var result scoring.Result
	for iteration := 1; iteration <= s.cfg.MaxIterations; iteration++ {
		// Softer second gate, now that a self-reported confidence exists.
		// A fallback stub attempt carries a low confidence and escalates
		// here instead of being evaluated.
		if verdict := s.classifier.ClassifyWithConfidence(msg.Text, attempt.Confidence); verdict.Flagged {
			return s.escalateRisk(ctx, msg, verdict, iteration-1, start)
		}

		raw, err := s.eval.Evaluate(ctx, msg, attempt.Response)
		if err != nil {
			return message.Outcome{}, fmt.Errorf("scoring capability: %w", err)
		}
		result = s.policy.Score(raw.Scores, raw.Feedback, raw.Fallback)

		slog.Info("evaluation complete",
			"sender", msg.Sender,
			"iteration", iteration,
			"max_iterations", s.cfg.MaxIterations,
			"score", result.Overall,
			"approved", result.Approved,
		)

		if result.Approved {
			return s.approve(ctx, msg, attempt, result, iteration, start)
		}

		if iteration < s.cfg.MaxIterations {
			attempt, err = s.gen.Revise(ctx, generator.RevisionRequest{
				Message:          msg,
				PreviousResponse: attempt.Response,
				Feedback:         result.Feedback,
				Score:            result.Overall,
				Category:         attempt.Category,
			})
			if err != nil {
				return message.Outcome{}, fmt.Errorf("generation capability: %w", err)
			}
		}
	}

	return s.exhaust(ctx, msg, attempt, result, start)
}

// approve finalizes the happy path.
func (s *DispatchService) approve(ctx context.Context, msg message.Inbound, attempt message.Attempt, result scoring.Result, iterations int, start time.Time) (message.Outcome, error) {
	s.notify.Enqueue(notifier.Notification{
		Event: notifier.EventResponseApproved,
		Payload: map[string]string{
			"sender":     msg.Sender,
			"category":   string(attempt.Category),
			"score":      formatScore(result.Overall),
			"iterations": strconv.Itoa(iterations),
			"response":   attempt.Response,
		},
	})

	outcome := message.Outcome{
		Response:   attempt.Response,
		Score:      result.Overall,
		Category:   string(attempt.Category),
		Status:     message.StatusApproved,
		Iterations: iterations,
	}
	s.finalize(ctx, msg, outcome, start)
	return outcome, nil
}

// escalateRisk handles both the keyword and the confidence escalation
// paths: enqueue a pending item, alert a human, return the canned
// acknowledgement.
func (s *DispatchService) escalateRisk(ctx context.Context, msg message.Inbound, verdict risk.Verdict, iterations int, start time.Time) (message.Outcome, error) {
	item, err := s.store.Add(ctx, msg.Sender, msg.Text, verdict.Category, verdict.Reason)
	if err != nil {
		return message.Outcome{}, fmt.Errorf("enqueue pending item: %w", err)
	}

	s.notify.Enqueue(notifier.Notification{
		Event: notifier.EventUnknownQuestion,
		Payload: map[string]string{
			"sender":        msg.Sender,
			"message":       msg.Text,
			"reason":        verdict.Reason,
			"risk_category": string(verdict.Category),
			"pending_id":    item.ID,
		},
	})

	outcome := message.Outcome{
		Response:                  s.cfg.AckMessage,
		Category:                  string(verdict.Category),
		Status:                    message.StatusHumanIntervention,
		HumanInterventionRequired: true,
		Iterations:                iterations,
		PendingID:                 item.ID,
	}
	s.finalize(ctx, msg, outcome, start)
	return outcome, nil
}

// exhaust handles the iteration-exhausted terminal. Like the risk path it
// enqueues a pending item: both escalation terminals require a human.
func (s *DispatchService) exhaust(ctx context.Context, msg message.Inbound, attempt message.Attempt, result scoring.Result, start time.Time) (message.Outcome, error) {
	reason := fmt.Sprintf("response failed the quality gate after %d revisions (final score %.4f, threshold %.2f)",
		s.cfg.MaxIterations, result.Overall, s.policy.Threshold)

	item, err := s.store.Add(ctx, msg.Sender, msg.Text, risk.CategoryNone, reason)
	if err != nil {
		return message.Outcome{}, fmt.Errorf("enqueue pending item: %w", err)
	}

	s.notify.Enqueue(notifier.Notification{
		Event: notifier.EventEvaluationFailed,
		Payload: map[string]string{
			"sender":     msg.Sender,
			"score":      formatScore(result.Overall),
			"iterations": strconv.Itoa(s.cfg.MaxIterations),
			"response":   attempt.Response,
			"feedback":   result.Feedback,
			"pending_id": item.ID,
		},
	})

	outcome := message.Outcome{
		Response:                  attempt.Response,
		Score:                     result.Overall,
		Category:                  string(attempt.Category),
		Status:                    message.StatusRevisionFailed,
		HumanInterventionRequired: true,
		Iterations:                s.cfg.MaxIterations,
		PendingID:                 item.ID,
	}
	s.finalize(ctx, msg, outcome, start)
	return outcome, nil
}

// finalize audits the fully constructed outcome exactly once, records
// metrics and caches the outcome for duplicate deliveries.
func (s *DispatchService) finalize(ctx context.Context, msg message.Inbound, outcome message.Outcome, start time.Time) {
	rec := auditlog.Record{
		Timestamp:                 time.Now().UTC(),
		Type:                      auditlog.TypeOutcome,
		Sender:                    msg.Sender,
		MessagePreview:            truncate(msg.Text, 120),
		Category:                  outcome.Category,
		Score:                     outcome.Score,
		Status:                    string(outcome.Status),
		HumanInterventionRequired: outcome.HumanInterventionRequired,
		Iterations:                outcome.Iterations,
		PendingID:                 outcome.PendingID,
		ResponsePreview:           truncate(outcome.Response, 200),
	}
	if err := s.audit.Append(ctx, rec); err != nil {
		slog.Error("audit append failed", "sender", msg.Sender, "error", err)
	}

	if s.metrics != nil {
		attrs := metric.WithAttributes(attribute.String("status", string(outcome.Status)))
		s.metrics.MessagesProcessed.Add(ctx, 1, attrs)
		if outcome.HumanInterventionRequired {
			s.metrics.Escalations.Add(ctx, 1, attrs)
		}
		s.metrics.RevisionIterations.Record(ctx, int64(outcome.Iterations))
		s.metrics.ProcessingSeconds.Record(ctx, time.Since(start).Seconds())
	}

	if s.outcomes != nil {
		data, err := json.Marshal(outcome)
		if err == nil {
			_ = s.outcomes.Set(ctx, dedupeKey(msg), data, s.cfg.DedupeTTL)
		}
	}
}

// cachedOutcome replays a previously computed outcome for an identical
// delivery within the dedupe TTL.
func (s *DispatchService) cachedOutcome(ctx context.Context, msg message.Inbound) (message.Outcome, bool) {
	if s.outcomes == nil {
		return message.Outcome{}, false
	}
	data, ok, err := s.outcomes.Get(ctx, dedupeKey(msg))
	if err != nil || !ok {
		return message.Outcome{}, false
	}
	var outcome message.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return message.Outcome{}, false
	}
	return outcome, true
}

func dedupeKey(msg message.Inbound) string {
	sum := sha256.Sum256([]byte(msg.Sender + "\x00" + msg.Text))
	return hex.EncodeToString(sum[:])
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
