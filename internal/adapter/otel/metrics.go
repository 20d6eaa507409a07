// Package otel provides OpenTelemetry instrumentation for replydesk.
package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "replydesk"

// Metrics holds all replydesk metric instruments.
type Metrics struct {
	MessagesProcessed  metric.Int64Counter
	Escalations        metric.Int64Counter
	RevisionIterations metric.Int64Histogram
	ProcessingSeconds  metric.Float64Histogram
}

// NewMetrics creates all metric instruments off the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.MessagesProcessed, err = meter.Int64Counter("replydesk.messages.processed",
		metric.WithDescription("Number of messages processed, by terminal status"))
	if err != nil {
		return nil, err
	}

	m.Escalations, err = meter.Int64Counter("replydesk.escalations",
		metric.WithDescription("Number of messages escalated to a human"))
	if err != nil {
		return nil, err
	}

	m.RevisionIterations, err = meter.Int64Histogram("replydesk.revision.iterations",
		metric.WithDescription("Revision iterations used per message"))
	if err != nil {
		return nil, err
	}

	m.ProcessingSeconds, err = meter.Float64Histogram("replydesk.processing.duration_seconds",
		metric.WithDescription("End-to-end message processing duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
