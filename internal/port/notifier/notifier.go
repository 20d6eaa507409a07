// Package notifier defines the outbound alert port.
package notifier

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a notifier is not properly configured.
var ErrNotConfigured = errors.New("notifier: not configured")

// Event identifies which pipeline event a notification reports.
type Event string

const (
	EventNewMessage       Event = "new_message"
	EventResponseApproved Event = "response_approved"
	EventUnknownQuestion  Event = "unknown_question"
	EventEvaluationFailed Event = "evaluation_failed"
	EventAdminResponse    Event = "admin_response"
)

// Notification is the payload sent through a Notifier.
type Notification struct {
	Event   Event             `json:"event"`
	Payload map[string]string `json:"payload"`
}

// Notifier is the port interface for delivering notifications. Delivery is
// best-effort: callers log failures and never propagate them into the
// message flow.
type Notifier interface {
	// Name returns the unique identifier for this notifier (e.g. "telegram").
	Name() string

	// Send delivers a notification.
	Send(ctx context.Context, n Notification) error
}
