// Package natsbus implements a notifier.Notifier that publishes pipeline
// events to NATS for downstream consumers (dashboards, archival, bots).
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"replydesk/internal/port/notifier"
)

const providerName = "nats"

// subjectPrefix namespaces all published events.
const subjectPrefix = "replydesk.events."

// Notifier publishes notifications as JSON events on NATS subjects.
type Notifier struct {
	nc *nats.Conn
}

// Connect establishes the NATS connection.
func Connect(url string) (*Notifier, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	slog.Info("nats connected", "url", url)
	return &Notifier{nc: nc}, nil
}

func (n *Notifier) Name() string { return providerName }

// event is the wire format published to NATS.
type event struct {
	Event     notifier.Event    `json:"event"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   map[string]string `json:"payload"`
}

// Send publishes the notification on replydesk.events.<event>.
func (n *Notifier) Send(_ context.Context, notification notifier.Notification) error {
	if n.nc == nil {
		return notifier.ErrNotConfigured
	}

	data, err := json.Marshal(event{
		Event:     notification.Event,
		Timestamp: time.Now().UTC(),
		Payload:   notification.Payload,
	})
	if err != nil {
		return fmt.Errorf("nats marshal: %w", err)
	}

	subject := subjectPrefix + string(notification.Event)
	if err := n.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// Close shuts down the NATS connection.
func (n *Notifier) Close() {
	if n.nc != nil {
		n.nc.Close()
	}
}
