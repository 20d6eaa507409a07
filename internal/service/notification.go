// Package service contains application services.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"replydesk/internal/port/notifier"
)

// deliveryTimeout bounds one delivery attempt per notifier.
const deliveryTimeout = 10 * time.Second

// NotificationService dispatches notifications to all registered notifiers
// through a bounded queue with a single worker. Enqueue never blocks and
// delivery failures are logged, never propagated, so notification dispatch
// cannot stall or fail the message flow. The single worker preserves
// enqueue order, keeping the "new message" notification ahead of any
// terminal notification for the same flow.
type NotificationService struct {
	notifiers []notifier.Notifier
	ch        chan notifier.Notification
	wg        sync.WaitGroup
	dropped   atomic.Int64
	closeOnce sync.Once
}

// NewNotificationService creates the dispatcher and starts its worker.
func NewNotificationService(notifiers []notifier.Notifier, queueSize int) *NotificationService {
	if queueSize < 1 {
		queueSize = 64
	}
	s := &NotificationService{
		notifiers: notifiers,
		ch:        make(chan notifier.Notification, queueSize),
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

// Enqueue queues a notification for asynchronous delivery. Drops with a
// warning if the queue is full.
func (s *NotificationService) Enqueue(n notifier.Notification) {
	select {
	case s.ch <- n:
	default:
		s.dropped.Add(1)
		slog.Warn("notification queue full, dropping", "event", n.Event)
	}
}

// Dropped returns the number of notifications dropped due to a full queue.
func (s *NotificationService) Dropped() int64 {
	return s.dropped.Load()
}

// NotifierCount returns the number of registered notifiers.
func (s *NotificationService) NotifierCount() int {
	return len(s.notifiers)
}

// Close stops accepting notifications and waits for the queue to drain.
func (s *NotificationService) Close() {
	s.closeOnce.Do(func() {
		close(s.ch)
	})
	s.wg.Wait()
}

func (s *NotificationService) drain() {
	defer s.wg.Done()
	for n := range s.ch {
		s.deliver(n)
	}
}

// deliver sends one notification to every notifier. Errors are logged but
// do not interrupt delivery to other notifiers.
func (s *NotificationService) deliver(n notifier.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	for _, provider := range s.notifiers {
		err := provider.Send(ctx, n)
		switch {
		case err == nil:
			slog.Debug("notification sent", "provider", provider.Name(), "event", n.Event)
		case errors.Is(err, notifier.ErrNotConfigured):
			slog.Debug("notifier not configured, skipping", "provider", provider.Name())
		default:
			slog.Warn("notification send failed",
				"provider", provider.Name(),
				"event", n.Event,
				"error", err,
			)
		}
	}
}
