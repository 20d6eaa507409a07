package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"replydesk/internal/port/notifier"
)

type failingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (f *failingNotifier) Name() string { return "failing" }

func (f *failingNotifier) Send(_ context.Context, _ notifier.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return errors.New("provider down")
}

type blockingNotifier struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingNotifier) Name() string { return "blocking" }

func (b *blockingNotifier) Send(_ context.Context, _ notifier.Notification) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return nil
}

func TestDeliveryFailureIsNotPropagated(t *testing.T) {
	failing := &failingNotifier{}
	rec := &recordingNotifier{}
	s := NewNotificationService([]notifier.Notifier{failing, rec}, 8)

	s.Enqueue(notifier.Notification{Event: notifier.EventNewMessage})
	s.Close()

	// The failing provider must not prevent delivery to the next one.
	if failing.calls != 1 {
		t.Fatalf("expected failing notifier to be called once, got %d", failing.calls)
	}
	if len(rec.Events()) != 1 {
		t.Fatalf("expected delivery to second notifier, got %d", len(rec.Events()))
	}
}

func TestCloseDrainsQueue(t *testing.T) {
	rec := &recordingNotifier{}
	s := NewNotificationService([]notifier.Notifier{rec}, 16)

	for i := 0; i < 10; i++ {
		s.Enqueue(notifier.Notification{Event: notifier.EventNewMessage})
	}
	s.Close()

	if got := len(rec.Events()); got != 10 {
		t.Fatalf("expected all 10 notifications delivered before Close returned, got %d", got)
	}
}

func TestEnqueueOrderPreserved(t *testing.T) {
	rec := &recordingNotifier{}
	s := NewNotificationService([]notifier.Notifier{rec}, 16)

	sequence := []notifier.Event{
		notifier.EventNewMessage,
		notifier.EventResponseApproved,
		notifier.EventAdminResponse,
	}
	for _, e := range sequence {
		s.Enqueue(notifier.Notification{Event: e})
	}
	s.Close()

	events := rec.Events()
	if len(events) != len(sequence) {
		t.Fatalf("expected %d events, got %d", len(sequence), len(events))
	}
	for i, e := range sequence {
		if events[i] != e {
			t.Fatalf("expected %s at position %d, got %s", e, i, events[i])
		}
	}
}

func TestFullQueueDrops(t *testing.T) {
	blocking := &blockingNotifier{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewNotificationService([]notifier.Notifier{blocking}, 1)

	// First notification occupies the worker.
	s.Enqueue(notifier.Notification{Event: notifier.EventNewMessage})
	<-blocking.started

	// Second fills the queue, third must drop.
	s.Enqueue(notifier.Notification{Event: notifier.EventNewMessage})
	s.Enqueue(notifier.Notification{Event: notifier.EventNewMessage})

	if s.Dropped() != 1 {
		t.Fatalf("expected 1 dropped notification, got %d", s.Dropped())
	}

	close(blocking.release)
	s.Close()
}

func TestNotifierCount(t *testing.T) {
	s := NewNotificationService([]notifier.Notifier{&recordingNotifier{}, &failingNotifier{}}, 4)
	defer s.Close()

	if s.NotifierCount() != 2 {
		t.Fatalf("expected 2 notifiers, got %d", s.NotifierCount())
	}
}
