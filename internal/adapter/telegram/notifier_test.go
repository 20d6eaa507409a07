package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"replydesk/internal/port/notifier"
)

func TestSendNotConfigured(t *testing.T) {
	n := NewNotifier("", "", "")

	err := n.Send(context.Background(), notifier.Notification{Event: notifier.EventNewMessage})
	if !errors.Is(err, notifier.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSendPostsToBotEndpoint(t *testing.T) {
	var gotPath string
	var gotReq sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, "token123", "chat42")
	err := n.Send(context.Background(), notifier.Notification{
		Event: notifier.EventNewMessage,
		Payload: map[string]string{
			"sender":  "hr@acme.example",
			"message": "hello",
		},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotPath != "/bottoken123/sendMessage" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotReq.ChatID != "chat42" {
		t.Fatalf("unexpected chat id %s", gotReq.ChatID)
	}
	if gotReq.ParseMode != "Markdown" {
		t.Fatalf("unexpected parse mode %s", gotReq.ParseMode)
	}
	if !strings.Contains(gotReq.Text, "hr@acme.example") {
		t.Fatalf("expected sender in rendered text, got %q", gotReq.Text)
	}
}

func TestSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, "token", "chat")
	err := n.Send(context.Background(), notifier.Notification{Event: notifier.EventNewMessage})
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestRenderMessageKnownEvents(t *testing.T) {
	tests := []struct {
		event notifier.Event
		want  string
	}{
		{notifier.EventNewMessage, "New Employer Message"},
		{notifier.EventResponseApproved, "Response Approved"},
		{notifier.EventUnknownQuestion, "Human Intervention Required"},
		{notifier.EventEvaluationFailed, "Evaluation Failed"},
		{notifier.EventAdminResponse, "Admin Response Submitted"},
	}

	for _, tt := range tests {
		text := renderMessage(notifier.Notification{Event: tt.event, Payload: map[string]string{}})
		if !strings.Contains(text, tt.want) {
			t.Errorf("event %s: expected %q in %q", tt.event, tt.want, text)
		}
	}
}

func TestRenderMessageUnknownEventFallsBack(t *testing.T) {
	text := renderMessage(notifier.Notification{Event: "mystery", Payload: map[string]string{"k": "v"}})
	if !strings.Contains(text, "mystery") {
		t.Fatalf("expected generic rendering to name the event, got %q", text)
	}
}
