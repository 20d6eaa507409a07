// Package telegram implements a notifier.Notifier for the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"replydesk/internal/port/notifier"
)

const providerName = "telegram"

// DefaultAPIBase is the production Telegram Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

// Notifier sends notifications through a Telegram bot chat.
type Notifier struct {
	apiBase    string
	botToken   string
	chatID     string
	httpClient *http.Client
}

// NewNotifier creates a Telegram notifier. apiBase is overridable for tests.
func NewNotifier(apiBase, botToken, chatID string) *Notifier {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Notifier{
		apiBase:    apiBase,
		botToken:   botToken,
		chatID:     chatID,
		httpClient: http.DefaultClient,
	}
}

func (n *Notifier) Name() string { return providerName }

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send renders the notification as Markdown and posts it to the bot chat.
func (n *Notifier) Send(ctx context.Context, notification notifier.Notification) error {
	if n.botToken == "" || n.chatID == "" {
		return notifier.ErrNotConfigured
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      renderMessage(notification),
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("telegram marshal: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// renderMessage formats an event into a human-readable Markdown message.
// Unknown events fall back to a generic dump of the payload.
func renderMessage(n notifier.Notification) string {
	p := n.Payload

	switch n.Event {
	case notifier.EventNewMessage:
		return fmt.Sprintf("📩 *New Employer Message*\n\nFrom: %s\nMessage:\n%s",
			p["sender"], p["message"])
	case notifier.EventResponseApproved:
		return fmt.Sprintf("✅ *Response Approved*\n\nTo: %s\nCategory: %s\nScore: %s\nIterations: %s\n\nResponse:\n%s",
			p["sender"], p["category"], p["score"], p["iterations"], p["response"])
	case notifier.EventUnknownQuestion:
		return fmt.Sprintf("⚠️ *Human Intervention Required*\n\nFrom: %s\nReason: %s\nRisk Category: %s\nPending ID: `%s`\n\nOriginal Message:\n%s",
			p["sender"], p["reason"], p["risk_category"], p["pending_id"], p["message"])
	case notifier.EventEvaluationFailed:
		return fmt.Sprintf("❌ *Evaluation Failed — Human Review Needed*\n\nFrom: %s\nFinal Score: %s\nIterations Used: %s\nPending ID: `%s`\n\nLast Response:\n%s\n\nFeedback:\n%s",
			p["sender"], p["score"], p["iterations"], p["pending_id"], p["response"], p["feedback"])
	case notifier.EventAdminResponse:
		return fmt.Sprintf("✍️ *Admin Response Submitted*\n\nOriginal Sender: %s\nPending ID: `%s`\n\nOriginal Message:\n%s\n\nAdmin Response:\n%s",
			p["sender"], p["pending_id"], p["message"], p["response"])
	default:
		return fmt.Sprintf("🔔 *Notification*\n\nEvent: %s\nPayload: %v", n.Event, p)
	}
}
