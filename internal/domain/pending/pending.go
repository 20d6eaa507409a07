// Package pending defines the pending-item entity: a message awaiting a
// human-authored response.
package pending

import (
	"time"

	"replydesk/internal/domain/risk"
)

// Status is the lifecycle state of a pending item. The only legal
// transition is pending -> answered, exactly once.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAnswered Status = "answered"
)

// ParseStatus validates a raw status filter value.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusAnswered:
		return Status(s), true
	default:
		return "", false
	}
}

// Item is a durable record of an escalated message. Created on escalation,
// mutated exactly once by the respond operation, never deleted.
type Item struct {
	ID            string        `json:"id"`
	Sender        string        `json:"sender"`
	Message       string        `json:"message"`
	RiskCategory  risk.Category `json:"risk_category"`
	Reason        string        `json:"reason"`
	CreatedAt     time.Time     `json:"created_at"`
	Status        Status        `json:"status"`
	AdminResponse string        `json:"admin_response,omitempty"`
	AnsweredAt    *time.Time    `json:"answered_at,omitempty"`
}
