// Package message defines the inbound message, generation attempt and
// terminal outcome entities of the reply pipeline.
package message

// Inbound is an employer message as received. Immutable once constructed.
type Inbound struct {
	Sender string `json:"sender"`
	Text   string `json:"message"`
}

// Category classifies what kind of reply an attempt is.
type Category string

const (
	CategoryInterviewInvitation Category = "interview_invitation"
	CategoryTechnicalQuestion   Category = "technical_question"
	CategoryOfferDecline        Category = "offer_decline"
	CategoryClarification       Category = "clarification"
	CategoryUnknown             Category = "unknown"
)

// ParseCategory maps a raw string onto a known Category.
// Unrecognized values collapse to CategoryUnknown rather than passing through.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryInterviewInvitation, CategoryTechnicalQuestion,
		CategoryOfferDecline, CategoryClarification:
		return Category(s)
	default:
		return CategoryUnknown
	}
}

// Attempt is one generation pass over an inbound message.
// Prior attempts are only kept as loop context for revision requests.
type Attempt struct {
	Response   string   `json:"response"`
	Confidence float64  `json:"confidence"`
	Category   Category `json:"category"`

	// Fallback reports that the generation capability's output could not be
	// parsed and Response holds the raw model text with a stub confidence.
	Fallback bool `json:"-"`
}

// Status is the terminal state of a processed message.
type Status string

const (
	StatusApproved          Status = "approved"
	StatusRevisionFailed    Status = "revision_failed"
	StatusHumanIntervention Status = "human_intervention"
)

// Outcome is the single terminal result of processing one inbound message.
// Category carries the attempt category for automated replies and the risk
// category for escalations, matching the persisted audit contract.
type Outcome struct {
	Response                  string  `json:"response"`
	Score                     float64 `json:"evaluator_score"`
	Category                  string  `json:"category"`
	Status                    Status  `json:"status"`
	HumanInterventionRequired bool    `json:"human_intervention_required"`
	Iterations                int     `json:"iterations"`
	PendingID                 string  `json:"pending_id,omitempty"`
}
