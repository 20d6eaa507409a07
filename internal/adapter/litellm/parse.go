package litellm

import (
	"encoding/json"
	"regexp"

	"replydesk/internal/domain/message"
	"replydesk/internal/domain/scoring"
	"replydesk/internal/port/evaluator"
)

// Models occasionally wrap their JSON in a markdown fence despite the
// response_format instruction.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// extractJSON returns the JSON object embedded in model output, trying the
// raw content first and a fenced block second.
func extractJSON(content string) ([]byte, bool) {
	if json.Valid([]byte(content)) {
		return []byte(content), true
	}
	if m := fencedJSON.FindStringSubmatch(content); m != nil {
		if json.Valid([]byte(m[1])) {
			return []byte(m[1]), true
		}
	}
	return nil, false
}

// Fallback confidence for unparseable generation output. Low enough to trip
// the classifier's confidence gate so the stub escalates instead of being
// sent.
const fallbackConfidence = 0.3

type attemptPayload struct {
	Response   string  `json:"response"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category"`
}

// parseAttempt converts raw model content into an Attempt. Unparseable
// content yields a fallback attempt carrying the raw text.
func parseAttempt(content string) message.Attempt {
	data, ok := extractJSON(content)
	if !ok {
		return message.Attempt{
			Response:   content,
			Confidence: fallbackConfidence,
			Category:   message.CategoryUnknown,
			Fallback:   true,
		}
	}

	var p attemptPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return message.Attempt{
			Response:   content,
			Confidence: fallbackConfidence,
			Category:   message.CategoryUnknown,
			Fallback:   true,
		}
	}

	return message.Attempt{
		Response:   p.Response,
		Confidence: p.Confidence,
		Category:   message.ParseCategory(p.Category),
	}
}

type verdictPayload struct {
	Scores   map[string]float64 `json:"scores"`
	Feedback string             `json:"feedback"`
}

// parseVerdict converts raw judge content into a Verdict. Missing sub-scores
// default to 0; fully unparseable content yields neutral fallback scores
// that force another revision or escalation.
func parseVerdict(content string) evaluator.Verdict {
	data, ok := extractJSON(content)
	if !ok {
		return fallbackVerdict()
	}

	var p verdictPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Scores == nil {
		return fallbackVerdict()
	}

	return evaluator.Verdict{
		Scores: scoring.CriterionScores{
			ProfessionalTone: p.Scores["professional_tone"],
			Clarity:          p.Scores["clarity"],
			Completeness:     p.Scores["completeness"],
			Safety:           p.Scores["safety"],
			Relevance:        p.Scores["relevance"],
		},
		Feedback: p.Feedback,
	}
}

func fallbackVerdict() evaluator.Verdict {
	return evaluator.Verdict{
		Scores:   scoring.Neutral(),
		Feedback: "evaluator output could not be parsed; manual review recommended",
		Fallback: true,
	}
}
