// Package risk implements the deterministic pre-filter that decides whether
// an employer message must bypass automated answering.
package risk

import (
	"fmt"
	"regexp"
)

// Category identifies why a message must be escalated to a human.
type Category string

const (
	CategoryNone               Category = "none"
	CategorySalaryNegotiation  Category = "salary_negotiation"
	CategoryLegalContractual   Category = "legal_contractual"
	CategoryRelocationPressure Category = "relocation_pressure"
	CategorySensitivePersonal  Category = "sensitive_personal"
	CategoryFinancialPersonal  Category = "financial_personal"
	CategoryLowConfidence      Category = "low_confidence"
)

// Verdict is the classifier's decision for one message. Produced once,
// never mutated.
type Verdict struct {
	Flagged  bool     `json:"flagged"`
	Category Category `json:"category"`
	Reason   string   `json:"reason"`
}

// rule is one ordered, category-tagged pattern. First match wins.
type rule struct {
	re       *regexp.Regexp
	category Category
}

// Default patterns cover English and Turkish synonyms per category.
// Order matters: compensation before legal, matching the escalation priority
// of the original product. Turkish terms sit outside the \b group because
// word boundaries are ASCII-only and never form next to letters like ş or ı.
var defaultRules = []rule{
	{regexp.MustCompile(`(?i)(\b(salary|compensation|pay\s?(range|scale|rate)?|wage|remuneration|minimum.*(accept|expect))\b|maaş|ücret)`),
		CategorySalaryNegotiation},
	{regexp.MustCompile(`(?i)(\b(non[- ]?compete|nda|non[- ]?disclosure|contract\s?clause|legal|lawsuit|litigation|arbitration|hukuki)\b|sözleşme|rekabet\s+yasağı)`),
		CategoryLegalContractual},
	{regexp.MustCompile(`(?i)(\b(must\s+relocate|mandatory\s+relocation|visa\s+sponsor)\b|zorunlu\s+taşınma)`),
		CategoryRelocationPressure},
	{regexp.MustCompile(`(?i)(\b(criminal\s+record|background\s+check|marital\s+status|religion|political)\b|sabıka|medeni\s+durum)`),
		CategorySensitivePersonal},
	{regexp.MustCompile(`(?i)(\b(bank\s+account|social\s+security|tax\s+id|ssn|iban)\b|banka\s+hesabı)`),
		CategoryFinancialPersonal},
}

// Classifier decides whether a message requires human handling.
// It is pure and never performs external calls, so risky messages never
// incur a generation cost.
type Classifier struct {
	rules               []rule
	confidenceThreshold float64
}

// NewClassifier creates a Classifier with the default pattern rules and the
// given minimum self-reported confidence.
func NewClassifier(confidenceThreshold float64) *Classifier {
	return &Classifier{
		rules:               defaultRules,
		confidenceThreshold: confidenceThreshold,
	}
}

// Classify scans text against the ordered pattern rules. It is the
// keyword-only form used before any generation call has produced a
// confidence value.
func (c *Classifier) Classify(text string) Verdict {
	for _, r := range c.rules {
		if r.re.MatchString(text) {
			return Verdict{
				Flagged:  true,
				Category: r.category,
				Reason: fmt.Sprintf("message contains risky content related to %q; human review required",
					r.category),
			}
		}
	}
	return Verdict{Category: CategoryNone}
}

// ClassifyWithConfidence applies the pattern rules first, then the softer
// confidence gate. A keyword match always wins over the supplied confidence.
func (c *Classifier) ClassifyWithConfidence(text string, confidence float64) Verdict {
	if v := c.Classify(text); v.Flagged {
		return v
	}
	if confidence < c.confidenceThreshold {
		return Verdict{
			Flagged:  true,
			Category: CategoryLowConfidence,
			Reason: fmt.Sprintf("self-reported confidence %.2f is below threshold %.2f; the message may be outside the candidate's expertise",
				confidence, c.confidenceThreshold),
		}
	}
	return Verdict{Category: CategoryNone}
}
