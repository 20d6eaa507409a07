// Package scoring recomputes the trusted quality score for generated
// replies. The evaluator capability's own arithmetic is never trusted: it
// may report an overall score inconsistent with its sub-scores, so this
// policy is the single source of truth for the pass/fail decision.
package scoring

import "math"

// Fixed criterion weights. They must sum to 1.
const (
	WeightProfessionalTone = 0.25
	WeightClarity          = 0.20
	WeightCompleteness     = 0.20
	WeightSafety           = 0.25
	WeightRelevance        = 0.10
)

// CriterionScores holds the five per-criterion sub-scores, each in [0,1].
type CriterionScores struct {
	ProfessionalTone float64 `json:"professional_tone"`
	Clarity          float64 `json:"clarity"`
	Completeness     float64 `json:"completeness"`
	Safety           float64 `json:"safety"`
	Relevance        float64 `json:"relevance"`
}

// Neutral returns the conservative scores substituted when evaluator output
// cannot be parsed. Neutral scores sit below any sane threshold so the flow
// revises or escalates instead of silently passing.
func Neutral() CriterionScores {
	return CriterionScores{
		ProfessionalTone: 0.5,
		Clarity:          0.5,
		Completeness:     0.5,
		Safety:           0.5,
		Relevance:        0.5,
	}
}

// clamp bounds every sub-score to [0,1].
func (c CriterionScores) clamp() CriterionScores {
	f := func(v float64) float64 {
		return math.Min(1, math.Max(0, v))
	}
	return CriterionScores{
		ProfessionalTone: f(c.ProfessionalTone),
		Clarity:          f(c.Clarity),
		Completeness:     f(c.Completeness),
		Safety:           f(c.Safety),
		Relevance:        f(c.Relevance),
	}
}

// Result is the trusted evaluation of one generation attempt.
type Result struct {
	Scores   CriterionScores `json:"scores"`
	Overall  float64         `json:"overall_score"`
	Feedback string          `json:"feedback"`
	Approved bool            `json:"approved"`
}

// Policy decides pass/fail against a configured threshold.
type Policy struct {
	Threshold float64
}

// Score derives the weighted overall score and the approval decision from
// raw sub-scores. fallback marks evaluator output that could not be parsed;
// such results are never approved regardless of the substituted scores.
func (p Policy) Score(scores CriterionScores, feedback string, fallback bool) Result {
	scores = scores.clamp()

	overall := scores.ProfessionalTone*WeightProfessionalTone +
		scores.Clarity*WeightClarity +
		scores.Completeness*WeightCompleteness +
		scores.Safety*WeightSafety +
		scores.Relevance*WeightRelevance
	overall = math.Round(overall*10000) / 10000

	return Result{
		Scores:   scores,
		Overall:  overall,
		Feedback: feedback,
		Approved: !fallback && overall >= p.Threshold,
	}
}
