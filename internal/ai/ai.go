package ai

import (
	"context"

	"github.com/parisab/resume-screener/internal/position"
)

// CriterionScore is one criterion's verdict as returned by a judge.
type CriterionScore struct {
	CriterionKey   string  `json:"criterion_key"`
	AwardedPoints  float64 `json:"awarded_points"`
	ExtractedValue string  `json:"extracted_value"`
	Reasoning      string  `json:"reasoning"`
}

// Judgment is the full structured output of a judge call. Only the
// individual scores are required; summary, strengths and weaknesses are
// informational extras the provider may or may not return.
type Judgment struct {
	IndividualScores  []*CriterionScore `json:"individual_scores"`
	EvaluationSummary string            `json:"evaluation_summary,omitempty"`
	Strengths         []string          `json:"strengths,omitempty"`
	Weaknesses        []string          `json:"weaknesses,omitempty"`
}

// Judge asks an external language model to score a candidate's attributes
// against every criterion of a position in one call.
type Judge interface {
	Judge(ctx context.Context, pos *position.Position, attrs map[string]any) (*Judgment, error)
}

// Extractor turns raw resume text into the flat attributes map consumed by
// the scoring engine.
type Extractor interface {
	Extract(ctx context.Context, pos *position.Position, resumeText string) (map[string]any, error)
}
