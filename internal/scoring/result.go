package scoring

import (
	"context"

	"github.com/parisab/resume-screener/internal/position"
)

// Status is the position-level verdict for one candidate.
type Status string

const (
	StatusQualified Status = "Qualified"
	StatusRejected  Status = "Rejected"
)

// ScoreResult is one criterion's outcome for one candidate. Results are
// created fresh on every scoring run and never mutated afterwards.
type ScoreResult struct {
	CriterionKey   string  `json:"criterion_key"`
	CriterionName  string  `json:"criterion_name"`
	AwardedPoints  float64 `json:"awarded_points"`
	MaxPoints      float64 `json:"max_points"`
	Multiplier     float64 `json:"multiplier"`
	ExtractedValue string  `json:"extracted_value,omitempty"`
	Reasoning      string  `json:"reasoning"`
}

// AggregateResult is the position-level outcome derived entirely from the
// per-criterion results and the position threshold.
type AggregateResult struct {
	TotalScore       float64 `json:"total_score"`
	MaxPossibleScore float64 `json:"max_possible_score"`
	Percentage       float64 `json:"percentage"`
	Threshold        float64 `json:"threshold"`
	Status           Status  `json:"status"`
	Assessment       string  `json:"assessment"`
}

// Evaluation bundles the per-criterion results with their aggregate.
type Evaluation struct {
	Results   []*ScoreResult   `json:"individual_scores"`
	Aggregate *AggregateResult `json:"aggregate"`
}

// Scorer produces a complete evaluation of one candidate's attributes
// against a position. Implementations must be safe for concurrent use
// across candidates: all state is passed in and returned.
type Scorer interface {
	Score(ctx context.Context, pos *position.Position, attrs map[string]any) (*Evaluation, error)
}
