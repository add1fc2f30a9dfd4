// Package report renders and persists batch screening results.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/parisab/resume-screener/internal/screening"
	"github.com/parisab/resume-screener/internal/scoring"
	"go.uber.org/zap"
)

// Report is the position-level view over a batch of screening outcomes.
type Report struct {
	Position  string               `json:"position"`
	Threshold float64              `json:"threshold"`
	Outcomes  []*screening.Outcome `json:"outcomes"`
}

func New(positionTitle string, threshold float64, outcomes []*screening.Outcome) *Report {
	return &Report{
		Position:  positionTitle,
		Threshold: threshold,
		Outcomes:  outcomes,
	}
}

// ByStatus groups candidate names by their screening status. Failed
// candidates are grouped under "Failed".
func (r *Report) ByStatus() map[string][]string {
	grouped := make(map[string][]string)
	for _, outcome := range r.Outcomes {
		status := "Failed"
		if outcome.Evaluation != nil {
			status = string(outcome.Evaluation.Aggregate.Status)
		}
		grouped[status] = append(grouped[status], outcome.Candidate)
	}
	return grouped
}

// Qualified returns the outcomes whose aggregate met the threshold.
func (r *Report) Qualified() []*screening.Outcome {
	qualified := make([]*screening.Outcome, 0, len(r.Outcomes))
	for _, outcome := range r.Outcomes {
		if outcome.Evaluation != nil && outcome.Evaluation.Aggregate.Status == scoring.StatusQualified {
			qualified = append(qualified, outcome)
		}
	}
	return qualified
}

// DumpToTmpFile writes the full report as indented JSON to a temporary
// file and returns its name.
func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "screening_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Log writes one summary line per candidate plus its assessment.
func (r *Report) Log(logger *zap.Logger) {
	if logger == nil {
		return
	}

	for _, outcome := range r.Outcomes {
		if outcome.Evaluation == nil {
			logger.Warn("candidate failed",
				zap.String("candidate", outcome.Candidate),
				zap.String("error", outcome.Error),
			)
			continue
		}

		agg := outcome.Evaluation.Aggregate
		logger.Info(fmt.Sprintf("%s: %.2f%% (%s)", outcome.Candidate, agg.Percentage, agg.Status),
			zap.Float64("total", agg.TotalScore),
			zap.Float64("max", agg.MaxPossibleScore),
			zap.String("assessment", agg.Assessment),
		)
	}
}
