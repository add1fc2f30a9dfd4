package scoring

import (
	"fmt"
	"strings"
)

const (
	strongMultiplier = 0.8
	weakMultiplier   = 0.5
)

// Aggregate reduces per-criterion results into the position-level outcome.
// The threshold is the minimum percentage required to qualify.
func Aggregate(results []*ScoreResult, threshold float64) *AggregateResult {
	var total, max float64
	for _, r := range results {
		total += r.AwardedPoints
		max += r.MaxPoints
	}

	percentage := 0.0
	if max > 0 {
		percentage = round2(100 * total / max)
	}

	status := StatusRejected
	if percentage >= threshold {
		status = StatusQualified
	}

	return &AggregateResult{
		TotalScore:       round2(total),
		MaxPossibleScore: max,
		Percentage:       percentage,
		Threshold:        threshold,
		Status:           status,
		Assessment:       assessment(results, percentage, threshold, status),
	}
}

// assessment renders the human-readable narrative. Pure text templating
// over the already-computed numbers.
func assessment(results []*ScoreResult, percentage, threshold float64, status Status) string {
	var strong, weak int
	for _, r := range results {
		if r.Multiplier >= strongMultiplier {
			strong++
		}
		if r.Multiplier < weakMultiplier {
			weak++
		}
	}

	parts := make([]string, 0, 3)

	if status == StatusQualified {
		switch {
		case percentage >= 90:
			parts = append(parts, "Excellent candidate: exceeds requirements significantly.")
		case percentage >= 80:
			parts = append(parts, "Strong candidate: meets all key requirements.")
		default:
			parts = append(parts, "Qualified candidate: meets minimum requirements.")
		}
	} else {
		parts = append(parts, fmt.Sprintf("Below threshold by %.1f percentage points.", threshold-percentage))
	}

	if strong > 0 {
		parts = append(parts, fmt.Sprintf("Strengths: excellent performance in %d criteria.", strong))
	}

	if weak > 0 {
		parts = append(parts, fmt.Sprintf("Areas for improvement: %d criteria below expectations.", weak))
	}

	return strings.Join(parts, " ")
}
