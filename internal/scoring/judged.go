package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/parisab/resume-screener/internal/ai"
	"github.com/parisab/resume-screener/internal/position"
	"go.uber.org/zap"
)

// reasoning recorded for criteria the judge left out of its response.
const notProvidedReasoning = "Not provided by LLM"

// JudgedEngine delegates a whole position's scoring to an external
// language-model judge and reconciles its output back to the criteria. A
// malformed judge response fails the entire run; no partial results are
// ever returned.
type JudgedEngine struct {
	judge   ai.Judge
	timeout time.Duration
	logger  *zap.Logger
}

func NewJudgedEngine(judge ai.Judge, timeout time.Duration, logger *zap.Logger) *JudgedEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JudgedEngine{judge: judge, timeout: timeout, logger: logger}
}

// Score runs the judge under the configured timeout and guarantees exactly
// one ScoreResult per criterion, in criteria order, regardless of judge
// output quality.
func (e *JudgedEngine) Score(ctx context.Context, pos *position.Position, attrs map[string]any) (*Evaluation, error) {
	if e.judge == nil {
		return nil, fmt.Errorf("judge is not configured")
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	judgment, err := e.judge.Judge(ctx, pos, attrs)
	if err != nil {
		return nil, fmt.Errorf("judge scoring: %w", err)
	}

	results := make([]*ScoreResult, 0, len(pos.Criteria))
	for _, criterion := range pos.Criteria {
		score := matchCriterionScore(judgment.IndividualScores, criterion.Key)
		results = append(results, reconcile(criterion, score))
	}

	e.logger.Debug("judge scoring reconciled",
		zap.Int("criteria", len(pos.Criteria)),
		zap.Int("returned_scores", len(judgment.IndividualScores)),
	)

	return &Evaluation{
		Results:   results,
		Aggregate: Aggregate(results, pos.Threshold()),
	}, nil
}

// matchCriterionScore finds the judge's entry for a criterion key, exact
// match (case-insensitive) first, then substring in either direction.
func matchCriterionScore(scores []*ai.CriterionScore, key string) *ai.CriterionScore {
	lower := strings.ToLower(key)

	for _, s := range scores {
		if strings.EqualFold(s.CriterionKey, key) {
			return s
		}
	}

	for _, s := range scores {
		returned := strings.ToLower(s.CriterionKey)
		if returned == "" {
			continue
		}
		if strings.Contains(returned, lower) || strings.Contains(lower, returned) {
			return s
		}
	}

	return nil
}

// reconcile converts a judge entry into a well-formed ScoreResult, filling
// a zero-score placeholder when the judge omitted the criterion.
func reconcile(criterion *position.Criterion, score *ai.CriterionScore) *ScoreResult {
	result := &ScoreResult{
		CriterionKey:  criterion.Key,
		CriterionName: criterion.Name,
		MaxPoints:     criterion.Weight,
		Reasoning:     notProvidedReasoning,
	}

	if score == nil {
		return result
	}

	awarded := score.AwardedPoints
	if awarded < 0 {
		awarded = 0
	}
	if awarded > criterion.Weight {
		awarded = criterion.Weight
	}

	result.AwardedPoints = round2(awarded)
	if criterion.Weight > 0 {
		result.Multiplier = awarded / criterion.Weight
	}
	result.ExtractedValue = score.ExtractedValue

	if strings.TrimSpace(score.Reasoning) != "" {
		result.Reasoning = score.Reasoning
	}

	return result
}
