package scoring

import (
	"context"
	"fmt"

	"github.com/parisab/resume-screener/internal/position"
	"go.uber.org/zap"
)

// Engine is the deterministic scorer: every criterion is resolved against
// the attributes map and dispatched to its strategy scorer. The engine
// holds no mutable state and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Score evaluates every criterion of the position against the attributes
// map and aggregates the results. A malformed criterion scores zero with
// an explanatory reasoning; the run itself never fails.
func (e *Engine) Score(_ context.Context, pos *position.Position, attrs map[string]any) (*Evaluation, error) {
	results := make([]*ScoreResult, 0, len(pos.Criteria))

	for _, criterion := range pos.Criteria {
		value, found := Resolve(attrs, criterion.Key)

		result := scoreCriterion(criterion, value, found)
		results = append(results, result)

		e.logger.Debug("scored criterion",
			zap.String("criterion", criterion.Key),
			zap.Float64("awarded", result.AwardedPoints),
			zap.Float64("max", result.MaxPoints),
		)
	}

	return &Evaluation{
		Results:   results,
		Aggregate: Aggregate(results, pos.Threshold()),
	}, nil
}

// scoreCriterion dispatches one criterion to its strategy scorer. The
// switch is exhaustive over the known strategies; anything else degrades
// to a zero score instead of aborting the run.
func scoreCriterion(criterion *position.Criterion, value any, found bool) *ScoreResult {
	var (
		out outcome
		err error
	)

	switch criterion.Strategy {
	case position.StrategyRangedNumber:
		var cfg *position.RangedConfig
		if cfg, err = criterion.RangedConfig(); err == nil {
			out = scoreRangedNumber(value, criterion.Weight, cfg)
		}
	case position.StrategyGradedCategory:
		var cfg *position.GradedConfig
		if cfg, err = criterion.GradedConfig(); err == nil {
			out = scoreGradedCategory(value, criterion.Weight, cfg)
		}
	case position.StrategyBoolean:
		var cfg *position.BooleanConfig
		if cfg, err = criterion.BooleanConfig(); err == nil {
			out = scoreBoolean(value, criterion.Weight, cfg)
		}
	case position.StrategyTextMatch:
		var cfg *position.TextMatchConfig
		if cfg, err = criterion.TextMatchConfig(); err == nil {
			out = scoreTextMatch(value, criterion.Weight, cfg)
		}
	default:
		out = zeroOutcome(fmt.Sprintf("Unknown criterion strategy: %s", criterion.Strategy))
	}

	if err != nil {
		out = zeroOutcome(fmt.Sprintf("Invalid criterion configuration: %v", err))
	}

	result := &ScoreResult{
		CriterionKey:  criterion.Key,
		CriterionName: criterion.Name,
		AwardedPoints: out.awarded,
		MaxPoints:     criterion.Weight,
		Multiplier:    out.multiplier,
		Reasoning:     out.reasoning,
	}

	if criterion.Weight <= 0 {
		result.Multiplier = 0
	}

	if found && value != nil {
		result.ExtractedValue = fmt.Sprintf("%v", value)
	}

	return result
}
