package position

import (
	"fmt"
	"strings"
)

const defaultThreshold = 75

// Strategy selects the scoring algorithm family for a criterion.
type Strategy string

const (
	StrategyRangedNumber   Strategy = "ranged_number"
	StrategyGradedCategory Strategy = "graded_category"
	StrategyBoolean        Strategy = "boolean"
	StrategyTextMatch      Strategy = "text_match"
)

func (s Strategy) Known() bool {
	switch s {
	case StrategyRangedNumber, StrategyGradedCategory, StrategyBoolean, StrategyTextMatch:
		return true
	}
	return false
}

// Position describes one open role and its weighted evaluation criteria.
type Position struct {
	Title               string       `mapstructure:"title"`
	Description         string       `mapstructure:"description"`
	ThresholdPercentage float64      `mapstructure:"threshold-percentage"`
	Criteria            []*Criterion `mapstructure:"criteria"`
}

// Criterion is a single weighted evaluation rule attached to a position.
// Config holds the raw strategy-specific payload as declared in the
// configuration file; typed accessors decode it on demand.
type Criterion struct {
	Key          string         `mapstructure:"key"`
	Name         string         `mapstructure:"name"`
	Category     string         `mapstructure:"category"`
	Weight       float64        `mapstructure:"weight"`
	Required     bool           `mapstructure:"required"`
	Strategy     Strategy       `mapstructure:"strategy"`
	Config       map[string]any `mapstructure:"config"`
	DisplayOrder int            `mapstructure:"display-order"`
}

// Threshold returns the qualification threshold clamped into [0, 100],
// falling back to the default when unset.
func (p *Position) Threshold() float64 {
	t := p.ThresholdPercentage
	if t == 0 {
		return defaultThreshold
	}
	if t < 0 {
		return 0
	}
	if t > 100 {
		return 100
	}
	return t
}

// Validate checks the position and every criterion attached to it. It is
// meant to run once at load time; the scoring engine itself never refuses
// a criterion, it only degrades to a zero score.
func (p *Position) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("position title is required")
	}

	if len(p.Criteria) == 0 {
		return fmt.Errorf("position %q has no criteria", p.Title)
	}

	seen := make(map[string]bool, len(p.Criteria))
	for _, c := range p.Criteria {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.Key] {
			return fmt.Errorf("duplicate criterion key %q", c.Key)
		}
		seen[c.Key] = true
	}

	return nil
}

// Validate checks the criterion's declaration and that its config payload
// decodes into the structure its strategy expects.
func (c *Criterion) Validate() error {
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("criterion key is required")
	}

	if c.Weight < 0 {
		return fmt.Errorf("criterion %q: weight must be non-negative, got %v", c.Key, c.Weight)
	}

	if !c.Strategy.Known() {
		return fmt.Errorf("criterion %q: unknown strategy %q", c.Key, c.Strategy)
	}

	switch c.Strategy {
	case StrategyRangedNumber:
		cfg, err := c.RangedConfig()
		if err != nil {
			return fmt.Errorf("criterion %q: %w", c.Key, err)
		}
		return cfg.validate(c.Key)
	case StrategyGradedCategory:
		cfg, err := c.GradedConfig()
		if err != nil {
			return fmt.Errorf("criterion %q: %w", c.Key, err)
		}
		return cfg.validate(c.Key)
	case StrategyBoolean:
		if _, err := c.BooleanConfig(); err != nil {
			return fmt.Errorf("criterion %q: %w", c.Key, err)
		}
	case StrategyTextMatch:
		cfg, err := c.TextMatchConfig()
		if err != nil {
			return fmt.Errorf("criterion %q: %w", c.Key, err)
		}
		return cfg.validate(c.Key)
	}

	return nil
}
