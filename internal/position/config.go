package position

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	MatchAny = "any"
	MatchAll = "all"
)

// Range awards its multiplier to numeric values v with Min <= v <= Max.
type Range struct {
	Min        float64 `mapstructure:"min"`
	Max        float64 `mapstructure:"max"`
	Multiplier float64 `mapstructure:"multiplier"`
	Label      string  `mapstructure:"label"`
}

// RangedConfig configures the ranged-number strategy.
type RangedConfig struct {
	Ranges []Range `mapstructure:"ranges"`
	Unit   string  `mapstructure:"unit"`
}

// GradedConfig configures the graded-category strategy. MinRequired only
// annotates reasoning; it never gates the awarded points.
type GradedConfig struct {
	Levels      map[string]float64 `mapstructure:"levels"`
	MinRequired string             `mapstructure:"min-required"`
}

// BooleanConfig configures the boolean strategy.
type BooleanConfig struct {
	TrueValue  float64 `mapstructure:"true-value"`
	FalseValue float64 `mapstructure:"false-value"`
}

// TextMatchConfig configures the keyword-match strategy.
type TextMatchConfig struct {
	RequiredKeywords  []string `mapstructure:"required-keywords"`
	PreferredKeywords []string `mapstructure:"preferred-keywords"`
	MatchType         string   `mapstructure:"match-type"`
}

// RangedConfig decodes the raw payload for a ranged-number criterion.
func (c *Criterion) RangedConfig() (*RangedConfig, error) {
	cfg := &RangedConfig{}
	if err := decodeConfig(c.Config, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GradedConfig decodes the raw payload for a graded-category criterion.
func (c *Criterion) GradedConfig() (*GradedConfig, error) {
	cfg := &GradedConfig{}
	if err := decodeConfig(c.Config, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BooleanConfig decodes the raw payload for a boolean criterion. Absent
// multipliers keep the conventional defaults of 1.0 and 0.0.
func (c *Criterion) BooleanConfig() (*BooleanConfig, error) {
	cfg := &BooleanConfig{TrueValue: 1.0, FalseValue: 0.0}
	if err := decodeConfig(c.Config, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TextMatchConfig decodes the raw payload for a text-match criterion. An
// empty match type falls back to "any".
func (c *Criterion) TextMatchConfig() (*TextMatchConfig, error) {
	cfg := &TextMatchConfig{}
	if err := decodeConfig(c.Config, cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.MatchType) == "" {
		cfg.MatchType = MatchAny
	}
	return cfg, nil
}

// decodeConfig maps the loosely-typed payload from the configuration file
// onto a typed strategy config. Weak typing tolerates YAML quirks such as
// integers where floats are expected.
func decodeConfig(raw map[string]any, out any) error {
	dc := &mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(dc)
	if err != nil {
		return fmt.Errorf("build config decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decode strategy config: %w", err)
	}

	return nil
}

func (cfg *RangedConfig) validate(key string) error {
	if len(cfg.Ranges) == 0 {
		return fmt.Errorf("criterion %q: ranged config needs at least one range", key)
	}

	for i, r := range cfg.Ranges {
		if r.Min > r.Max {
			return fmt.Errorf("criterion %q: range %d has min %v greater than max %v", key, i, r.Min, r.Max)
		}
		for j := i + 1; j < len(cfg.Ranges); j++ {
			other := cfg.Ranges[j]
			if r.Min <= other.Max && other.Min <= r.Max {
				return fmt.Errorf("criterion %q: ranges %d and %d overlap", key, i, j)
			}
		}
	}

	return nil
}

func (cfg *GradedConfig) validate(key string) error {
	if len(cfg.Levels) == 0 {
		return fmt.Errorf("criterion %q: graded config needs at least one level", key)
	}

	if cfg.MinRequired != "" {
		if _, ok := cfg.Levels[cfg.MinRequired]; !ok {
			return fmt.Errorf("criterion %q: min-required level %q is not defined", key, cfg.MinRequired)
		}
	}

	return nil
}

func (cfg *TextMatchConfig) validate(key string) error {
	if cfg.MatchType != MatchAny && cfg.MatchType != MatchAll {
		return fmt.Errorf("criterion %q: match-type must be %q or %q, got %q", key, MatchAny, MatchAll, cfg.MatchType)
	}
	return nil
}
