package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/parisab/resume-screener/internal/position"
)

// outcome is what a single strategy scorer produces: the points awarded,
// the fraction of the weight they represent and a human-readable reason.
type outcome struct {
	awarded    float64
	multiplier float64
	reasoning  string
}

func zeroOutcome(reasoning string) outcome {
	return outcome{reasoning: reasoning}
}

// scoreRangedNumber awards the multiplier of the first configured range
// containing the numeric value. Ranges are assumed disjoint; load-time
// validation rejects overlaps.
func scoreRangedNumber(value any, weight float64, cfg *position.RangedConfig) outcome {
	if isEmpty(value) {
		return zeroOutcome("No value provided")
	}

	v, ok := toFloat(value)
	if !ok {
		return zeroOutcome(fmt.Sprintf("Invalid numeric value: %v", value))
	}

	for _, r := range cfg.Ranges {
		if r.Min <= v && v <= r.Max {
			label := r.Label
			if label == "" {
				label = "N/A"
			}
			return outcome{
				awarded:    round2(weight * r.Multiplier),
				multiplier: r.Multiplier,
				reasoning: fmt.Sprintf("Value %s %s falls in %q range (x%.0f%%)",
					formatNumber(v), cfg.Unit, label, r.Multiplier*100),
			}
		}
	}

	return zeroOutcome(fmt.Sprintf("Value %s %s outside all defined ranges", formatNumber(v), cfg.Unit))
}

// scoreGradedCategory matches the value against the configured levels,
// exact match first, then case-insensitive. The min-required annotation is
// cosmetic only and never changes the awarded points.
func scoreGradedCategory(value any, weight float64, cfg *position.GradedConfig) outcome {
	if isEmpty(value) {
		return zeroOutcome("No skill level provided")
	}

	level := strings.TrimSpace(fmt.Sprintf("%v", value))

	if multiplier, ok := cfg.Levels[level]; ok {
		return gradedOutcome(level, multiplier, weight, cfg)
	}

	for key, multiplier := range cfg.Levels {
		if strings.EqualFold(key, level) {
			return gradedOutcome(key, multiplier, weight, cfg)
		}
	}

	return zeroOutcome(fmt.Sprintf("Unknown skill level %q - not in defined categories", level))
}

func gradedOutcome(level string, multiplier, weight float64, cfg *position.GradedConfig) outcome {
	reasoning := fmt.Sprintf("Skill level %q (x%.0f%%)", level, multiplier*100)
	if cfg.MinRequired != "" && multiplier < cfg.Levels[cfg.MinRequired] {
		reasoning += fmt.Sprintf(" - below minimum requirement %q", cfg.MinRequired)
	}

	return outcome{
		awarded:    round2(weight * multiplier),
		multiplier: multiplier,
		reasoning:  reasoning,
	}
}

// affirmatives are string values treated as true by the boolean scorer.
// The last two are the Persian "yes" and "has".
var affirmatives = []string{"yes", "true", "1", "بله", "دارد"}

// scoreBoolean coerces any value to a truth decision and awards the
// configured multiplier for it. It never fails.
func scoreBoolean(value any, weight float64, cfg *position.BooleanConfig) outcome {
	detected := false
	switch v := value.(type) {
	case nil:
	case bool:
		detected = v
	case string:
		lower := strings.ToLower(strings.TrimSpace(v))
		for _, a := range affirmatives {
			if lower == a {
				detected = true
				break
			}
		}
	default:
		if f, ok := toFloat(value); ok {
			detected = f != 0
		} else {
			detected = true
		}
	}

	multiplier := cfg.FalseValue
	verb := "Does not have"
	if detected {
		multiplier = cfg.TrueValue
		verb = "Has"
	}

	return outcome{
		awarded:    round2(weight * multiplier),
		multiplier: multiplier,
		reasoning:  fmt.Sprintf("%s the trait (x%.0f%%)", verb, multiplier*100),
	}
}

// scoreTextMatch performs case-insensitive substring keyword matching.
// Required keywords gate the full multiplier; preferred keywords earn
// graduated partial credit; with no keywords configured any text earns
// full credit.
func scoreTextMatch(value any, weight float64, cfg *position.TextMatchConfig) outcome {
	if isEmpty(value) {
		return zeroOutcome("No text provided")
	}

	text := strings.ToLower(fmt.Sprintf("%v", value))

	switch {
	case len(cfg.RequiredKeywords) > 0:
		matched := matchKeywords(text, cfg.RequiredKeywords)

		met := len(matched) > 0
		if cfg.MatchType == position.MatchAll {
			met = len(matched) == len(cfg.RequiredKeywords)
		}

		if !met {
			return zeroOutcome(fmt.Sprintf("Does not match required keywords (needed: %s)",
				strings.Join(cfg.RequiredKeywords, ", ")))
		}

		return outcome{
			awarded:    round2(weight),
			multiplier: 1.0,
			reasoning:  fmt.Sprintf("Matches required keywords: %s", strings.Join(matched, ", ")),
		}

	case len(cfg.PreferredKeywords) > 0:
		matched := matchKeywords(text, cfg.PreferredKeywords)
		if len(matched) == 0 {
			// Credit for having any text at all.
			const floor = 0.3
			return outcome{
				awarded:    round2(weight * floor),
				multiplier: floor,
				reasoning:  "No preferred keywords matched (minimal score)",
			}
		}

		multiplier := math.Min(1.0, 0.5+0.5*float64(len(matched))/float64(len(cfg.PreferredKeywords)))
		return outcome{
			awarded:    round2(weight * multiplier),
			multiplier: multiplier,
			reasoning: fmt.Sprintf("Matches preferred keywords: %s (x%.0f%%)",
				strings.Join(matched, ", "), multiplier*100),
		}

	default:
		return outcome{
			awarded:    round2(weight),
			multiplier: 1.0,
			reasoning:  "Text provided (no specific keywords required)",
		}
	}
}

func matchKeywords(text string, keywords []string) []string {
	matched := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			matched = append(matched, keyword)
		}
	}
	return matched
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
