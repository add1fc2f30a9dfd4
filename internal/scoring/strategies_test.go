package scoring

import (
	"strings"
	"testing"

	"github.com/parisab/resume-screener/internal/position"
)

func TestScoreRangedNumber(t *testing.T) {
	t.Parallel()

	cfg := &position.RangedConfig{
		Unit: "years",
		Ranges: []position.Range{
			{Min: 10, Max: 999, Multiplier: 1.0, Label: "Expert"},
			{Min: 5, Max: 9, Multiplier: 0.85, Label: "Senior"},
			{Min: 2, Max: 4, Multiplier: 0.5, Label: "Qualified"},
			{Min: 0, Max: 1, Multiplier: 0.15, Label: "Junior"},
		},
	}

	tests := []struct {
		name       string
		value      any
		awarded    float64
		multiplier float64
		reason     string
	}{
		{name: "expert range", value: 12.0, awarded: 20, multiplier: 1.0, reason: "Expert"},
		{name: "senior range", value: 7, awarded: 17, multiplier: 0.85, reason: "Senior"},
		{name: "numeric string", value: "3", awarded: 10, multiplier: 0.5, reason: "Qualified"},
		{name: "lower bound inclusive", value: 5, awarded: 17, multiplier: 0.85, reason: "Senior"},
		{name: "upper bound inclusive", value: 9, awarded: 17, multiplier: 0.85, reason: "Senior"},
		{name: "nil value", value: nil, awarded: 0, multiplier: 0, reason: "No value provided"},
		{name: "empty string", value: "  ", awarded: 0, multiplier: 0, reason: "No value provided"},
		{name: "non-numeric", value: "plenty", awarded: 0, multiplier: 0, reason: "Invalid numeric value"},
		{name: "outside all ranges", value: -3, awarded: 0, multiplier: 0, reason: "outside all defined ranges"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := scoreRangedNumber(tt.value, 20, cfg)

			if out.awarded != tt.awarded {
				t.Fatalf("expected awarded %v, got %v", tt.awarded, out.awarded)
			}
			if out.multiplier != tt.multiplier {
				t.Fatalf("expected multiplier %v, got %v", tt.multiplier, out.multiplier)
			}
			if !strings.Contains(out.reasoning, tt.reason) {
				t.Fatalf("expected reasoning to contain %q, got %q", tt.reason, out.reasoning)
			}
		})
	}
}

func TestScoreRangedNumberFirstMatchWins(t *testing.T) {
	// Overlaps are rejected at load time, but at scoring time the first
	// listed range still decides.
	cfg := &position.RangedConfig{
		Ranges: []position.Range{
			{Min: 0, Max: 10, Multiplier: 0.4, Label: "first"},
			{Min: 5, Max: 20, Multiplier: 1.0, Label: "second"},
		},
	}

	out := scoreRangedNumber(7, 10, cfg)
	if out.multiplier != 0.4 {
		t.Fatalf("expected first range to win, got multiplier %v", out.multiplier)
	}
}

func TestScoreGradedCategory(t *testing.T) {
	t.Parallel()

	cfg := &position.GradedConfig{
		Levels: map[string]float64{
			"Advanced":     1.0,
			"Intermediate": 0.65,
			"Basic":        0.2,
			"None":         0.0,
		},
		MinRequired: "Intermediate",
	}

	tests := []struct {
		name       string
		value      any
		awarded    float64
		multiplier float64
		reason     string
	}{
		{name: "exact match", value: "Advanced", awarded: 10, multiplier: 1.0, reason: `"Advanced"`},
		{name: "case insensitive", value: "advanced", awarded: 10, multiplier: 1.0, reason: `"Advanced"`},
		{name: "below minimum annotated", value: "Basic", awarded: 2, multiplier: 0.2, reason: "below minimum requirement"},
		{name: "no value", value: nil, awarded: 0, multiplier: 0, reason: "No skill level provided"},
		{name: "unknown label", value: "Wizard", awarded: 0, multiplier: 0, reason: "Unknown skill level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := scoreGradedCategory(tt.value, 10, cfg)

			if out.awarded != tt.awarded {
				t.Fatalf("expected awarded %v, got %v", tt.awarded, out.awarded)
			}
			if out.multiplier != tt.multiplier {
				t.Fatalf("expected multiplier %v, got %v", tt.multiplier, out.multiplier)
			}
			if !strings.Contains(out.reasoning, tt.reason) {
				t.Fatalf("expected reasoning to contain %q, got %q", tt.reason, out.reasoning)
			}
		})
	}
}

func TestScoreGradedCategoryMinRequiredIsCosmetic(t *testing.T) {
	cfg := &position.GradedConfig{
		Levels:      map[string]float64{"Advanced": 1.0, "Basic": 0.2},
		MinRequired: "Advanced",
	}

	out := scoreGradedCategory("Basic", 10, cfg)
	if out.awarded != 2 {
		t.Fatalf("min-required must not change awarded points, got %v", out.awarded)
	}
}

func TestScoreBoolean(t *testing.T) {
	t.Parallel()

	cfg := &position.BooleanConfig{TrueValue: 1.0, FalseValue: 0.0}

	truthy := []any{true, "yes", "true", "1", "Yes", " TRUE ", "بله", "دارد", 1, 2.5}
	for _, value := range truthy {
		out := scoreBoolean(value, 5, cfg)
		if out.multiplier != 1.0 {
			t.Fatalf("expected %v to be truthy, got multiplier %v", value, out.multiplier)
		}
		if !strings.Contains(out.reasoning, "Has") {
			t.Fatalf("expected affirmative reasoning, got %q", out.reasoning)
		}
	}

	falsy := []any{false, "no", nil, 0, "", "maybe"}
	for _, value := range falsy {
		out := scoreBoolean(value, 5, cfg)
		if out.multiplier != 0.0 {
			t.Fatalf("expected %v to be falsy, got multiplier %v", value, out.multiplier)
		}
		if !strings.Contains(out.reasoning, "Does not have") {
			t.Fatalf("expected negative reasoning, got %q", out.reasoning)
		}
	}
}

func TestScoreBooleanCustomMultipliers(t *testing.T) {
	cfg := &position.BooleanConfig{TrueValue: 0.9, FalseValue: 0.1}

	if out := scoreBoolean(true, 10, cfg); out.awarded != 9 {
		t.Fatalf("expected 9, got %v", out.awarded)
	}
	if out := scoreBoolean(false, 10, cfg); out.awarded != 1 {
		t.Fatalf("expected 1, got %v", out.awarded)
	}
}

func TestScoreTextMatchRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		matchType  string
		value      any
		multiplier float64
		reason     string
	}{
		{
			name: "all with partial match", matchType: position.MatchAll,
			value: "daily python scripting", multiplier: 0, reason: "Does not match required keywords",
		},
		{
			name: "all with full match", matchType: position.MatchAll,
			value: "Python services backed by SQL reports", multiplier: 1.0, reason: "Matches required keywords",
		},
		{
			name: "any with single match", matchType: position.MatchAny,
			value: "wrote sql reports", multiplier: 1.0, reason: "Matches required keywords",
		},
		{
			name: "any with no match", matchType: position.MatchAny,
			value: "warehouse bookkeeping", multiplier: 0, reason: "Does not match required keywords",
		},
		{
			name: "empty text", matchType: position.MatchAny,
			value: "", multiplier: 0, reason: "No text provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &position.TextMatchConfig{
				RequiredKeywords: []string{"python", "sql"},
				MatchType:        tt.matchType,
			}

			out := scoreTextMatch(tt.value, 10, cfg)
			if out.multiplier != tt.multiplier {
				t.Fatalf("expected multiplier %v, got %v", tt.multiplier, out.multiplier)
			}
			if !strings.Contains(out.reasoning, tt.reason) {
				t.Fatalf("expected reasoning to contain %q, got %q", tt.reason, out.reasoning)
			}
		})
	}
}

func TestScoreTextMatchPreferred(t *testing.T) {
	cfg := &position.TextMatchConfig{
		PreferredKeywords: []string{"Trading", "Import", "Export", "Commercial"},
		MatchType:         position.MatchAny,
	}

	// 2 of 4 preferred keywords: 0.5 + 0.5*2/4 = 0.75.
	out := scoreTextMatch("import and export company", 8, cfg)
	if out.multiplier != 0.75 {
		t.Fatalf("expected multiplier 0.75, got %v", out.multiplier)
	}
	if out.awarded != 6 {
		t.Fatalf("expected awarded 6, got %v", out.awarded)
	}

	// No matches still earn the floor for having text.
	out = scoreTextMatch("manufacturing plant", 8, cfg)
	if out.multiplier != 0.3 {
		t.Fatalf("expected floor multiplier 0.3, got %v", out.multiplier)
	}

	// All matches cap at 1.0.
	out = scoreTextMatch("trading import export commercial", 8, cfg)
	if out.multiplier != 1.0 {
		t.Fatalf("expected capped multiplier 1.0, got %v", out.multiplier)
	}
}

func TestScoreTextMatchNoKeywordsConfigured(t *testing.T) {
	cfg := &position.TextMatchConfig{MatchType: position.MatchAny}

	out := scoreTextMatch("any text at all", 10, cfg)
	if out.multiplier != 1.0 {
		t.Fatalf("expected full credit, got multiplier %v", out.multiplier)
	}
	if !strings.Contains(out.reasoning, "no specific keywords required") {
		t.Fatalf("unexpected reasoning: %q", out.reasoning)
	}
}

func TestRound2(t *testing.T) {
	if got := round2(13 * 0.85); got != 11.05 {
		t.Fatalf("expected 11.05, got %v", got)
	}
	if got := round2(0.1 + 0.2); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
}
