package gemini

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/parisab/resume-screener/internal/position"
)

type stubGenerator struct {
	response string
	err      error

	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.response, s.err
}

func (s *stubGenerator) Model() string { return "stub-model" }

func judgePosition() *position.Position {
	return &position.Position{
		Title:               "Accountant",
		ThresholdPercentage: 75,
		Criteria: []*position.Criterion{
			{
				Key:      "years_experience",
				Name:     "Work Experience",
				Weight:   20,
				Required: true,
				Strategy: position.StrategyRangedNumber,
				Config: map[string]any{
					"unit": "years",
					"ranges": []map[string]any{
						{"min": 5, "max": 10, "multiplier": 1.0, "label": "Ideal"},
					},
				},
			},
			{
				Key:      "sepidar_skill",
				Name:     "Sepidar Proficiency",
				Weight:   10,
				Strategy: position.StrategyGradedCategory,
				Config: map[string]any{
					"levels":       map[string]any{"Advanced": 1.0, "Basic": 0.2},
					"min-required": "Basic",
				},
			},
		},
	}
}

func TestJudge(t *testing.T) {
	generator := &stubGenerator{
		response: `{
			"individual_scores": [
				{"criterion_key": "years_experience", "awarded_points": 20, "extracted_value": "7", "reasoning": "Seven years"},
				{"criterion_key": "sepidar_skill", "awarded_points": 2, "extracted_value": "Basic", "reasoning": "Basic level"}
			],
			"evaluation_summary": "Solid profile",
			"strengths": ["experience"],
			"weaknesses": ["software skills"]
		}`,
	}

	judge := NewJudge(generator, 0, nil)
	judgment, err := judge.Judge(context.Background(), judgePosition(), map[string]any{"work_experience_years": 7})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(judgment.IndividualScores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(judgment.IndividualScores))
	}

	first := judgment.IndividualScores[0]
	if first.CriterionKey != "years_experience" || first.AwardedPoints != 20 {
		t.Fatalf("unexpected first score: %+v", first)
	}
	if first.ExtractedValue != "7" || first.Reasoning != "Seven years" {
		t.Fatalf("unexpected first score details: %+v", first)
	}

	if judgment.EvaluationSummary != "Solid profile" {
		t.Fatalf("unexpected summary: %q", judgment.EvaluationSummary)
	}
	if len(judgment.Strengths) != 1 || len(judgment.Weaknesses) != 1 {
		t.Fatalf("unexpected strengths/weaknesses: %+v", judgment)
	}
}

func TestJudgeAcceptsFencedResponse(t *testing.T) {
	generator := &stubGenerator{
		response: "```json\n{\"individual_scores\": [{\"criterion_key\": \"sepidar_skill\", \"awarded_points\": \"8\"}]}\n```",
	}

	judge := NewJudge(generator, 0, nil)
	judgment, err := judge.Judge(context.Background(), judgePosition(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	// Points returned as a string still coerce to a number.
	if judgment.IndividualScores[0].AwardedPoints != 8 {
		t.Fatalf("expected coerced points 8, got %v", judgment.IndividualScores[0].AwardedPoints)
	}
}

func TestJudgeRejectsNonJSONResponse(t *testing.T) {
	generator := &stubGenerator{response: "I cannot evaluate this candidate."}

	judge := NewJudge(generator, 0, nil)
	if _, err := judge.Judge(context.Background(), judgePosition(), nil); err == nil {
		t.Fatal("expected a parse error")
	} else if !strings.Contains(err.Error(), "parse judge response") {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestJudgePropagatesGeneratorError(t *testing.T) {
	generator := &stubGenerator{err: fmt.Errorf("quota exceeded")}

	judge := NewJudge(generator, 0, nil)
	if _, err := judge.Judge(context.Background(), judgePosition(), nil); err == nil {
		t.Fatal("expected generator error")
	} else if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestJudgePromptContents(t *testing.T) {
	generator := &stubGenerator{response: `{"individual_scores": []}`}

	judge := NewJudge(generator, 0, nil)
	attrs := map[string]any{"work_experience_years": 7, "full_name": "Sara Ahmadi"}
	if _, err := judge.Judge(context.Background(), judgePosition(), attrs); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	prompt := generator.lastPrompt

	for _, expected := range []string{
		"Accountant",
		"Work Experience (key: years_experience, weight: 20, type: ranged_number, required)",
		"5 to 10 years: x1 (Ideal)",
		"Sepidar Proficiency (key: sepidar_skill, weight: 10, type: graded_category)",
		"Advanced: x1",
		"minimum expected: Basic",
		"Sara Ahmadi",
		"work_experience_years",
	} {
		if !strings.Contains(prompt, expected) {
			t.Fatalf("expected prompt to contain %q, prompt:\n%s", expected, prompt)
		}
	}
}

func TestRenderCriteriaLevelOrder(t *testing.T) {
	criteria := []*position.Criterion{
		{
			Key:      "english",
			Name:     "English",
			Weight:   5,
			Strategy: position.StrategyGradedCategory,
			Config: map[string]any{
				"levels": map[string]any{"Basic": 0.3, "Fluent": 1.0, "Intermediate": 0.6},
			},
		},
	}

	rendered := renderCriteria(criteria)

	fluent := strings.Index(rendered, "Fluent")
	intermediate := strings.Index(rendered, "Intermediate")
	basic := strings.Index(rendered, "Basic")
	if fluent == -1 || !(fluent < intermediate && intermediate < basic) {
		t.Fatalf("expected levels ordered by multiplier, got:\n%s", rendered)
	}
}
