// Package questions generates targeted interview questions from a
// candidate's screening outcome. Generation is best-effort: any model or
// parsing failure falls back to built-in default questions.
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"github.com/parisab/resume-screener/internal/position"
	"github.com/parisab/resume-screener/internal/scoring"
	"go.uber.org/zap"
)

//go:embed questions_prompt.md
var promptTemplate string

const expectedQuestions = 3

// Question is one generated interview question.
type Question struct {
	Text     string `json:"question_text"`
	Category string `json:"category"`
}

// TextGenerator is the minimal model surface needed for question
// generation.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	generator TextGenerator
	logger    *zap.Logger
}

func NewGenerator(generator TextGenerator, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{generator: generator, logger: logger}
}

// Generate produces three interview questions for the candidate. It never
// returns an error: on any failure the default question set is used.
func (g *Generator) Generate(ctx context.Context, pos *position.Position, attrs map[string]any, results []*scoring.ScoreResult) []*Question {
	if g.generator == nil {
		return defaultQuestions(pos)
	}

	prompt := buildPrompt(pos, attrs, results)

	raw, err := g.generator.GenerateContent(ctx, prompt)
	if err != nil {
		g.logger.Warn("question generation failed, using defaults", zap.Error(err))
		return defaultQuestions(pos)
	}

	parsed, err := parseQuestions(raw)
	if err != nil || len(parsed) != expectedQuestions {
		g.logger.Warn("unusable question generation response, using defaults",
			zap.Int("parsed", len(parsed)),
			zap.Error(err),
		)
		return defaultQuestions(pos)
	}

	return parsed
}

func buildPrompt(pos *position.Position, attrs map[string]any, results []*scoring.ScoreResult) string {
	var strengths, weaknesses []string
	for _, r := range results {
		switch {
		case r.Multiplier >= 0.8:
			strengths = append(strengths, r.CriterionName)
		case r.Multiplier < 0.5:
			weaknesses = append(weaknesses, r.CriterionName)
		}
	}

	profile := []string{
		fmt.Sprintf("- Name: %v", attrValue(attrs, "full_name")),
		fmt.Sprintf("- Experience: %v years", attrValue(attrs, "work_experience_years")),
		fmt.Sprintf("- Last role: %v", attrValue(attrs, "last_job_title")),
		fmt.Sprintf("- Education: %v in %v", attrValue(attrs, "education_level"), attrValue(attrs, "education_field")),
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{POSITION_TITLE}}", pos.Title)
	prompt = strings.ReplaceAll(prompt, "{{PROFILE}}", strings.Join(profile, "\n"))
	prompt = strings.ReplaceAll(prompt, "{{STRENGTHS}}", joinOrNone(strengths))
	return strings.ReplaceAll(prompt, "{{WEAKNESSES}}", joinOrNone(weaknesses))
}

func attrValue(attrs map[string]any, key string) any {
	if v, ok := attrs[key]; ok && v != nil {
		return v
	}
	return "N/A"
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None identified"
	}
	return strings.Join(items, ", ")
}

func parseQuestions(raw string) ([]*Question, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	if start := strings.Index(cleaned, "["); start > 0 {
		cleaned = cleaned[start:]
	}
	if end := strings.LastIndex(cleaned, "]"); end != -1 && end < len(cleaned)-1 {
		cleaned = cleaned[:end+1]
	}

	var parsed []*Question
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("parse questions response: %w", err)
	}

	questions := make([]*Question, 0, len(parsed))
	for _, q := range parsed {
		if q != nil && strings.TrimSpace(q.Text) != "" {
			questions = append(questions, q)
		}
	}

	return questions, nil
}

func defaultQuestions(pos *position.Position) []*Question {
	return []*Question{
		{
			Text:     fmt.Sprintf("Walk us through your most relevant experience for the %s role.", pos.Title),
			Category: "technical",
		},
		{
			Text:     "Tell us about a challenging situation in a previous job and how you handled it.",
			Category: "behavioral",
		},
		{
			Text:     "How would you approach your first month in this position?",
			Category: "situational",
		},
	}
}
