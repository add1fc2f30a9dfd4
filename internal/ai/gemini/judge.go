package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/parisab/resume-screener/internal/ai"
	"github.com/parisab/resume-screener/internal/position"
	"github.com/parisab/resume-screener/internal/utils"
	"go.uber.org/zap"
)

//go:embed judge_prompt.md
var judgePromptTemplate string

const defaultMaxLogLength = 200

// DefaultJudgeTimeout bounds one judge call when no timeout is configured.
const DefaultJudgeTimeout = 2 * time.Minute

// contentGenerator is the narrow generator surface the judge and extractor
// depend on; tests supply stubs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Judge implements ai.Judge on top of a Gemini content generator: one
// prompt per position enumerating every criterion's configuration and the
// candidate's attributes, one structured JSON response back.
type Judge struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewJudge(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Judge {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Judge{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Judge sends the rendered scoring prompt and parses the structured
// response. A response that is not JSON is a hard error; the caller treats
// the whole scoring run as failed.
func (j *Judge) Judge(ctx context.Context, pos *position.Position, attrs map[string]any) (*ai.Judgment, error) {
	if pos == nil {
		return nil, fmt.Errorf("position is required")
	}

	attrsJSON, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal attributes: %w", err)
	}

	prompt := buildJudgePrompt(pos, string(attrsJSON))

	j.logger.Debug("judge request",
		zap.String("position", pos.Title),
		zap.Int("criteria", len(pos.Criteria)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, j.maxLogLen)),
	)

	raw, err := j.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	j.logger.Debug("judge response",
		zap.String("position", pos.Title),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	return parseJudgment(raw)
}

func buildJudgePrompt(pos *position.Position, attrsJSON string) string {
	prompt := strings.ReplaceAll(judgePromptTemplate, "{{POSITION_TITLE}}", pos.Title)
	prompt = strings.ReplaceAll(prompt, "{{CRITERIA}}", renderCriteria(pos.Criteria))
	return strings.ReplaceAll(prompt, "{{ATTRIBUTES_JSON}}", attrsJSON)
}

// renderCriteria lists every criterion with its weight and the bullet
// points of its strategy-specific configuration.
func renderCriteria(criteria []*position.Criterion) string {
	var b strings.Builder

	for _, c := range criteria {
		fmt.Fprintf(&b, "- %s (key: %s, weight: %v, type: %s", c.Name, c.Key, c.Weight, c.Strategy)
		if c.Required {
			b.WriteString(", required")
		}
		b.WriteString(")\n")

		switch c.Strategy {
		case position.StrategyRangedNumber:
			if cfg, err := c.RangedConfig(); err == nil {
				for _, r := range cfg.Ranges {
					fmt.Fprintf(&b, "  - %v to %v %s: x%v", r.Min, r.Max, cfg.Unit, r.Multiplier)
					if r.Label != "" {
						fmt.Fprintf(&b, " (%s)", r.Label)
					}
					b.WriteString("\n")
				}
			}
		case position.StrategyGradedCategory:
			if cfg, err := c.GradedConfig(); err == nil {
				for _, level := range sortedLevels(cfg.Levels) {
					fmt.Fprintf(&b, "  - %s: x%v\n", level, cfg.Levels[level])
				}
				if cfg.MinRequired != "" {
					fmt.Fprintf(&b, "  - minimum expected: %s\n", cfg.MinRequired)
				}
			}
		case position.StrategyBoolean:
			if cfg, err := c.BooleanConfig(); err == nil {
				fmt.Fprintf(&b, "  - present: x%v, absent: x%v\n", cfg.TrueValue, cfg.FalseValue)
			}
		case position.StrategyTextMatch:
			if cfg, err := c.TextMatchConfig(); err == nil {
				if len(cfg.RequiredKeywords) > 0 {
					fmt.Fprintf(&b, "  - required keywords (%s): %s\n", cfg.MatchType, strings.Join(cfg.RequiredKeywords, ", "))
				}
				if len(cfg.PreferredKeywords) > 0 {
					fmt.Fprintf(&b, "  - preferred keywords: %s\n", strings.Join(cfg.PreferredKeywords, ", "))
				}
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func sortedLevels(levels map[string]float64) []string {
	keys := make([]string, 0, len(levels))
	for key := range levels {
		keys = append(keys, key)
	}
	// Highest multiplier first reads naturally in the prompt.
	sort.Slice(keys, func(i, j int) bool {
		if levels[keys[i]] != levels[keys[j]] {
			return levels[keys[i]] > levels[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func parseJudgment(raw string) (*ai.Judgment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse judge response: %w", err)
	}

	judgment := &ai.Judgment{
		EvaluationSummary: coerceString(data["evaluation_summary"]),
		Strengths:         coerceStringSlice(data["strengths"]),
		Weaknesses:        coerceStringSlice(data["weaknesses"]),
	}

	scores, _ := data["individual_scores"].([]any)
	for _, item := range scores {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		awarded := coerceFloat(entry["awarded_points"])
		if math.IsNaN(awarded) {
			awarded = 0
		}

		judgment.IndividualScores = append(judgment.IndividualScores, &ai.CriterionScore{
			CriterionKey:   coerceString(entry["criterion_key"]),
			AwardedPoints:  awarded,
			ExtractedValue: coerceString(entry["extracted_value"]),
			Reasoning:      coerceString(entry["reasoning"]),
		})
	}

	return judgment, nil
}
