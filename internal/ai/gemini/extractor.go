package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/parisab/resume-screener/internal/position"
	"github.com/parisab/resume-screener/internal/utils"
	"go.uber.org/zap"
)

//go:embed extract_prompt.md
var extractPromptTemplate string

// digitNormalizer rewrites Persian and Arabic-Indic digits to ASCII so
// numeric attributes parse downstream.
var digitNormalizer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// Extractor implements ai.Extractor: it asks Gemini for the position's
// desired fields over the raw resume text and returns the parsed,
// normalized attributes map.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract turns resume text into the flat attributes map the scoring
// engine consumes.
func (e *Extractor) Extract(ctx context.Context, pos *position.Position, resumeText string) (map[string]any, error) {
	if pos == nil {
		return nil, fmt.Errorf("position is required")
	}

	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	prompt := buildExtractPrompt(pos, resumeText)

	e.logger.Debug("extraction request",
		zap.String("position", pos.Title),
		zap.Int("resume_length", utf8.RuneCountInString(resumeText)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extraction response",
		zap.String("position", pos.Title),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	attrs, err := parseAttributes(raw)
	if err != nil {
		return nil, err
	}

	if coerceString(attrs["full_name"]) == "" {
		return nil, fmt.Errorf("full name is required but was not extracted")
	}

	return attrs, nil
}

func buildExtractPrompt(pos *position.Position, resumeText string) string {
	fields := make([]string, 0, len(pos.Criteria))
	for _, c := range pos.Criteria {
		fields = append(fields, fmt.Sprintf("- %s (%s)", c.Name, c.Key))
	}

	prompt := strings.ReplaceAll(extractPromptTemplate, "{{POSITION_TITLE}}", pos.Title)
	prompt = strings.ReplaceAll(prompt, "{{FIELDS}}", strings.Join(fields, "\n"))
	return strings.ReplaceAll(prompt, "{{RESUME_TEXT}}", resumeText)
}

func parseAttributes(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var attrs map[string]any
	if err := json.Unmarshal([]byte(cleaned), &attrs); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}

	for key, value := range attrs {
		if s, ok := value.(string); ok {
			attrs[key] = strings.TrimSpace(digitNormalizer.Replace(s))
		}
	}

	return attrs, nil
}
