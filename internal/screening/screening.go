// Package screening runs the per-candidate pipeline: obtain attributes
// (from a pre-extracted file or the AI extractor), score them against the
// position and collect the outcome. One failing candidate never aborts
// the batch.
package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/parisab/resume-screener/internal/ai"
	"github.com/parisab/resume-screener/internal/position"
	"github.com/parisab/resume-screener/internal/scoring"
	"go.uber.org/zap"
)

// Candidate is one screening input. Exactly one of AttributesFile (a JSON
// map of already-extracted attributes) or ResumeFile (raw resume text for
// the extractor) should be set.
type Candidate struct {
	Name           string `mapstructure:"name" json:"name"`
	ResumeFile     string `mapstructure:"resume-file" json:"resume_file,omitempty"`
	AttributesFile string `mapstructure:"attributes-file" json:"attributes_file,omitempty"`
}

// Outcome is the result of screening one candidate. Err is set when the
// pipeline failed for this candidate; Evaluation is nil in that case.
type Outcome struct {
	Candidate  string              `json:"candidate"`
	Attributes map[string]any      `json:"attributes,omitempty"`
	Evaluation *scoring.Evaluation `json:"evaluation,omitempty"`
	Err        error               `json:"-"`
	Error      string              `json:"error,omitempty"`
}

// Runner wires the extractor and scorer into a batch pipeline.
type Runner struct {
	scorer    scoring.Scorer
	extractor ai.Extractor
	logger    *zap.Logger
}

func NewRunner(scorer scoring.Scorer, extractor ai.Extractor, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{scorer: scorer, extractor: extractor, logger: logger}
}

// Run screens every candidate sequentially and returns one outcome per
// candidate, in input order.
func (r *Runner) Run(ctx context.Context, pos *position.Position, candidates []*Candidate) []*Outcome {
	outcomes := make([]*Outcome, 0, len(candidates))

	for _, candidate := range candidates {
		outcome := r.screen(ctx, pos, candidate)
		outcomes = append(outcomes, outcome)

		if outcome.Err != nil {
			r.logger.Warn("screening failed",
				zap.String("candidate", outcome.Candidate),
				zap.Error(outcome.Err),
			)
			continue
		}

		r.logger.Info("candidate screened",
			zap.String("candidate", outcome.Candidate),
			zap.Float64("percentage", outcome.Evaluation.Aggregate.Percentage),
			zap.String("status", string(outcome.Evaluation.Aggregate.Status)),
		)
	}

	return outcomes
}

func (r *Runner) screen(ctx context.Context, pos *position.Position, candidate *Candidate) *Outcome {
	outcome := &Outcome{Candidate: candidate.DisplayName()}

	attrs, err := r.attributes(ctx, pos, candidate)
	if err != nil {
		return outcome.fail(err)
	}
	outcome.Attributes = attrs

	evaluation, err := r.scorer.Score(ctx, pos, attrs)
	if err != nil {
		return outcome.fail(fmt.Errorf("scoring: %w", err))
	}
	outcome.Evaluation = evaluation

	return outcome
}

func (r *Runner) attributes(ctx context.Context, pos *position.Position, candidate *Candidate) (map[string]any, error) {
	switch {
	case candidate.AttributesFile != "":
		return readAttributesFile(candidate.AttributesFile)
	case candidate.ResumeFile != "":
		if r.extractor == nil {
			return nil, fmt.Errorf("resume file given but no extractor is configured")
		}

		text, err := os.ReadFile(candidate.ResumeFile)
		if err != nil {
			return nil, fmt.Errorf("read resume file: %w", err)
		}

		return r.extractor.Extract(ctx, pos, string(text))
	default:
		return nil, fmt.Errorf("candidate needs a resume-file or an attributes-file")
	}
}

func readAttributesFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attributes file: %w", err)
	}

	var attrs map[string]any
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("parse attributes file %s: %w", path, err)
	}

	return attrs, nil
}

// DisplayName falls back to the input file name when the candidate was
// not given an explicit name.
func (c *Candidate) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	if c.ResumeFile != "" {
		return c.ResumeFile
	}
	return c.AttributesFile
}

func (o *Outcome) fail(err error) *Outcome {
	o.Err = err
	o.Error = err.Error()
	return o
}
