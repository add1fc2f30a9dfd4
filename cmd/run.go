package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/parisab/resume-screener/internal/ai"
	"github.com/parisab/resume-screener/internal/ai/gemini"
	"github.com/parisab/resume-screener/internal/logger"
	"github.com/parisab/resume-screener/internal/questions"
	"github.com/parisab/resume-screener/internal/report"
	"github.com/parisab/resume-screener/internal/screening"
	"github.com/parisab/resume-screener/internal/scoring"
	"github.com/parisab/resume-screener/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptReportByStatus    = "Report by status"
	PromptDumpToFile        = "Dump results to file"
	PromptGenerateQuestions = "Generate interview questions for qualified candidates"
	PromptExit              = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReportByStatus, PromptDumpToFile, PromptGenerateQuestions, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Screen the configured candidates against the position",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("non-interactive", "y", false, "skip the action prompt after screening")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.Position == nil {
		logger.Fatal("position configuration is required")
	}

	if err := config.Position.Validate(); err != nil {
		logger.Fatal("invalid position configuration", zap.Error(err))
	}

	if len(config.Candidates) == 0 {
		logger.Fatal("at least one candidate is required under the candidates section")
	}

	generator := prepareGenerator(ctx, config, logger)

	scorer, err := prepareScorer(config, generator, logger)
	if err != nil {
		logger.Fatal("preparing the scorer", zap.Error(err))
	}

	extractor := prepareExtractor(config, generator, logger)

	logger.Info("starting the screening",
		zap.String("position", config.Position.Title),
		zap.Float64("threshold", config.Position.Threshold()),
		zap.Int("candidates", len(config.Candidates)),
	)

	runner := screening.NewRunner(scorer, extractor, logger)
	outcomes := runner.Run(ctx, config.Position, config.Candidates)

	rep := report.New(config.Position.Title, config.Position.Threshold(), outcomes)
	rep.Log(logger)

	if cmd.Flag("non-interactive").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, rep, config, generator, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, rep *report.Report, config *Config, generator *gemini.Generator, logger *zap.Logger) error {
	switch action {
	case PromptReportByStatus:
		pretty, _ := json.MarshalIndent(rep.ByStatus(), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates", len(rep.Outcomes)))
		return nil
	case PromptDumpToFile:
		filename, err := rep.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping results to file", zap.String("filename", filename))
		return nil
	case PromptGenerateQuestions:
		return generateQuestions(ctx, rep, config, generator, logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func generateQuestions(ctx context.Context, rep *report.Report, config *Config, generator *gemini.Generator, logger *zap.Logger) error {
	qualified := rep.Qualified()
	if len(qualified) == 0 {
		logger.Info("no qualified candidates to generate questions for")
		return nil
	}

	if generator == nil {
		logger.Warn("no AI generator configured, using default questions",
			zap.String("hint", "set ai.gemini in the configuration file"),
		)
	}

	qg := questions.NewGenerator(generatorOrNil(generator), logger)

	for _, outcome := range qualified {
		generated := qg.Generate(ctx, config.Position, outcome.Attributes, outcome.Evaluation.Results)

		for i, q := range generated {
			logger.Info(fmt.Sprintf("question %d for %s", i+1, outcome.Candidate),
				zap.String("category", q.Category),
				zap.String("question", q.Text),
			)
		}
	}

	return nil
}

// generatorOrNil avoids handing the questions generator a typed nil.
func generatorOrNil(g *gemini.Generator) questions.TextGenerator {
	if g == nil {
		return nil
	}
	return g
}

// prepareGenerator builds the shared Gemini generator when AI settings are
// present. A missing key is fatal only for features that need it.
func prepareGenerator(ctx context.Context, config *Config, logger *zap.Logger) *gemini.Generator {
	if config.AI == nil || config.AI.Gemini == nil {
		return nil
	}

	cfg := config.AI.Gemini

	keyFile := strings.TrimSpace(cfg.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Warn("gemini api key unavailable, AI features disabled",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY"),
		)
		return nil
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		logger.Warn("building gemini generator failed, AI features disabled", zap.Error(err))
		return nil
	}

	return generator
}

func prepareScorer(config *Config, generator *gemini.Generator, logger *zap.Logger) (scoring.Scorer, error) {
	mode := ModeDeterministic
	if config.Scoring != nil && strings.TrimSpace(config.Scoring.Mode) != "" {
		mode = strings.ToLower(strings.TrimSpace(config.Scoring.Mode))
	}

	switch mode {
	case ModeDeterministic:
		return scoring.NewEngine(logger), nil
	case ModeLLMJudge:
		if generator == nil {
			return nil, fmt.Errorf("scoring mode %q requires a configured ai.gemini section", mode)
		}

		maxLogLen := 0
		var timeout = gemini.DefaultJudgeTimeout
		if config.AI != nil && config.AI.Gemini != nil {
			maxLogLen = config.AI.Gemini.MaxLogLength
			if config.AI.Gemini.Timeout > 0 {
				timeout = config.AI.Gemini.Timeout
			}
		}

		judge := gemini.NewJudge(generator, maxLogLen, logger)
		return scoring.NewJudgedEngine(judge, timeout, logger), nil
	default:
		return nil, fmt.Errorf("unsupported scoring mode: %s", mode)
	}
}

func prepareExtractor(config *Config, generator *gemini.Generator, logger *zap.Logger) ai.Extractor {
	if generator == nil {
		return nil
	}

	maxLogLen := 0
	if config.AI != nil && config.AI.Gemini != nil {
		maxLogLen = config.AI.Gemini.MaxLogLength
	}

	return gemini.NewExtractor(generator, maxLogLen, logger)
}
