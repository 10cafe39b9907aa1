package cli

import (
	"context"
	"fmt"

	"resumescan/internal/common"
	"resumescan/internal/config"
	"resumescan/internal/dictionary"
	"resumescan/internal/engine"
	"resumescan/internal/errors"
	"resumescan/internal/types"
	"resumescan/internal/utils"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file] [job-description-file]",
	Short: "Score a resume record for ATS compatibility",
	Long: `Analyze a structured resume record (JSON) for applicant tracking
system compatibility. The first argument is the resume record file; the
optional second argument is a plain-text job description to match against.
Use --industry to pick a skill dictionary (defaults from config).`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		analyzeConfig.OutputFormat = common.ResolveOutputFormat(analyzeConfig.OutputFormat, cfg.App.DefaultFormat)
		analyzeConfig.MaxFileSize = cfg.App.MaxFileSize
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig   common.CommandConfig
	analyzeIndustry string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeIndustry, "industry", "", "Dictionary id for skills matching (default from config)")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// analyzeInput bundles the file contents for one analysis run.
type analyzeInput struct {
	resume         []byte
	jobDescription string
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	dict := lookupDictionary(cmd.Context(), cfg, logger, analyzeIndustry)

	if !utils.IsJSONFile(args[0]) {
		logger.Warn("Resume file does not have a .json extension; expecting a JSON resume record",
			"file", args[0])
	}

	createInput := func(contents []string) (analyzeInput, error) {
		input := analyzeInput{resume: []byte(contents[0])}
		if len(contents) > 1 {
			input.jobDescription = contents[1]
		}
		return input, nil
	}

	logDetails := func(input analyzeInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"resume_bytes", len(input.resume),
			"job_chars", len(input.jobDescription),
			"output_format", cmdCfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, input analyzeInput) (*types.AnalysisResult, error) {
		return engine.AnalyzeJSON(input.resume, input.jobDescription, engine.Options{
			Dictionary: dict,
			Weights:    cfg.Engine.Weights,
		})
	}

	err := common.RunCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}

// lookupDictionary resolves the dictionary for the requested industry from
// the configured sources, falling back to running without one.
func lookupDictionary(ctx context.Context, cfg *config.Config, logger *errors.Logger, industry string) *dictionary.Dictionary {
	store := buildDictionaryStore(cfg, logger)

	id := industry
	if id == "" {
		id = cfg.Engine.DefaultDictionary
	}
	if id == "" {
		return nil
	}

	dict, err := store.Get(ctx, id)
	if err != nil {
		logger.Warn("Dictionary unavailable, analyzing without one",
			"dictionary", id, "error", err.Error())
		return nil
	}
	return dict
}

// buildDictionaryStore assembles the configured dictionary sources without
// file watching; CLI runs are one-shot.
func buildDictionaryStore(cfg *config.Config, logger *errors.Logger) dictionary.Store {
	stores := make([]dictionary.Store, 0, 3)

	if cfg.Dictionaries.Dir != "" {
		if fileStore, err := dictionary.NewFileStore(cfg.Dictionaries.Dir, logger); err == nil {
			stores = append(stores, fileStore)
		} else {
			logger.Warn("Dictionary directory unavailable",
				"dir", cfg.Dictionaries.Dir, "error", err.Error())
		}
	}

	if cfg.Dictionaries.Remote.Enabled {
		stores = append(stores, dictionary.NewRemoteStore(dictionary.RemoteConfig{
			BaseURL:                 cfg.Dictionaries.Remote.BaseURL,
			Token:                   cfg.Dictionaries.Remote.Token,
			Timeout:                 cfg.Dictionaries.Remote.Timeout,
			BreakerEnabled:          cfg.Dictionaries.Remote.CircuitBreaker.Enabled,
			BreakerMaxRequests:      cfg.Dictionaries.Remote.CircuitBreaker.MaxRequests,
			BreakerInterval:         cfg.Dictionaries.Remote.CircuitBreaker.Interval,
			BreakerTimeout:          cfg.Dictionaries.Remote.CircuitBreaker.Timeout,
			BreakerMinRequests:      cfg.Dictionaries.Remote.CircuitBreaker.MinRequests,
			BreakerFailureThreshold: cfg.Dictionaries.Remote.CircuitBreaker.FailureThreshold,
		}, logger))
	}

	stores = append(stores, dictionary.NewBuiltinStore())
	return dictionary.NewChainStore(stores...)
}
