package cli

import (
	"context"
	"fmt"

	"resumescan/internal/common"
	"resumescan/internal/engine"
	"resumescan/internal/types"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [text-file]",
	Short: "Extract the keyword set from a text file",
	Long: `Extract and print the keyword set the matching engine would derive
from a text file. Useful for inspecting how a job description or resume
section tokenizes: stop words are dropped, terms are stemmed, and dictionary
phrases are matched when --industry is given.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		keywordsConfig.OutputFormat = common.ResolveOutputFormat(keywordsConfig.OutputFormat, cfg.App.DefaultFormat)
		keywordsConfig.MaxFileSize = cfg.App.MaxFileSize
		return common.ValidateOutputFormat(keywordsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runKeywords,
}

var (
	keywordsConfig   common.CommandConfig
	keywordsIndustry string
)

func init() {
	keywordsCmd.Flags().StringVarP(&keywordsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	keywordsCmd.Flags().StringVar(&keywordsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	keywordsCmd.Flags().StringVar(&keywordsIndustry, "industry", "", "Dictionary id for phrase matching (default: none)")
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Phrase matching only applies when an industry is requested explicitly.
	dict := lookupDictionary(cmd.Context(), cfg, logger, keywordsIndustry)
	if keywordsIndustry == "" {
		dict = nil
	}

	source := args[0]

	createInput := func(contents []string) (string, error) {
		return contents[0], nil
	}

	logDetails := func(input string, cmdCfg common.CommandConfig) {
		logger.Debug("Extracting keywords",
			"source", source,
			"chars", len(input),
			"output_format", cmdCfg.OutputFormat)
	}

	extractOperation := func(ctx context.Context, input string) (types.KeywordReport, error) {
		keywords := engine.ExtractKeywords(input, dict)
		return types.KeywordReport{
			Source:   source,
			Count:    len(keywords),
			Keywords: keywords.SortedKeys(),
		}, nil
	}

	err := common.RunCommand(
		cmd.Context(),
		logger,
		keywordsConfig,
		args,
		createInput,
		extractOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to extract keywords: %w", err)
	}
	return nil
}
