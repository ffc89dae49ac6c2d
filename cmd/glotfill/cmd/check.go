package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glotfill/glotfill/internal/config"
	"github.com/glotfill/glotfill/internal/logging"
	"github.com/glotfill/glotfill/internal/translator"
)

var (
	checkConfigPath  string
	checkRoot        string
	checkLanguages   []string
	checkRetranslate bool
	checkFormat      string
	checkLogLevel    string
)

// CheckCmd reports translation gaps without writing anything
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report missing translations without writing anything",
	Long: `Scan every configured reference and list the keys each target
language is missing. Nothing is written and no provider is contacted.

Exits 1 when gaps exist, so it can gate CI.

Examples:
  glotfill check
  glotfill check --format markdown > gaps.md
  glotfill check --format json | jq '.totalLeaves'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(checkConfigPath)
		if err != nil {
			return err
		}
		log := logging.Default(checkLogLevel)

		rc := cfg.RunConfig()
		if checkRoot != "" {
			rc.Root = checkRoot
		}
		if len(checkLanguages) > 0 {
			rc.Languages = checkLanguages
		}
		if cmd.Flags().Changed("retranslate") {
			rc.Retranslate = checkRetranslate
		}

		checker := translator.NewChecker(rc, log)
		result := checker.Check()

		p, err := presenterFor(checkFormat)
		if err != nil {
			return err
		}
		p.Check(result)

		if result.HasGaps() {
			os.Exit(1)
		}
		return nil
	},
}

// presenterFor picks the output format shared by check and langs.
func presenterFor(format string) (translator.Presenter, error) {
	switch format {
	case "", "terminal":
		return translator.NewTerminalPresenter(), nil
	case "markdown":
		return translator.NewMarkdownPresenter(), nil
	case "json":
		return translator.NewJSONPresenter(), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (expected terminal, markdown, or json)", format)
	}
}

func init() {
	CheckCmd.Flags().StringVar(&checkConfigPath, "config", config.FileName, "Path to config file")
	CheckCmd.Flags().StringVar(&checkRoot, "root", "", "Resolve references relative to this directory")
	CheckCmd.Flags().StringSliceVar(&checkLanguages, "languages", nil, "Target languages (overrides discovery, comma-separated)")
	CheckCmd.Flags().BoolVar(&checkRetranslate, "retranslate", false, "Count missing-translation placeholders as gaps")
	CheckCmd.Flags().StringVar(&checkFormat, "format", "terminal", "Output format: terminal, markdown, json")
	CheckCmd.Flags().StringVar(&checkLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
}
