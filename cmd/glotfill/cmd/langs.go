package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/glotfill/glotfill/internal/config"
	"github.com/glotfill/glotfill/internal/logging"
	"github.com/glotfill/glotfill/internal/translator"
)

var (
	langsConfigPath string
	langsRoot       string
	langsFormat     string
	langsLogLevel   string
)

// LangsCmd lists discovered languages per reference
var LangsCmd = &cobra.Command{
	Use:   "langs",
	Short: "Show discovered languages and stray directories",
	Long: `List the languages each reference resolves to: the base language,
the discovered targets, and any sibling directories or files that do not
look like language codes (strays).

Exits 1 when strays exist.

Examples:
  glotfill langs
  glotfill langs --format markdown`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(langsConfigPath)
		if err != nil {
			return err
		}
		log := logging.Default(langsLogLevel)

		rc := cfg.RunConfig()
		if langsRoot != "" {
			rc.Root = langsRoot
		}

		checker := translator.NewChecker(rc, log)
		result := checker.Langs()

		p, err := presenterFor(langsFormat)
		if err != nil {
			return err
		}
		p.Langs(result)

		if result.HasIssues() {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	LangsCmd.Flags().StringVar(&langsConfigPath, "config", config.FileName, "Path to config file")
	LangsCmd.Flags().StringVar(&langsRoot, "root", "", "Resolve references relative to this directory")
	LangsCmd.Flags().StringVar(&langsFormat, "format", "terminal", "Output format: terminal, markdown, json")
	LangsCmd.Flags().StringVar(&langsLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
}
