package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glotfill/glotfill/internal/config"
	"github.com/glotfill/glotfill/internal/logging"
	"github.com/glotfill/glotfill/internal/translator"
)

var (
	runConfigPath  string
	runRoot        string
	runLanguages   []string
	runMaxLength   int
	runRetranslate bool
	runJobs        int
	runBackup      bool
	runReport      string
	runLogLevel    string
)

// RunCmd translates missing keys and writes them back
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Translate missing keys and merge them into target files",
	Long: `Fill translation gaps in every configured reference.

For each reference the base language file(s) are compared against every
target language. Keys that are missing or empty in a target are translated
and deep-merged back into the target file. Existing translations always
win over fresh machine translations, so running twice is safe.

Values longer than the configured maximum length are not sent to the
provider; they are written as the placeholder __MISSING_TRANSLATION__
instead, to be translated by hand.

Requires a provider API key, via GLOTFILL_API_KEY or a .env file.

Examples:
  glotfill run
  glotfill run --languages fr,de --retranslate
  glotfill run --jobs 4 --backup --report report.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(runConfigPath)
		if err != nil {
			return err
		}
		log := logging.Default(runLogLevel)

		rc := cfg.RunConfig()
		if runRoot != "" {
			rc.Root = runRoot
		}
		if len(runLanguages) > 0 {
			rc.Languages = runLanguages
		}
		if cmd.Flags().Changed("max-length") {
			rc.MaxLength = runMaxLength
		}
		if cmd.Flags().Changed("retranslate") {
			rc.Retranslate = runRetranslate
		}
		rc.Jobs = runJobs
		rc.Backup = runBackup

		if len(rc.References) == 0 {
			return fmt.Errorf("no references configured, add some to %s", config.FileName)
		}

		provider, err := translator.NewGoogleClient(rc.Credential, rc.ProjectID)
		if err != nil {
			return err
		}
		provider.SetEndpoint(cfg.Provider.URL)

		driver := translator.NewDriver(rc, provider, log)
		result := driver.Run(cmd.Context())

		p := translator.NewTerminalPresenter()
		p.Run(result)

		if runReport != "" {
			if err := translator.SaveReport(result, runReport); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Printf("Report written to %s\n", runReport)
		}

		// Per-file and per-reference failures are contained and already
		// summarized above; the run itself completed.
		return nil
	},
}

func init() {
	RunCmd.Flags().StringVar(&runConfigPath, "config", config.FileName, "Path to config file")
	RunCmd.Flags().StringVar(&runRoot, "root", "", "Resolve references relative to this directory")
	RunCmd.Flags().StringSliceVar(&runLanguages, "languages", nil, "Target languages (overrides discovery, comma-separated)")
	RunCmd.Flags().IntVar(&runMaxLength, "max-length", config.DefaultMaxLength, "Longest value sent to the provider, in characters")
	RunCmd.Flags().BoolVar(&runRetranslate, "retranslate", false, "Also retranslate keys holding the missing-translation placeholder")
	RunCmd.Flags().IntVar(&runJobs, "jobs", 0, "Max concurrent file translations (0 = unlimited)")
	RunCmd.Flags().BoolVar(&runBackup, "backup", false, "Copy each reference tree to .glotfill/backup/ before writing")
	RunCmd.Flags().StringVar(&runReport, "report", "", "Write a YAML run report to this path")
	RunCmd.Flags().StringVar(&runLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
}
