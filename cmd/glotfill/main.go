// glotfill - Translation gap filler for i18n JSON resources
//
// Scans trees of language resource files, detects keys that exist in the
// base language but are missing (or empty) in the targets, and fills them
// through a machine-translation provider without touching translations
// that already exist.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/glotfill/glotfill/cmd/glotfill/cmd"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "glotfill",
		Short: "Fill translation gaps in i18n JSON resources",
		Long: `glotfill keeps multilingual JSON resource trees in sync.

It compares every target language against the base language, translates
only what is missing or empty, and deep-merges the results back so existing
translations are never overwritten.

TYPICAL WORKFLOW:
  1. glotfill check              # See which keys are missing per language
  2. glotfill run                # Translate the gaps and write them back
  3. glotfill done               # Move the git checkpoint forward

KEY COMMANDS:
  run       - Translate missing keys and merge them into target files
  check     - Report gaps without writing anything (exit 1 if gaps exist)
  langs     - Show discovered languages and stray directories per reference
  keys      - Inspect the keys of a resource file (with optional jq query)
  status    - Show base-language files changed since the last checkpoint
  done      - Move the checkpoint tag to HEAD`,
	}

	// Pass version to the version command
	cmd.SetVersion(Version)

	rootCmd.AddCommand(cmd.RunCmd)
	rootCmd.AddCommand(cmd.CheckCmd)
	rootCmd.AddCommand(cmd.LangsCmd)
	rootCmd.AddCommand(cmd.KeysCmd)
	rootCmd.AddCommand(cmd.StatusCmd)
	rootCmd.AddCommand(cmd.DoneCmd)
	rootCmd.AddCommand(cmd.VersionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
