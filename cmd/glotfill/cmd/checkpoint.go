package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glotfill/glotfill/internal/checkpoint"
	"github.com/glotfill/glotfill/internal/config"
	"github.com/glotfill/glotfill/internal/logging"
	"github.com/glotfill/glotfill/internal/translator"
)

var (
	statusConfigPath string
	statusRoot       string
	statusTag        string
	statusLogLevel   string

	doneConfigPath string
	doneRoot       string
	doneTag        string
)

// StatusCmd shows base-language changes since the checkpoint
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show base-language files changed since the last checkpoint",
	Long: `Compare the base-language files of every reference against the
checkpoint tag and list what changed. Changed base files usually mean the
targets need a translation pass.

Outside a git repository this is a no-op.

Examples:
  glotfill status
  glotfill status --tag my-checkpoint`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(statusConfigPath)
		if err != nil {
			return err
		}
		log := logging.Default(statusLogLevel)

		rc := cfg.RunConfig()
		if statusRoot != "" {
			rc.Root = statusRoot
		}

		mgr, err := checkpoint.Open(rc.Root)
		if err != nil {
			log.Warn().Err(err).Msg("checkpoint tracking unavailable")
			fmt.Println("SKIP: not a git repository")
			return nil
		}

		repoRoot, err := mgr.Root()
		if err != nil {
			return err
		}

		st, err := mgr.Status(statusTag, basePrefixes(rc, repoRoot))
		if err != nil {
			return err
		}

		fmt.Println("========================================")
		fmt.Println("Translation Checkpoint Status")
		fmt.Println("========================================")
		fmt.Println()

		if st.TagExists {
			fmt.Printf("Checkpoint: %s\n", st.Tag)
		} else {
			fmt.Printf("Checkpoint: %s (not set yet, run 'glotfill done' to create it)\n", st.Tag)
		}
		fmt.Println()

		if len(st.Committed) > 0 {
			fmt.Println("Committed since checkpoint:")
			for _, path := range st.Committed {
				fmt.Printf("  - %s\n", path)
			}
			fmt.Println()
		}
		if len(st.Uncommitted) > 0 {
			fmt.Println("Uncommitted changes:")
			for _, path := range st.Uncommitted {
				fmt.Printf("  - %s\n", path)
			}
			fmt.Println()
		}

		fmt.Println("========================================")
		if st.HasChanges() {
			fmt.Printf("ACTION NEEDED: %d base file(s) changed since the last translation pass\n",
				len(st.Committed)+len(st.Uncommitted))
			fmt.Println("Run 'glotfill run', then 'glotfill done'")
			fmt.Println("========================================")
			os.Exit(1)
		}
		fmt.Println("OK: No base-language changes since the checkpoint")
		fmt.Println("========================================")
		return nil
	},
}

// DoneCmd moves the checkpoint tag to HEAD
var DoneCmd = &cobra.Command{
	Use:   "done",
	Short: "Mark translations complete (move the checkpoint tag to HEAD)",
	Long: `Move the checkpoint tag to the current HEAD so 'glotfill status'
reports a clean slate. Run this after a translation pass has been
reviewed and committed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(doneConfigPath)
		if err != nil {
			return err
		}

		rc := cfg.RunConfig()
		if doneRoot != "" {
			rc.Root = doneRoot
		}

		mgr, err := checkpoint.Open(rc.Root)
		if err != nil {
			fmt.Println("SKIP: not a git repository")
			return nil
		}

		res, err := mgr.Done(doneTag)
		if err != nil {
			return err
		}

		fmt.Println("========================================")
		if res.Moved {
			fmt.Printf("OK: Checkpoint '%s' moved to %s\n", res.Tag, res.Commit)
		} else {
			fmt.Printf("OK: Checkpoint '%s' created at %s\n", res.Tag, res.Commit)
		}
		fmt.Println("========================================")
		return nil
	},
}

// basePrefixes maps each reference's base-language content to
// repo-relative path prefixes for the checkpoint diff.
func basePrefixes(rc translator.RunConfig, repoRoot string) []string {
	fs := translator.OSFS{}

	var prefixes []string
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		rel, err := filepath.Rel(repoRoot, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			return
		}
		prefixes = append(prefixes, filepath.ToSlash(rel))
	}

	for _, ref := range rc.References {
		resolved, err := translator.Resolve(fs, ref, rc.Root)
		if err != nil {
			continue
		}
		if resolved.Mode == translator.ModeDirectory {
			add(filepath.Join(resolved.Root, resolved.BaseLang))
		} else {
			for _, desc := range resolved.Files {
				add(desc.Path)
			}
		}
		if ref.Inject != "" {
			inj := ref.Inject
			if !filepath.IsAbs(inj) {
				inj = filepath.Join(rc.Root, inj)
			}
			add(inj)
		}
	}
	return prefixes
}

func init() {
	StatusCmd.Flags().StringVar(&statusConfigPath, "config", config.FileName, "Path to config file")
	StatusCmd.Flags().StringVar(&statusRoot, "root", "", "Resolve references relative to this directory")
	StatusCmd.Flags().StringVar(&statusTag, "tag", checkpoint.DefaultTag, "Checkpoint tag name")
	StatusCmd.Flags().StringVar(&statusLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	DoneCmd.Flags().StringVar(&doneConfigPath, "config", config.FileName, "Path to config file")
	DoneCmd.Flags().StringVar(&doneRoot, "root", "", "Resolve references relative to this directory")
	DoneCmd.Flags().StringVar(&doneTag, "tag", checkpoint.DefaultTag, "Checkpoint tag name")
}
