// Package translator fills translation gaps in i18n JSON resource files.
//
// This file defines presenters for formatting command output. Presenters
// implement the Presenter interface and handle all output formatting,
// keeping the checker and driver logic pure and testable.
package translator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

// Presenter formats command results. Each method corresponds to a command.
type Presenter interface {
	Check(r *CheckResult)
	Langs(r *LangsResult)
	Run(r *RunResult)
}

// ============================================================================
// Terminal Presenter - Human-readable output for CLI
// ============================================================================

// TerminalPresenter formats output for interactive terminal use.
type TerminalPresenter struct {
	w    io.Writer
	ok   func(a ...interface{}) string
	bad  func(a ...interface{}) string
	warn func(a ...interface{}) string
}

// NewTerminalPresenter creates a presenter that writes to stdout.
func NewTerminalPresenter() *TerminalPresenter {
	return NewTerminalPresenterTo(os.Stdout)
}

// NewTerminalPresenterTo creates a presenter that writes to a custom writer.
func NewTerminalPresenterTo(w io.Writer) *TerminalPresenter {
	return &TerminalPresenter{
		w:    w,
		ok:   color.New(color.FgGreen).SprintFunc(),
		bad:  color.New(color.FgRed).SprintFunc(),
		warn: color.New(color.FgYellow).SprintFunc(),
	}
}

func (p *TerminalPresenter) header(title string) {
	fmt.Fprintln(p.w, "========================================")
	fmt.Fprintln(p.w, title)
	fmt.Fprintln(p.w, "========================================")
	fmt.Fprintln(p.w)
}

func (p *TerminalPresenter) footer() {
	fmt.Fprintln(p.w, "========================================")
}

// Check formats translation gaps for terminal.
func (p *TerminalPresenter) Check(r *CheckResult) {
	p.header("Translation Gaps")

	if !r.HasGaps() && len(r.Skipped) == 0 {
		fmt.Fprintf(p.w, "%s All translations are complete\n", p.ok("OK:"))
		p.footer()
		return
	}

	for _, gap := range r.Gaps {
		fmt.Fprintf(p.w, "%s %s: %s needs %d leaves\n", p.bad("MISSING:"), gap.Language, gap.File, gap.Count)
		for _, leaf := range gap.Leaves {
			fmt.Fprintf(p.w, "  - %s\n", leaf)
		}
		fmt.Fprintln(p.w)
	}

	p.printSkipped(r.Skipped)

	p.footer()
	fmt.Fprintf(p.w, "Found %d missing leaves across %d file/language pairs\n", r.TotalLeaves, len(r.Gaps))
	fmt.Fprintln(p.w, "Run 'glotfill run' to fill them")
	p.footer()
}

// Langs formats language discovery for terminal.
func (p *TerminalPresenter) Langs(r *LangsResult) {
	p.header("Languages by Reference")

	for _, ref := range r.References {
		fmt.Fprintf(p.w, "=== %s (%s layout) ===\n", ref.Reference, ref.Mode)
		fmt.Fprintf(p.w, "base:      %s\n", ref.BaseLang)
		fmt.Fprintf(p.w, "languages: %v\n", ref.Languages)
		fmt.Fprintf(p.w, "targets:   %v\n", ref.Targets)
		fmt.Fprintf(p.w, "files:     %d\n", ref.FileCount)
		for _, stray := range ref.Strays {
			fmt.Fprintf(p.w, "%s %s is not a language code\n", p.warn("STRAY:"), stray)
		}
		fmt.Fprintln(p.w)
	}

	p.printSkipped(r.Skipped)
	p.footer()
}

// Run formats a translation run summary for terminal.
func (p *TerminalPresenter) Run(r *RunResult) {
	p.header("Translation Run")

	for _, o := range r.Outcomes {
		switch {
		case o.Err != nil:
			fmt.Fprintf(p.w, "%s %s (%s): %v\n", p.bad("FAILED:"), o.File, o.Language, o.Err)
		case o.Written:
			fmt.Fprintf(p.w, "%s %s (%s): %d translated, %d markers\n", p.ok("OK:"), o.File, o.Language, o.Leaves, o.Markers)
		}
	}
	fmt.Fprintln(p.w)

	p.printSkipped(r.Skipped)

	if r.BackupDir != "" {
		fmt.Fprintf(p.w, "Backup: %s\n", r.BackupDir)
	}

	p.footer()
	if r.HasFailures() {
		fmt.Fprintf(p.w, "%s %d files written, %d leaves translated, %d markers, %d failures (%s)\n",
			p.warn("DONE WITH FAILURES:"), r.Written, r.Leaves, r.Markers, r.Failures, r.Duration.Round(time.Millisecond))
	} else {
		fmt.Fprintf(p.w, "%s %d files written, %d leaves translated, %d markers (%s)\n",
			p.ok("DONE:"), r.Written, r.Leaves, r.Markers, r.Duration.Round(time.Millisecond))
	}
	p.footer()
}

func (p *TerminalPresenter) printSkipped(skipped []SkippedReference) {
	for _, s := range skipped {
		fmt.Fprintf(p.w, "%s %s: %v\n", p.warn("SKIPPED:"), s.Path, s.Err)
	}
	if len(skipped) > 0 {
		fmt.Fprintln(p.w)
	}
}

// ============================================================================
// Markdown Presenter - GitHub Issue compatible output
// ============================================================================

// MarkdownPresenter formats output as GitHub-flavored markdown.
// Used in CI to produce issue-ready gap reports. Prints nothing when there
// is nothing to act on.
type MarkdownPresenter struct {
	w io.Writer
}

// NewMarkdownPresenter creates a presenter that writes markdown to stdout.
func NewMarkdownPresenter() *MarkdownPresenter {
	return &MarkdownPresenter{w: os.Stdout}
}

// NewMarkdownPresenterTo creates a presenter that writes to a custom writer.
func NewMarkdownPresenterTo(w io.Writer) *MarkdownPresenter {
	return &MarkdownPresenter{w: w}
}

// Check formats translation gaps as markdown.
func (p *MarkdownPresenter) Check(r *CheckResult) {
	if !r.HasGaps() && len(r.Skipped) == 0 {
		return
	}

	fmt.Fprintln(p.w, "## Translation Gaps")
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "%d missing leaves across %d file/language pairs.\n", r.TotalLeaves, len(r.Gaps))
	fmt.Fprintln(p.w)

	for _, gap := range r.Gaps {
		fmt.Fprintf(p.w, "### `%s` → %s\n", gap.File, gap.Language)
		fmt.Fprintln(p.w)
		for _, leaf := range gap.Leaves {
			fmt.Fprintf(p.w, "- [ ] `%s`\n", leaf)
		}
		fmt.Fprintln(p.w)
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintln(p.w, "### Skipped references")
		fmt.Fprintln(p.w)
		for _, s := range r.Skipped {
			fmt.Fprintf(p.w, "- `%s`: %v\n", s.Path, s.Err)
		}
		fmt.Fprintln(p.w)
	}
}

// Langs formats language discovery as markdown.
func (p *MarkdownPresenter) Langs(r *LangsResult) {
	fmt.Fprintln(p.w, "## Languages")
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, "| Reference | Mode | Base | Languages | Files |")
	fmt.Fprintln(p.w, "|-----------|------|------|-----------|-------|")
	for _, ref := range r.References {
		fmt.Fprintf(p.w, "| `%s` | %s | %s | %v | %d |\n", ref.Reference, ref.Mode, ref.BaseLang, ref.Languages, ref.FileCount)
	}
	fmt.Fprintln(p.w)
}

// Run formats a run summary as markdown.
func (p *MarkdownPresenter) Run(r *RunResult) {
	fmt.Fprintln(p.w, "## Translation Run")
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "- files written: %d\n", r.Written)
	fmt.Fprintf(p.w, "- leaves translated: %d\n", r.Leaves)
	fmt.Fprintf(p.w, "- markers substituted: %d\n", r.Markers)
	fmt.Fprintf(p.w, "- failures: %d\n", r.Failures)
	fmt.Fprintln(p.w)

	if r.Failures > 0 || len(r.Skipped) > 0 {
		fmt.Fprintln(p.w, "### Failures")
		fmt.Fprintln(p.w)
		for _, o := range r.Outcomes {
			if o.Err != nil {
				fmt.Fprintf(p.w, "- `%s` (%s): %v\n", o.File, o.Language, o.Err)
			}
		}
		for _, s := range r.Skipped {
			fmt.Fprintf(p.w, "- `%s`: %v\n", s.Path, s.Err)
		}
		fmt.Fprintln(p.w)
	}
}

// ============================================================================
// JSON Presenter - machine-readable output
// ============================================================================

// JSONPresenter emits results as indented JSON for scripting.
type JSONPresenter struct {
	w io.Writer
}

// NewJSONPresenter creates a presenter that writes JSON to stdout.
func NewJSONPresenter() *JSONPresenter {
	return &JSONPresenter{w: os.Stdout}
}

// NewJSONPresenterTo creates a presenter that writes JSON to a custom writer.
func NewJSONPresenterTo(w io.Writer) *JSONPresenter {
	return &JSONPresenter{w: w}
}

// Check emits gap data as JSON.
func (p *JSONPresenter) Check(r *CheckResult) {
	p.emit(map[string]any{
		"gaps":        r.Gaps,
		"skipped":     skippedStrings(r.Skipped),
		"totalLeaves": r.TotalLeaves,
	})
}

// Langs emits language data as JSON.
func (p *JSONPresenter) Langs(r *LangsResult) {
	p.emit(map[string]any{
		"references": r.References,
		"skipped":    skippedStrings(r.Skipped),
	})
}

// Run emits a run summary as JSON.
func (p *JSONPresenter) Run(r *RunResult) {
	type outcome struct {
		Reference string `json:"reference"`
		File      string `json:"file"`
		Language  string `json:"language"`
		Created   bool   `json:"created"`
		Written   bool   `json:"written"`
		Leaves    int    `json:"leaves"`
		Markers   int    `json:"markers"`
		Error     string `json:"error,omitempty"`
	}
	outcomes := make([]outcome, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		oc := outcome{
			Reference: o.Reference,
			File:      o.File,
			Language:  o.Language,
			Created:   o.Created,
			Written:   o.Written,
			Leaves:    o.Leaves,
			Markers:   o.Markers,
		}
		if o.Err != nil {
			oc.Error = o.Err.Error()
		}
		outcomes = append(outcomes, oc)
	}
	p.emit(map[string]any{
		"outcomes": outcomes,
		"skipped":  skippedStrings(r.Skipped),
		"written":  r.Written,
		"leaves":   r.Leaves,
		"markers":  r.Markers,
		"failures": r.Failures,
	})
}

func (p *JSONPresenter) emit(v any) {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode JSON output: %v\n", err)
	}
}

func skippedStrings(skipped []SkippedReference) []string {
	out := make([]string, 0, len(skipped))
	for _, s := range skipped {
		out = append(out, fmt.Sprintf("%s: %v", s.Path, s.Err))
	}
	return out
}
