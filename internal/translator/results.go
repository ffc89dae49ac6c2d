// Package translator fills translation gaps in i18n JSON resource files.
//
// This file defines result types for the commands. These structs carry
// computed data (no printing) and are passed to presenters for output.
package translator

import "time"

// ============================================================================
// Query Results (read-only commands)
// ============================================================================

// SkippedReference records a reference that failed to resolve.
type SkippedReference struct {
	Path string // The configured reference path
	Err  error  // Why resolution failed
}

// GapFile describes the translation gaps of one base file for one target
// language.
type GapFile struct {
	Reference string   `json:"reference"` // Configured reference path
	File      string   `json:"file"`      // Base-language file path
	Language  string   `json:"language"`  // Target language code
	Leaves    []string `json:"leaves"`    // Dot paths of the missing leaves
	Count     int      `json:"count"`     // len(Leaves)
}

// CheckResult contains gap data across all references.
type CheckResult struct {
	Gaps        []GapFile          // One entry per base file × language with gaps
	Skipped     []SkippedReference // References that failed to resolve
	TotalLeaves int                // Total missing leaves across all gaps
}

// HasGaps returns true if any translations are missing
func (r CheckResult) HasGaps() bool {
	return r.TotalLeaves > 0
}

// ReferenceLangs describes the resolved layout of one reference.
type ReferenceLangs struct {
	Reference string   `json:"reference"` // Configured reference path
	Mode      string   `json:"mode"`      // directory or file layout
	BaseLang  string   `json:"base"`      // Base language code
	Languages []string `json:"languages"` // Discovered languages, base included
	Targets   []string `json:"targets"`   // Effective target languages
	Strays    []string `json:"strays"`    // Entries skipped as non-language codes
	FileCount int      `json:"files"`     // Base-language resource files
}

// LangsResult contains language discovery data.
type LangsResult struct {
	References []ReferenceLangs
	Skipped    []SkippedReference
}

// HasIssues returns true if stray entries or skipped references were found
func (r LangsResult) HasIssues() bool {
	if len(r.Skipped) > 0 {
		return true
	}
	for _, ref := range r.References {
		if len(ref.Strays) > 0 {
			return true
		}
	}
	return false
}

// ============================================================================
// Mutation Results (commands that modify state)
// ============================================================================

// TranslationResult is what the recursive translate walk produces for one
// gap tree: the translated content plus whether any leaf was actually sent
// to the provider.
type TranslationResult struct {
	Content    *Tree // Translated gap content, nested structure preserved
	Translated bool  // At least one leaf below this node was freshly translated; marker substitutions count only when retranslate is set
	Leaves     int   // Leaves translated by the provider
	Markers    int   // Leaves substituted with the missing marker
}

// FileOutcome records what happened to one target file during a run.
type FileOutcome struct {
	Reference string // Configured reference path
	File      string // Target file path
	Language  string // Target language code
	Created   bool   // File was created empty before translating
	Written   bool   // File was written with merged content
	Leaves    int    // Leaves translated by the provider
	Markers   int    // Leaves substituted with the missing marker
	Err       error  // Provider or I/O failure, nil on success
}

// RunResult aggregates a whole translation run.
type RunResult struct {
	Outcomes  []FileOutcome      // One per base file × target language
	Skipped   []SkippedReference // References that failed to resolve
	Written   int                // Files written
	Leaves    int                // Total leaves translated
	Markers   int                // Total marker substitutions
	Failures  int                // Outcomes with errors
	BackupDir string             // Where the pre-run snapshot went, if any
	Duration  time.Duration
}

// HasFailures returns true if any file failed to translate
func (r *RunResult) HasFailures() bool {
	return r.Failures > 0 || len(r.Skipped) > 0
}
