// Package translator fills translation gaps in i18n JSON resource files.
//
// This file writes the optional run report: a YAML summary of what a
// translation pass did, for audit trails and CI artifacts.
package translator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Report is the YAML shape of a run summary.
type Report struct {
	StartedAt time.Time      `yaml:"started_at"`
	Duration  string         `yaml:"duration"`
	Written   int            `yaml:"files_written"`
	Leaves    int            `yaml:"leaves_translated"`
	Markers   int            `yaml:"markers_substituted"`
	Failures  int            `yaml:"failures"`
	BackupDir string         `yaml:"backup_dir,omitempty"`
	Files     []ReportFile   `yaml:"files,omitempty"`
	Skipped   []ReportFailed `yaml:"skipped_references,omitempty"`
}

// ReportFile is one written or failed target file.
type ReportFile struct {
	File     string `yaml:"file"`
	Language string `yaml:"language,omitempty"`
	Created  bool   `yaml:"created,omitempty"`
	Leaves   int    `yaml:"leaves,omitempty"`
	Markers  int    `yaml:"markers,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// ReportFailed is one reference that could not be processed.
type ReportFailed struct {
	Path  string `yaml:"path"`
	Error string `yaml:"error"`
}

// SaveReport writes a YAML run report to path.
func SaveReport(r *RunResult, path string) error {
	rep := Report{
		StartedAt: time.Now().Add(-r.Duration),
		Duration:  r.Duration.Round(time.Millisecond).String(),
		Written:   r.Written,
		Leaves:    r.Leaves,
		Markers:   r.Markers,
		Failures:  r.Failures,
		BackupDir: r.BackupDir,
	}
	for _, o := range r.Outcomes {
		if !o.Written && o.Err == nil {
			continue
		}
		file := ReportFile{
			File:     o.File,
			Language: o.Language,
			Created:  o.Created,
			Leaves:   o.Leaves,
			Markers:  o.Markers,
		}
		if o.Err != nil {
			file.Error = o.Err.Error()
		}
		rep.Files = append(rep.Files, file)
	}
	for _, s := range r.Skipped {
		rep.Skipped = append(rep.Skipped, ReportFailed{Path: s.Path, Error: s.Err.Error()})
	}

	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	header := "# glotfill run report\n# Generated by: glotfill run --report\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
