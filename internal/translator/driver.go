// Package translator fills translation gaps in i18n JSON resource files.
//
// This file contains the translation driver: it resolves references,
// makes sure the target layout exists, computes gaps, translates them
// through the provider, and writes merged files back. References, base
// files, and target languages all fan out concurrently; failures stay
// contained to the file they hit.
package translator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/glotfill/glotfill/internal/osutil"
)

// RunConfig carries everything one translation run needs.
type RunConfig struct {
	Root        string      // Directory reference paths resolve against
	Languages   []string    // Target language override; empty = discovered
	MaxLength   int         // Longest string sent to the provider, in runes (0 = no limit)
	ProjectID   string      // Forwarded to the provider as quota project
	Credential  string      // Provider API key
	Retranslate bool        // Re-open keys holding the missing marker
	References  []Reference // Translation sources
	Jobs        int         // Max concurrent file×language tasks (0 = unlimited)
	Backup      bool        // Snapshot language roots before writing
}

// Driver runs translation passes. Construct with NewDriver.
type Driver struct {
	cfg      RunConfig
	provider Provider
	fs       FS
	log      zerolog.Logger
}

// NewDriver creates a driver around an injected provider and logger.
func NewDriver(cfg RunConfig, provider Provider, log zerolog.Logger) *Driver {
	return &Driver{
		cfg:      cfg,
		provider: provider,
		fs:       OSFS{},
		log:      log,
	}
}

// Run executes one full translation pass over every configured reference.
// Failures are logged and collected in the result, never propagated: a bad
// reference, file, or provider call can not sink the rest of the run.
func (d *Driver) Run(ctx context.Context) *RunResult {
	start := time.Now()
	res := &RunResult{}
	var mu sync.Mutex

	var sem chan struct{}
	if d.cfg.Jobs > 0 {
		sem = make(chan struct{}, d.cfg.Jobs)
	}

	backupDir := ""
	if d.cfg.Backup {
		backupDir = filepath.Join(d.cfg.Root, ".glotfill", "backup", start.Format("20060102-150405"))
		res.BackupDir = backupDir
	}

	var wg sync.WaitGroup
	for _, ref := range d.cfg.References {
		wg.Add(1)
		go func(ref Reference) {
			defer wg.Done()
			d.runReference(ctx, ref, backupDir, res, &mu, sem)
		}(ref)
	}
	wg.Wait()

	res.Duration = time.Since(start)
	return res
}

// runReference resolves one reference and fans out over its base files.
func (d *Driver) runReference(ctx context.Context, ref Reference, backupDir string, res *RunResult, mu *sync.Mutex, sem chan struct{}) {
	resolved, err := Resolve(d.fs, ref, d.cfg.Root)
	if err != nil {
		d.log.Warn().Str("reference", ref.Path).Err(err).Msg("skipping reference")
		mu.Lock()
		res.Skipped = append(res.Skipped, SkippedReference{Path: ref.Path, Err: err})
		mu.Unlock()
		return
	}

	targets := resolved.Targets(d.cfg.Languages)
	if len(targets) == 0 {
		d.log.Debug().Str("reference", ref.Path).Msg("no target languages")
		return
	}

	d.log.Info().
		Str("reference", ref.Path).
		Str("base", resolved.BaseLang).
		Strs("targets", targets).
		Int("files", len(resolved.Files)).
		Msg("reference resolved")

	if backupDir != "" {
		dst := filepath.Join(backupDir, refBackupName(ref))
		if err := osutil.Copy(resolved.Root, dst, ".glotfill"); err != nil {
			d.log.Warn().Str("reference", ref.Path).Err(err).Msg("backup failed")
		}
	}

	if resolved.Mode == ModeDirectory {
		for _, lang := range targets {
			if err := d.fs.MkdirAll(filepath.Join(resolved.Root, lang)); err != nil {
				d.log.Error().Str("reference", ref.Path).Err(err).Msg("failed to create language directory")
				mu.Lock()
				res.Skipped = append(res.Skipped, SkippedReference{Path: ref.Path, Err: err})
				mu.Unlock()
				return
			}
		}
	}

	var wg sync.WaitGroup
	for _, desc := range resolved.Files {
		wg.Add(1)
		go func(desc FileDescriptor) {
			defer wg.Done()
			d.runFile(ctx, resolved, desc, targets, res, mu, sem)
		}(desc)
	}
	wg.Wait()
}

// runFile loads one base file and fans out over the target languages.
func (d *Driver) runFile(ctx context.Context, resolved *Resolved, desc FileDescriptor, targets []string, res *RunResult, mu *sync.Mutex, sem chan struct{}) {
	base, err := loadTree(d.fs, desc.Path)
	if err != nil {
		d.log.Error().Str("file", desc.Path).Err(err).Msg("failed to load base file")
		mu.Lock()
		res.Outcomes = append(res.Outcomes, FileOutcome{
			Reference: resolved.Reference.Path,
			File:      desc.Path,
			Err:       err,
		})
		res.Failures++
		mu.Unlock()
		return
	}

	inj, err := loadInjections(d.fs, d.cfg.Root, resolved, desc)
	if err != nil {
		d.log.Warn().Str("file", desc.Path).Err(err).Msg("failed to load snippet injections")
		inj = &Injections{}
	}
	inj.ApplyBase(base)

	var wg sync.WaitGroup
	for _, lang := range targets {
		wg.Add(1)
		go func(lang string) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			outcome := d.translateFile(ctx, resolved, desc, base, lang, inj)
			mu.Lock()
			res.Outcomes = append(res.Outcomes, outcome)
			res.Leaves += outcome.Leaves
			res.Markers += outcome.Markers
			if outcome.Written {
				res.Written++
			}
			if outcome.Err != nil {
				res.Failures++
			}
			mu.Unlock()
		}(lang)
	}
	wg.Wait()
}

// translateFile fills the gaps of one base file for one target language.
// On a provider or I/O failure the target file is left as it was.
func (d *Driver) translateFile(ctx context.Context, resolved *Resolved, desc FileDescriptor, base *Tree, lang string, inj *Injections) FileOutcome {
	outcome := FileOutcome{
		Reference: resolved.Reference.Path,
		File:      resolved.TargetPath(desc, lang),
		Language:  lang,
	}

	target := NewTree()
	if d.fs.Exists(outcome.File) {
		var err error
		target, err = loadTree(d.fs, outcome.File)
		if err != nil {
			d.log.Error().Str("file", outcome.File).Err(err).Msg("failed to load target file")
			outcome.Err = err
			return outcome
		}
	} else {
		if err := d.fs.WriteFile(outcome.File, []byte("{}\n")); err != nil {
			d.log.Error().Str("file", outcome.File).Err(err).Msg("failed to create target file")
			outcome.Err = fmt.Errorf("failed to create %s: %w", outcome.File, err)
			return outcome
		}
		outcome.Created = true
	}

	injected := inj.ApplyLang(target, lang)

	gap := Diff(base, target)
	if d.cfg.Retranslate {
		reopenMarked(gap, base, target)
	}
	if gap.Len() == 0 {
		d.log.Debug().Str("file", outcome.File).Msg("nothing to translate")
		if injected {
			d.writeTree(target, &outcome)
		}
		return outcome
	}

	result, err := d.translate(ctx, gap, lang)
	if err != nil {
		d.log.Error().Str("file", outcome.File).Str("lang", lang).Err(err).Msg("translation failed, file left unmodified")
		outcome.Err = err
		return outcome
	}
	outcome.Leaves = result.Leaves
	outcome.Markers = result.Markers

	merged := Merge(result.Content, target)
	if err := d.writeTree(merged, &outcome); err != nil {
		return outcome
	}

	d.log.Info().
		Str("file", outcome.File).
		Str("lang", lang).
		Int("leaves", result.Leaves).
		Int("markers", result.Markers).
		Msg("translated")
	return outcome
}

// writeTree encodes and writes a tree to the outcome's file.
func (d *Driver) writeTree(t *Tree, outcome *FileOutcome) error {
	data, err := t.Encode()
	if err != nil {
		d.log.Error().Str("file", outcome.File).Err(err).Msg("failed to encode target file")
		outcome.Err = err
		return err
	}
	if err := d.fs.WriteFile(outcome.File, data); err != nil {
		d.log.Error().Str("file", outcome.File).Err(err).Msg("failed to write target file")
		outcome.Err = fmt.Errorf("failed to write %s: %w", outcome.File, err)
		return err
	}
	outcome.Written = true
	return nil
}

// translate walks a gap tree and produces the translated content. String
// leaves go to the provider unless they exceed MaxLength, in which case the
// missing marker is substituted; such a substitution only counts as a fresh
// translation when retranslate is set. Nested trees recurse and keep their
// content. Other values are copied through untouched. Leaves are processed
// sequentially; the first provider error aborts the whole tree.
func (d *Driver) translate(ctx context.Context, gap *Tree, lang string) (*TranslationResult, error) {
	res := &TranslationResult{Content: NewTree()}
	for _, key := range gap.keys {
		switch val := gap.values[key].(type) {
		case string:
			if val == "" {
				res.Content.Set(key, val)
				continue
			}
			if d.cfg.MaxLength > 0 && utf8.RuneCountInString(val) > d.cfg.MaxLength {
				res.Content.Set(key, MissingMarker)
				res.Markers++
				if d.cfg.Retranslate {
					res.Translated = true
				}
				continue
			}
			translated, err := d.provider.Translate(ctx, val, lang)
			if err != nil {
				return nil, fmt.Errorf("failed to translate %q: %w", key, err)
			}
			res.Content.Set(key, translated)
			res.Translated = true
			res.Leaves++
		case *Tree:
			sub, err := d.translate(ctx, val, lang)
			if err != nil {
				return nil, err
			}
			res.Content.Set(key, sub.Content)
			res.Translated = res.Translated || sub.Translated
			res.Leaves += sub.Leaves
			res.Markers += sub.Markers
		default:
			res.Content.Set(key, cloneValue(val))
		}
	}
	return res, nil
}

// loadTree reads and parses one resource file.
func loadTree(fs FS, path string) (*Tree, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	t, err := ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, nil
}

// refBackupName flattens a reference path into a directory name.
func refBackupName(ref Reference) string {
	name := strings.TrimSuffix(ref.Path, ".json")
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	return strings.ReplaceAll(name, "/", "_")
}
