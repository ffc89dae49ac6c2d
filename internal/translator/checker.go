// Package translator fills translation gaps in i18n JSON resource files.
//
// This file contains pure query functions that compute data without
// touching any file. They return result types (defined in results.go)
// that are passed to presenters for output formatting.
package translator

import "github.com/rs/zerolog"

// Checker answers read-only questions about references: which gaps exist
// and which languages are present. It never writes and never calls the
// provider.
type Checker struct {
	cfg RunConfig
	fs  FS
	log zerolog.Logger
}

// NewChecker creates a checker for the given run configuration.
func NewChecker(cfg RunConfig, log zerolog.Logger) *Checker {
	return &Checker{cfg: cfg, fs: OSFS{}, log: log}
}

// Check computes the translation gaps of every reference. Target files
// that do not exist yet count as fully missing.
func (c *Checker) Check() *CheckResult {
	res := &CheckResult{}

	for _, ref := range c.cfg.References {
		resolved, err := Resolve(c.fs, ref, c.cfg.Root)
		if err != nil {
			c.log.Warn().Str("reference", ref.Path).Err(err).Msg("skipping reference")
			res.Skipped = append(res.Skipped, SkippedReference{Path: ref.Path, Err: err})
			continue
		}

		targets := resolved.Targets(c.cfg.Languages)
		for _, desc := range resolved.Files {
			base, err := loadTree(c.fs, desc.Path)
			if err != nil {
				c.log.Warn().Str("file", desc.Path).Err(err).Msg("skipping base file")
				res.Skipped = append(res.Skipped, SkippedReference{Path: desc.Path, Err: err})
				continue
			}

			inj, err := loadInjections(c.fs, c.cfg.Root, resolved, desc)
			if err != nil {
				c.log.Warn().Str("file", desc.Path).Err(err).Msg("failed to load snippet injections")
				inj = &Injections{}
			}
			inj.ApplyBase(base)

			for _, lang := range targets {
				target := NewTree()
				targetPath := resolved.TargetPath(desc, lang)
				if c.fs.Exists(targetPath) {
					target, err = loadTree(c.fs, targetPath)
					if err != nil {
						c.log.Warn().Str("file", targetPath).Err(err).Msg("skipping target file")
						res.Skipped = append(res.Skipped, SkippedReference{Path: targetPath, Err: err})
						continue
					}
				}
				inj.ApplyLang(target, lang)

				gap := Diff(base, target)
				if c.cfg.Retranslate {
					reopenMarked(gap, base, target)
				}
				if gap.Len() == 0 {
					continue
				}
				leaves := gap.LeafPaths()
				res.Gaps = append(res.Gaps, GapFile{
					Reference: ref.Path,
					File:      desc.Path,
					Language:  lang,
					Leaves:    leaves,
					Count:     len(leaves),
				})
				res.TotalLeaves += len(leaves)
			}
		}
	}

	return res
}

// Langs reports the resolved language layout of every reference.
func (c *Checker) Langs() *LangsResult {
	res := &LangsResult{}

	for _, ref := range c.cfg.References {
		resolved, err := Resolve(c.fs, ref, c.cfg.Root)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedReference{Path: ref.Path, Err: err})
			continue
		}
		res.References = append(res.References, ReferenceLangs{
			Reference: ref.Path,
			Mode:      resolved.Mode,
			BaseLang:  resolved.BaseLang,
			Languages: resolved.Languages,
			Targets:   resolved.Targets(c.cfg.Languages),
			Strays:    resolved.Strays,
			FileCount: len(resolved.Files),
		})
	}

	return res
}
