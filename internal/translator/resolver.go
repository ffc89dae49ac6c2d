// Package translator fills translation gaps in i18n JSON resource files.
//
// This file resolves configured references into concrete language layouts:
// which languages exist, where their files live, and which files belong to
// the base language.
package translator

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// Layout modes a reference can resolve to.
const (
	ModeDirectory = "directory"
	ModeFile      = "file"
)

// Reference is one configured translation source: a path to either a
// base-language directory (directory-per-language layout) or a single
// base-language JSON file (sibling {lang}.json layout), plus an optional
// markdown snippet directory injected before diffing.
type Reference struct {
	Path   string `yaml:"path"`
	Inject string `yaml:"inject,omitempty"`
}

// FileDescriptor pairs a language code with one resource file path.
type FileDescriptor struct {
	Language string
	Path     string
}

// Resolved describes a reference after layout discovery.
type Resolved struct {
	Reference Reference
	Mode      string
	BaseLang  string
	Root      string           // directory holding the per-language entries
	Languages []string         // discovered language codes, base included
	Strays    []string         // entries skipped because they are not language codes
	Files     []FileDescriptor // base-language resource files
}

// TargetPath returns where the translation of base file desc lives for the
// given language.
func (r *Resolved) TargetPath(desc FileDescriptor, lang string) string {
	if r.Mode == ModeFile {
		return filepath.Join(r.Root, lang+".json")
	}
	return filepath.Join(r.Root, lang, filepath.Base(desc.Path))
}

// Resolve discovers the layout behind one reference. Paths are resolved
// against root when relative. A missing or unreadable path is a resolution
// error; the caller is expected to skip the reference and carry on.
func Resolve(fs FS, ref Reference, root string) (*Resolved, error) {
	path := ref.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	if strings.HasSuffix(path, ".json") {
		return resolveFile(fs, ref, path)
	}
	return resolveDirectory(fs, ref, path)
}

// resolveDirectory handles the directory-per-language layout. The
// configured path names the base language directory; its parent holds one
// directory per language.
func resolveDirectory(fs FS, ref Reference, path string) (*Resolved, error) {
	if !fs.Exists(path) {
		return nil, fmt.Errorf("failed to resolve reference %s: no such directory", ref.Path)
	}

	res := &Resolved{
		Reference: ref,
		Mode:      ModeDirectory,
		BaseLang:  filepath.Base(path),
		Root:      filepath.Dir(path),
	}

	dirs, err := fs.ListDirs(res.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reference %s: %w", ref.Path, err)
	}
	for _, name := range dirs {
		if strings.HasPrefix(name, ".") {
			continue
		}
		if name != res.BaseLang && !validLangTag(name) {
			res.Strays = append(res.Strays, name)
			continue
		}
		res.Languages = append(res.Languages, name)
	}

	files, err := fs.ListFiles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reference %s: %w", ref.Path, err)
	}
	for _, name := range files {
		if filepath.Ext(name) != ".json" {
			continue
		}
		res.Files = append(res.Files, FileDescriptor{
			Language: res.BaseLang,
			Path:     filepath.Join(path, name),
		})
	}

	return res, nil
}

// resolveFile handles the single-file layout. The configured path names the
// base file; every sibling {lang}.json is a language.
func resolveFile(fs FS, ref Reference, path string) (*Resolved, error) {
	if !fs.Exists(path) {
		return nil, fmt.Errorf("failed to resolve reference %s: no such file", ref.Path)
	}

	res := &Resolved{
		Reference: ref,
		Mode:      ModeFile,
		BaseLang:  strings.TrimSuffix(filepath.Base(path), ".json"),
		Root:      filepath.Dir(path),
	}

	files, err := fs.ListFiles(res.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reference %s: %w", ref.Path, err)
	}
	for _, name := range files {
		if filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		code := strings.TrimSuffix(name, ".json")
		if code != res.BaseLang && !validLangTag(code) {
			res.Strays = append(res.Strays, name)
			continue
		}
		res.Languages = append(res.Languages, code)
	}

	res.Files = append(res.Files, FileDescriptor{Language: res.BaseLang, Path: path})

	return res, nil
}

// Targets returns the effective target languages for a resolved reference:
// the configured override when non-empty, otherwise every discovered
// language. The base language is never a target.
func (r *Resolved) Targets(configured []string) []string {
	var out []string
	pool := configured
	if len(pool) == 0 {
		pool = r.Languages
	}
	for _, lang := range pool {
		if lang == r.BaseLang {
			continue
		}
		out = append(out, lang)
	}
	return out
}

// validLangTag reports whether a directory or file name looks like a
// language code. Underscores are accepted as a region separator (pt_BR).
func validLangTag(code string) bool {
	if code == "" {
		return false
	}
	if _, err := language.Parse(code); err == nil {
		return true
	}
	if strings.Contains(code, "_") {
		if _, err := language.Parse(strings.ReplaceAll(code, "_", "-")); err == nil {
			return true
		}
	}
	return false
}
