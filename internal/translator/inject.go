// Package translator fills translation gaps in i18n JSON resource files.
//
// This file loads markdown snippet injections. A reference may name a
// snippet directory; each <key>.md file is injected into the base tree
// under <key> before diffing, so long-form content flows through the same
// gap pipeline as plain strings. A <key>.<lang>.md sibling injects a
// hand-written translation into that language's target tree instead, which
// wins over anything the provider would produce.
package translator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Injections holds the snippet content for one base file.
type Injections struct {
	Base   map[string]string            // key → base-language markdown
	ByLang map[string]map[string]string // lang → key → translated markdown
}

// loadInjections reads the snippet directory of a reference for one base
// file. Directory-per-language references keep their snippets under a
// subdirectory named after the base file; single-file references keep them
// directly inside the inject directory. A missing inject directory is not
// an error.
func loadInjections(fs FS, root string, resolved *Resolved, desc FileDescriptor) (*Injections, error) {
	inj := &Injections{
		Base:   make(map[string]string),
		ByLang: make(map[string]map[string]string),
	}
	if resolved.Reference.Inject == "" {
		return inj, nil
	}

	dir := resolved.Reference.Inject
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	if resolved.Mode == ModeDirectory {
		dir = filepath.Join(dir, strings.TrimSuffix(filepath.Base(desc.Path), ".json"))
	}
	if !fs.Exists(dir) {
		return inj, nil
	}

	files, err := fs.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets in %s: %w", dir, err)
	}

	for _, name := range files {
		if filepath.Ext(name) != ".md" {
			continue
		}
		data, err := fs.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read snippet %s: %w", name, err)
		}
		content := strings.TrimSpace(string(data))

		key := strings.TrimSuffix(name, ".md")
		if dot := strings.LastIndex(key, "."); dot > 0 {
			lang := key[dot+1:]
			if validLangTag(lang) {
				if inj.ByLang[lang] == nil {
					inj.ByLang[lang] = make(map[string]string)
				}
				inj.ByLang[lang][key[:dot]] = content
				continue
			}
		}
		inj.Base[key] = content
	}

	return inj, nil
}

// ApplyBase injects the base-language snippets, overwriting any value the
// resource file already has under the same key. Returns true when the tree
// changed.
func (inj *Injections) ApplyBase(t *Tree) bool {
	return applySnippets(t, inj.Base)
}

// ApplyLang injects the hand-translated snippets for one language into a
// target tree. Returns true when the tree changed.
func (inj *Injections) ApplyLang(t *Tree, lang string) bool {
	return applySnippets(t, inj.ByLang[lang])
}

func applySnippets(t *Tree, snippets map[string]string) bool {
	if len(snippets) == 0 {
		return false
	}
	keys := make([]string, 0, len(snippets))
	for key := range snippets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	changed := false
	for _, key := range keys {
		if cur, ok := t.Get(key); ok && DeepEqual(cur, snippets[key]) {
			continue
		}
		t.Set(key, snippets[key])
		changed = true
	}
	return changed
}
