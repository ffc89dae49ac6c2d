// Package osutil provides the small set of filesystem helpers glotfill
// needs: existence checks, directory creation, backup copies, and glob
// expansion over resource trees.
package osutil

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/otiai10/copy"
)

// Mkdir creates a directory. If parents is true, creates parent directories
// as needed and doesn't error if the directory already exists.
func Mkdir(path string, parents bool) error {
	if parents {
		return os.MkdirAll(path, 0755)
	}
	return os.Mkdir(path, 0755)
}

// Exists returns true if the path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir returns true if the path is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile returns true if the path is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Copy copies a directory tree from src to dst, merging into an existing
// destination. Entries whose base name matches one of skipNames are left
// out, which keeps backup snapshots from recursing into themselves.
func Copy(src, dst string, skipNames ...string) error {
	opts := copy.Options{
		OnSymlink: func(src string) copy.SymlinkAction {
			return copy.Shallow
		},
		PermissionControl: copy.PerservePermission,
		OnDirExists: func(src, dst string) copy.DirExistsAction {
			return copy.Merge
		},
	}
	if len(skipNames) > 0 {
		opts.Skip = func(srcinfo os.FileInfo, src, dest string) (bool, error) {
			name := filepath.Base(src)
			for _, skip := range skipNames {
				if name == skip {
					return true, nil
				}
			}
			return false, nil
		}
	}

	return copy.Copy(src, dst, opts)
}

// Glob expands a glob pattern and returns matching file paths.
// Supports doublestar (**) patterns for recursive matching.
func Glob(pattern string) ([]string, error) {
	var opts []doublestar.GlobOption
	if runtime.GOOS == "windows" {
		opts = append(opts, doublestar.WithNoFollow())
	}

	if filepath.IsAbs(pattern) {
		return doublestar.FilepathGlob(pattern, opts...)
	}

	return doublestar.Glob(os.DirFS("."), pattern, opts...)
}

// GlobIn expands a glob pattern relative to a base directory and returns
// paths joined back onto that directory.
func GlobIn(baseDir, pattern string) ([]string, error) {
	var opts []doublestar.GlobOption
	if runtime.GOOS == "windows" {
		opts = append(opts, doublestar.WithNoFollow())
	}

	matches, err := doublestar.Glob(os.DirFS(baseDir), pattern, opts...)
	if err != nil {
		return nil, err
	}

	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = filepath.Join(baseDir, m)
	}
	return result, nil
}
