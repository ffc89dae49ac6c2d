package translator

import (
	"os"
	"sort"

	"github.com/glotfill/glotfill/internal/osutil"
)

// FS is the narrow filesystem surface the resolver and driver go through.
// Production code uses OSFS; tests may substitute a failing or recording
// implementation.
type FS interface {
	ListDirs(path string) ([]string, error)
	ListFiles(path string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	MkdirAll(path string) error
	Exists(path string) bool
}

// OSFS implements FS against the real filesystem.
type OSFS struct{}

// ListDirs returns the names of the subdirectories of path, sorted.
func (OSFS) ListDirs(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListFiles returns the names of the regular files directly inside path,
// sorted.
func (OSFS) ListFiles(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile reads the named file.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to the named file, creating it if needed.
func (OSFS) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// MkdirAll creates the directory and any missing parents.
func (OSFS) MkdirAll(path string) error {
	return osutil.Mkdir(path, true)
}

// Exists reports whether the path exists.
func (OSFS) Exists(path string) bool {
	return osutil.Exists(path)
}
