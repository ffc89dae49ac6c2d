package osutil

import (
	"os"
	"strings"
)

// Env gets an environment variable value. If the variable is not set,
// returns the default value. If no default is provided and the variable
// is not set, returns an empty string.
func Env(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// ExpandHome expands ~ and $HOME in a path to the actual home directory.
func ExpandHome(path string) string {
	home := HomeDir()
	if home == "" {
		return path
	}
	path = strings.ReplaceAll(path, "~", home)
	path = strings.ReplaceAll(path, "$HOME", home)
	return path
}
