package config

import (
	"os"
	"path/filepath"
)

// FindPath returns the first candidate that exists on the filesystem.
//
// Candidates are checked in order. The returned path is absolute with all
// symlinks resolved, so two spellings of the same file compare equal.
//
// Returns:
//   - string: The canonical path of the first existing candidate
//   - bool: false if none of the candidates exist
//
// Example:
//
//	path, ok := config.FindPath([]string{"/etc/snips.toml", "/usr/local/etc/snips.toml"})
func FindPath(candidates []string) (string, bool) {
	for _, name := range candidates {
		if _, err := os.Stat(name); err != nil {
			continue
		}

		resolved, err := filepath.EvalSymlinks(name)
		if err != nil {
			continue
		}

		abs, err := filepath.Abs(resolved)
		if err != nil {
			continue
		}

		return abs, true
	}

	return "", false
}
