package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

// setSearchPath replaces a search path for the duration of the test.
func setSearchPath(t *testing.T, target *[]string, paths ...string) {
	t.Helper()

	saved := *target
	*target = paths
	t.Cleanup(func() { *target = saved })
}

// canonical resolves symlinks in path so comparisons with FindPath results
// hold on systems where the temp dir is itself a symlink.
func canonical(t *testing.T, path string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q) error = %v", path, err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		t.Fatalf("Abs(%q) error = %v", resolved, err)
	}
	return abs
}

// chdir changes the working directory to dir for the duration of the test,
// like testing.T.Chdir on Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()

	saved, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q) error = %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(saved); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
