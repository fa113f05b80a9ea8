// Package testutil isolates tests from the host environment.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points every TWRUN_* variable at per-test temp
// directories so tests never touch the user's shared cache or leak
// debug settings between runs. Cleanup rides on t.TempDir.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")

	t.Setenv("TWRUN_CACHE_DIR", cacheDir)
	t.Setenv("TWRUN_DEBUG", "")

	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		t.Fatalf("failed to create test cache directory: %v", err)
	}

	return tmpDir
}
