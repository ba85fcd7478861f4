package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteManifest writes a CSV manifest built from lines (header first) into
// dir and returns its path.
func WriteManifest(t testing.TB, dir string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, "manifest.csv")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

// Invocations returns the argument lines recorded by WithRecordingTool, or
// nil when the tool never ran.
func Invocations(t testing.TB, baseDir string) []string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(baseDir, "invocations.log"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read invocations: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
