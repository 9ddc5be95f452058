// Package testutil provides shared test helpers for file fixtures and
// output checks.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/trajectory.report/internal/monitoring"
)

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// AssertFileNonEmpty fails the test unless path is a regular file with
// content.
func AssertFileNonEmpty(t testing.TB, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		t.Fatalf("%s: want non-empty regular file, got mode %v size %d", path, info.Mode(), info.Size())
	}
}

// QuietLogs mutes the diagnostic logger for the rest of the test.
func QuietLogs(t testing.TB) {
	t.Helper()
	prev := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(prev) })
}
