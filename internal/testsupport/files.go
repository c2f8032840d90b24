package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the provided content, creating parent
// directories as needed.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// SampleSRT is a minimal well-formed subtitle track used across tests.
const SampleSRT = "1\n00:00:01,000 --> 00:00:02,500\nFirst line\n\n2\n00:00:03,000 --> 00:00:04,000\nSecond line\n"

// WriteSampleSRT writes SampleSRT to dir and returns the file path.
func WriteSampleSRT(t testing.TB, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "sample.srt")
	WriteFile(t, path, []byte(SampleSRT))
	return path
}
