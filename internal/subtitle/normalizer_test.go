package subtitle_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"hardsub/internal/logging"
	"hardsub/internal/subtitle"
)

func TestNormalizeWritesCanonicalTrack(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw.srt")
	content := "3\r\n00:00:01.000 --> 00:00:02.000\r\nHello\r\n\r\n5\r\n00:00:03,000 --> 00:00:04,000\r\nWorld\r\n"
	if err := os.WriteFile(raw, []byte(content), 0o644); err != nil {
		t.Fatalf("write raw subtitle: %v", err)
	}

	n := subtitle.NewNormalizer(dir, logging.NewNop())
	normalized, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	t.Cleanup(func() { os.Remove(normalized) })

	if normalized == raw {
		t.Fatal("normalized path must differ from the input path")
	}
	out, err := os.ReadFile(normalized)
	if err != nil {
		t.Fatalf("read normalized: %v", err)
	}
	text := string(out)
	if strings.Contains(text, "\r") {
		t.Fatal("normalized track still contains CR bytes")
	}
	if !strings.HasPrefix(text, "1\n00:00:01,000 --> 00:00:02,000\nHello\n") {
		t.Fatalf("unexpected normalized content: %q", text)
	}

	original, err := os.ReadFile(raw)
	if err != nil {
		t.Fatalf("reread raw subtitle: %v", err)
	}
	if string(original) != content {
		t.Fatal("input file was mutated")
	}
}

func TestNormalizeLegacyEncoding(t *testing.T) {
	dir := t.TempDir()
	hebrew := "שלום"
	encoded, err := charmap.Windows1255.NewEncoder().Bytes([]byte("1\n00:00:01,000 --> 00:00:02,000\n" + hebrew + "\n"))
	if err != nil {
		t.Fatalf("encode windows-1255: %v", err)
	}
	raw := filepath.Join(dir, "legacy.srt")
	if err := os.WriteFile(raw, encoded, 0o644); err != nil {
		t.Fatalf("write raw subtitle: %v", err)
	}

	n := subtitle.NewNormalizer(dir, logging.NewNop())
	normalized, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	t.Cleanup(func() { os.Remove(normalized) })

	out, err := os.ReadFile(normalized)
	if err != nil {
		t.Fatalf("read normalized: %v", err)
	}
	if !strings.Contains(string(out), hebrew) {
		t.Fatalf("expected UTF-8 Hebrew text, got %q", out)
	}
}

func TestNormalizeErrorKinds(t *testing.T) {
	dir := t.TempDir()
	n := subtitle.NewNormalizer(dir, logging.NewNop())

	malformed := filepath.Join(dir, "bad.srt")
	if err := os.WriteFile(malformed, []byte("not a subtitle"), 0o644); err != nil {
		t.Fatalf("write malformed: %v", err)
	}
	if _, err := n.Normalize(malformed); !errors.Is(err, subtitle.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}

	empty := filepath.Join(dir, "empty.srt")
	if err := os.WriteFile(empty, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	if _, err := n.Normalize(empty); !errors.Is(err, subtitle.ErrEmptyTrack) {
		t.Fatalf("expected ErrEmptyTrack, got %v", err)
	}
}
