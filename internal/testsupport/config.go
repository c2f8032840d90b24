package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"hardsub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// A "he" script font backed by a dummy file is registered so submissions
// resolve without fontconfig.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Fonts.Dir = filepath.Join(base, "fonts")
	cfgVal.Render.TimeoutFloorSeconds = 5
	cfgVal.Render.TimeoutCeilingSeconds = 10

	for _, dir := range []string{cfgVal.Paths.WorkDir, cfgVal.Paths.OutputDir, cfgVal.Paths.LogDir, cfgVal.Fonts.Dir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	fontPath := filepath.Join(cfgVal.Fonts.Dir, "NotoSansHebrew-Regular.ttf")
	if err := os.WriteFile(fontPath, []byte("stub font"), 0o644); err != nil {
		t.Fatalf("write font stub: %v", err)
	}
	cfgVal.Fonts.Scripts = map[string]config.FontSpec{
		"he": {Family: "Noto Sans Hebrew", File: "NotoSansHebrew-Regular.ttf"},
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithScriptFont registers an extra script tag backed by a dummy font file.
func WithScriptFont(tag, family, file string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.cfg.Fonts.Dir, file)
		if err := os.WriteFile(path, []byte("stub font"), 0o644); err != nil {
			b.t.Fatalf("write font stub %s: %v", file, err)
		}
		b.cfg.Fonts.Scripts[tag] = config.FontSpec{Family: family, File: file}
	}
}

// WithWorkers overrides the scheduler pool sizing on the test config.
func WithWorkers(workers, queueDepth int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scheduler.Workers = workers
		b.cfg.Scheduler.QueueDepth = queueDepth
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default external binaries
// are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "fc-cache"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// StubBinary writes an executable script with the given body into the test
// config's bin directory and returns its path.
func StubBinary(t testing.TB, dir, name, body string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
