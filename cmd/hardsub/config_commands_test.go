package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample config to "+target) {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, _, err = runCLI(t, "config", "validate", "--path", target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Config at "+target+" is valid") {
		t.Fatalf("expected loaded-file message for existing config, got %q", out)
	}
}

func TestConfigValidateMissingFileReportsDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")

	out, _, err := runCLI(t, "config", "validate", "--path", missing)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "No config file found; defaults are valid") {
		t.Fatalf("expected defaults message for missing config, got %q", out)
	}
	if strings.Contains(out, missing) {
		t.Fatalf("missing path reported as loaded config: %q", out)
	}
}

func TestConfigInitRefusesExistingWithoutOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	if _, _, err := runCLI(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config without --overwrite")
	}
	if _, _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}
