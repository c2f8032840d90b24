package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	APIBind   string `toml:"api_bind"`
}

// FontSpec maps a script tag to an installed font.
type FontSpec struct {
	Family string `toml:"family"`
	File   string `toml:"file"`
}

// Fonts contains the font directory and the script tag registry.
type Fonts struct {
	Dir     string              `toml:"dir"`
	Scripts map[string]FontSpec `toml:"scripts"`
}

// Render contains settings for the external rendering engine invocation.
type Render struct {
	FFmpegBinary          string  `toml:"ffmpeg_binary"`
	FFprobeBinary         string  `toml:"ffprobe_binary"`
	FcCacheBinary         string  `toml:"fc_cache_binary"`
	VideoCodec            string  `toml:"video_codec"`
	Preset                string  `toml:"preset"`
	CRF                   int     `toml:"crf"`
	PixelFormat           string  `toml:"pixel_format"`
	TimeoutFactor         float64 `toml:"timeout_factor"`
	TimeoutFloorSeconds   int     `toml:"timeout_floor_seconds"`
	TimeoutCeilingSeconds int     `toml:"timeout_ceiling_seconds"`
	StderrTailBytes       int     `toml:"stderr_tail_bytes"`
}

// Style contains the default force_style parameters applied to burned subtitles.
type Style struct {
	FontSize  int `toml:"font_size"`
	Alignment int `toml:"alignment"`
	Outline   int `toml:"outline"`
	Shadow    int `toml:"shadow"`
	MarginV   int `toml:"margin_v"`
}

// Scheduler contains worker pool and admission settings.
type Scheduler struct {
	Workers    int `toml:"workers"`
	QueueDepth int `toml:"queue_depth"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for hardsub.
//
// Configuration sections by subsystem:
//   - Paths: working/output/log directories and API bind address
//   - Fonts: font directory and script tag to font registry
//   - Render: ffmpeg/ffprobe binaries, encode settings, timeouts
//   - Style: default subtitle style parameters
//   - Scheduler: burn worker pool sizing and queue depth
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Fonts     Fonts     `toml:"fonts"`
	Render    Render    `toml:"render"`
	Style     Style     `toml:"style"`
	Scheduler Scheduler `toml:"scheduler"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hardsub/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The boolean reports whether a
// config file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hardsub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RenderTimeout computes the wall-clock budget for one burn given the probed
// container duration in seconds. The budget scales with the input, bounded by
// the configured floor and ceiling.
func (c *Config) RenderTimeout(videoSeconds float64) int {
	budget := int(videoSeconds * c.Render.TimeoutFactor)
	if budget < c.Render.TimeoutFloorSeconds {
		budget = c.Render.TimeoutFloorSeconds
	}
	if c.Render.TimeoutCeilingSeconds > 0 && budget > c.Render.TimeoutCeilingSeconds {
		budget = c.Render.TimeoutCeilingSeconds
	}
	return budget
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return err
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if c.Fonts.Dir, err = expandPath(c.Fonts.Dir); err != nil {
		return err
	}

	normalized := make(map[string]FontSpec, len(c.Fonts.Scripts))
	for tag, spec := range c.Fonts.Scripts {
		cleanTag := strings.ToLower(strings.TrimSpace(tag))
		if cleanTag == "" {
			continue
		}
		spec.Family = strings.TrimSpace(spec.Family)
		spec.File = strings.TrimSpace(spec.File)
		normalized[cleanTag] = spec
	}
	c.Fonts.Scripts = normalized

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
