package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFonts(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateStyle(); err != nil {
		return err
	}
	if err := c.validateScheduler(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateFonts() error {
	if strings.TrimSpace(c.Fonts.Dir) == "" {
		return errors.New("fonts.dir must be set")
	}
	for tag, spec := range c.Fonts.Scripts {
		if spec.Family == "" {
			return fmt.Errorf("fonts.scripts.%s.family must be set", tag)
		}
		if spec.File == "" {
			return fmt.Errorf("fonts.scripts.%s.file must be set", tag)
		}
	}
	return nil
}

func (c *Config) validateRender() error {
	if strings.TrimSpace(c.Render.FFmpegBinary) == "" {
		return errors.New("render.ffmpeg_binary must be set")
	}
	if strings.TrimSpace(c.Render.FFprobeBinary) == "" {
		return errors.New("render.ffprobe_binary must be set")
	}
	if c.Render.CRF < 0 || c.Render.CRF > 51 {
		return errors.New("render.crf must be between 0 and 51")
	}
	if c.Render.TimeoutFactor <= 0 {
		return errors.New("render.timeout_factor must be positive")
	}
	if c.Render.TimeoutFloorSeconds <= 0 {
		return errors.New("render.timeout_floor_seconds must be positive")
	}
	if c.Render.TimeoutCeilingSeconds > 0 && c.Render.TimeoutCeilingSeconds < c.Render.TimeoutFloorSeconds {
		return errors.New("render.timeout_ceiling_seconds must be at least timeout_floor_seconds")
	}
	if c.Render.StderrTailBytes <= 0 {
		return errors.New("render.stderr_tail_bytes must be positive")
	}
	return nil
}

func (c *Config) validateStyle() error {
	if c.Style.FontSize <= 0 {
		return errors.New("style.font_size must be positive")
	}
	if c.Style.Alignment < 1 || c.Style.Alignment > 11 {
		return errors.New("style.alignment must be a numpad alignment between 1 and 11")
	}
	if c.Style.Outline < 0 || c.Style.Shadow < 0 || c.Style.MarginV < 0 {
		return errors.New("style.outline, style.shadow, and style.margin_v must not be negative")
	}
	return nil
}

func (c *Config) validateScheduler() error {
	if c.Scheduler.Workers < 1 {
		return errors.New("scheduler.workers must be at least 1")
	}
	if c.Scheduler.QueueDepth < 1 {
		return errors.New("scheduler.queue_depth must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
