package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"hardsub/internal/config"
	"hardsub/internal/fonts"
	"hardsub/internal/subtitle"
)

// StyleOptions are the force_style parameters for one burn. A zero value
// means "use the configured default" for that field.
type StyleOptions struct {
	FontSize  int
	Alignment int
	Outline   int
	Shadow    int
	MarginV   int
}

func (s StyleOptions) withDefaults(cfg config.Style) StyleOptions {
	if s.FontSize <= 0 {
		s.FontSize = cfg.FontSize
	}
	if s.Alignment <= 0 {
		s.Alignment = cfg.Alignment
	}
	if s.Outline <= 0 {
		s.Outline = cfg.Outline
	}
	if s.Shadow <= 0 {
		s.Shadow = cfg.Shadow
	}
	if s.MarginV <= 0 {
		s.MarginV = cfg.MarginV
	}
	return s
}

// buildArgs constructs the renderer argv. Arguments are passed as a list,
// never through a shell; untrusted values embedded in the filter expression
// go through subtitle.EscapeFilterValue.
func buildArgs(cfg *config.Config, spec Spec, font fonts.Entry) []string {
	style := spec.Style.withDefaults(cfg.Style)

	forceStyle := fmt.Sprintf("FontName=%s,FontSize=%d,Alignment=%d,Outline=%d,Shadow=%d,MarginV=%d",
		font.Family, style.FontSize, style.Alignment, style.Outline, style.Shadow, style.MarginV)

	filter := strings.Join([]string{
		"subtitles=filename='" + subtitle.EscapeFilterValue(spec.SubtitlePath) + "'",
		"fontsdir='" + subtitle.EscapeFilterValue(filepath.Dir(font.FilePath)) + "'",
		"force_style='" + subtitle.EscapeFilterValue(forceStyle) + "'",
	}, ":")

	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", spec.VideoPath,
		"-vf", filter,
		"-c:v", cfg.Render.VideoCodec,
		"-preset", cfg.Render.Preset,
		"-crf", fmt.Sprintf("%d", cfg.Render.CRF),
		"-pix_fmt", cfg.Render.PixelFormat,
		"-c:a", "copy",
		spec.OutputPath,
	}
}
