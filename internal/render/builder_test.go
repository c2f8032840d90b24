package render

import (
	"strings"
	"testing"

	"hardsub/internal/config"
	"hardsub/internal/fonts"
)

func TestBuildArgsFilterAndEncodeSettings(t *testing.T) {
	cfg := config.Default()
	spec := Spec{
		VideoPath:    "/in/movie.mkv",
		SubtitlePath: "/work/sub-1.srt",
		OutputPath:   "/out/movie.mp4",
	}
	font := fonts.Entry{Family: "Noto Sans Hebrew", FilePath: "/fonts/NotoSansHebrew-Regular.ttf"}

	args := buildArgs(&cfg, spec, font)

	joined := strings.Join(args, " ")
	for _, fragment := range []string{
		"-hide_banner", "-nostdin", "-y",
		"-i /in/movie.mkv",
		"-c:v libx264", "-preset ultrafast", "-crf 23",
		"-pix_fmt yuv420p", "-c:a copy",
	} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("argv missing %q: %v", fragment, args)
		}
	}
	if args[len(args)-1] != "/out/movie.mp4" {
		t.Fatalf("output path must be the final argument, got %v", args)
	}

	filter := argAfter(t, args, "-vf")
	want := "subtitles=filename='/work/sub-1.srt':fontsdir='/fonts':" +
		"force_style='FontName=Noto Sans Hebrew,FontSize=28,Alignment=10,Outline=2,Shadow=1,MarginV=40'"
	if filter != want {
		t.Fatalf("filter mismatch:\n got %q\nwant %q", filter, want)
	}
}

func TestBuildArgsEscapesHostilePaths(t *testing.T) {
	cfg := config.Default()
	spec := Spec{
		VideoPath:    "/in/movie.mkv",
		SubtitlePath: `/work/it's:a,trap'.srt`,
		OutputPath:   "/out/movie.mp4",
	}
	font := fonts.Entry{Family: "Noto Sans Hebrew", FilePath: "/fonts/f.ttf"}

	filter := argAfter(t, buildArgs(&cfg, spec, font), "-vf")
	if !strings.Contains(filter, `filename='/work/it\'s:a,trap\'.srt'`) {
		t.Fatalf("quote characters not escaped in %q", filter)
	}
}

func TestStyleOverrides(t *testing.T) {
	cfg := config.Default()
	spec := Spec{
		VideoPath:    "/in/a.mkv",
		SubtitlePath: "/work/a.srt",
		OutputPath:   "/out/a.mp4",
		Style:        StyleOptions{FontSize: 36, MarginV: 12},
	}
	font := fonts.Entry{Family: "Noto Sans", FilePath: "/fonts/f.ttf"}

	filter := argAfter(t, buildArgs(&cfg, spec, font), "-vf")
	if !strings.Contains(filter, "FontSize=36") || !strings.Contains(filter, "MarginV=12") {
		t.Fatalf("overrides not applied: %q", filter)
	}
	if !strings.Contains(filter, "Alignment=10") {
		t.Fatalf("unset fields must keep defaults: %q", filter)
	}
}

func argAfter(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("flag %s not found in %v", flag, args)
	return ""
}
