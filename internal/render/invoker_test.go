package render_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hardsub/internal/config"
	"hardsub/internal/fonts"
	"hardsub/internal/logging"
	"hardsub/internal/render"
	"hardsub/internal/testsupport"
)

const probeVideoJSON = `#!/bin/sh
printf '{"streams":[{"index":0,"codec_type":"video"}],"format":{"duration":"2.0"}}'
`

const probeAudioOnlyJSON = `#!/bin/sh
printf '{"streams":[{"index":0,"codec_type":"audio"}],"format":{"duration":"2.0"}}'
`

// ffmpegWriteOutput writes bytes to its final argument, like a successful burn.
const ffmpegWriteOutput = `#!/bin/sh
for last; do :; done
printf 'encoded' > "$last"
exit 0
`

const ffmpegFontFailure = `#!/bin/sh
echo "[Parsed_subtitles_0] fontselect: Noto Sans Hebrew not found" >&2
exit 1
`

const ffmpegSilentExit = `#!/bin/sh
exit 0
`

const ffmpegHang = `#!/bin/sh
sleep 30
`

type invokerFixture struct {
	cfg  *config.Config
	spec render.Spec
	font fonts.Entry
	inv  *render.Invoker
}

func newInvokerFixture(t *testing.T, ffprobeBody, ffmpegBody string) *invokerFixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	binDir := filepath.Join(testsupport.BaseDir(cfg), "stubs")
	cfg.Render.FFprobeBinary = testsupport.StubBinary(t, binDir, "ffprobe", ffprobeBody)
	cfg.Render.FFmpegBinary = testsupport.StubBinary(t, binDir, "ffmpeg", ffmpegBody)

	videoPath := filepath.Join(testsupport.BaseDir(cfg), "input.mkv")
	testsupport.WriteFile(t, videoPath, []byte("fake video"))

	spec := render.Spec{
		JobID:        "job-1",
		VideoPath:    videoPath,
		SubtitlePath: testsupport.WriteSampleSRT(t, cfg.Paths.WorkDir),
		OutputPath:   filepath.Join(cfg.Paths.OutputDir, "job-1.mp4"),
	}
	font := fonts.Entry{ScriptTag: "he", Family: "Noto Sans Hebrew", FilePath: filepath.Join(cfg.Fonts.Dir, "NotoSansHebrew-Regular.ttf")}

	return &invokerFixture{
		cfg:  cfg,
		spec: spec,
		font: font,
		inv:  render.NewInvoker(cfg, logging.NewNop()),
	}
}

func TestRunSuccess(t *testing.T) {
	fx := newInvokerFixture(t, probeVideoJSON, ffmpegWriteOutput)

	result, err := fx.inv.Run(context.Background(), fx.spec, fx.font)
	if err != nil {
		t.Fatalf("Run failed: %v (stderr %q)", err, result.StderrTail)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit 0, got %d", result.ExitCode)
	}
	if result.OutputPath != fx.spec.OutputPath {
		t.Fatalf("unexpected output path %q", result.OutputPath)
	}
	info, statErr := os.Stat(fx.spec.OutputPath)
	if statErr != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty output, err=%v", statErr)
	}
}

func TestRunClassifiesFontFailure(t *testing.T) {
	fx := newInvokerFixture(t, probeVideoJSON, ffmpegFontFailure)

	result, err := fx.inv.Run(context.Background(), fx.spec, fx.font)
	if !errors.Is(err, render.ErrFontRender) {
		t.Fatalf("expected ErrFontRender, got %v", err)
	}
	if result.ExitCode != 1 {
		t.Fatalf("expected exit 1, got %d", result.ExitCode)
	}
	if result.StderrTail == "" {
		t.Fatal("expected stderr tail captured")
	}
}

func TestRunSilentFailure(t *testing.T) {
	fx := newInvokerFixture(t, probeVideoJSON, ffmpegSilentExit)

	if _, err := fx.inv.Run(context.Background(), fx.spec, fx.font); !errors.Is(err, render.ErrSilentFailure) {
		t.Fatalf("expected ErrSilentFailure, got %v", err)
	}
}

func TestRunTimesOut(t *testing.T) {
	fx := newInvokerFixture(t, probeVideoJSON, ffmpegHang)
	fx.cfg.Render.TimeoutFloorSeconds = 1
	fx.cfg.Render.TimeoutCeilingSeconds = 1

	_, err := fx.inv.Run(context.Background(), fx.spec, fx.font)
	if !errors.Is(err, render.ErrTimedOut) {
		t.Fatalf("expected ErrTimedOut, got %v", err)
	}
	if _, statErr := os.Stat(fx.spec.OutputPath); !os.IsNotExist(statErr) {
		t.Fatalf("expected partial output removed, stat err=%v", statErr)
	}
}

func TestRunCancelledByCaller(t *testing.T) {
	fx := newInvokerFixture(t, probeVideoJSON, ffmpegHang)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := fx.inv.Run(ctx, fx.spec, fx.font)
		done <- err
	}()
	cancel()

	err := <-done
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, render.ErrTimedOut) {
		t.Fatal("caller cancellation must not be reported as a timeout")
	}
}

func TestRunRejectsUnprobeableInput(t *testing.T) {
	fx := newInvokerFixture(t, "#!/bin/sh\necho 'Invalid data found' >&2\nexit 1\n", ffmpegWriteOutput)

	if _, err := fx.inv.Run(context.Background(), fx.spec, fx.font); !errors.Is(err, render.ErrCorruptInput) {
		t.Fatalf("expected ErrCorruptInput, got %v", err)
	}
}

func TestRunRejectsVideolessInput(t *testing.T) {
	fx := newInvokerFixture(t, probeAudioOnlyJSON, ffmpegWriteOutput)

	if _, err := fx.inv.Run(context.Background(), fx.spec, fx.font); !errors.Is(err, render.ErrCorruptInput) {
		t.Fatalf("expected ErrCorruptInput for audio-only input, got %v", err)
	}
}
