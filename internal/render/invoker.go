package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"hardsub/internal/config"
	"hardsub/internal/fonts"
	"hardsub/internal/logging"
	"hardsub/internal/media/ffprobe"
)

// Spec describes one burn invocation. The subtitle path must already be
// normalized; the output path must be unique to the job.
type Spec struct {
	JobID        string
	VideoPath    string
	SubtitlePath string
	OutputPath   string
	Style        StyleOptions
}

// Result reports the outcome of one renderer invocation.
type Result struct {
	ExitCode   int
	StderrTail string
	Duration   time.Duration
	OutputPath string
}

// Invoker runs the rendering engine subprocess for burn specs.
type Invoker struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewInvoker constructs a renderer invoker.
func NewInvoker(cfg *config.Config, logger *slog.Logger) *Invoker {
	return &Invoker{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "render"),
	}
}

// Run probes the input, executes the burn with a wall-clock budget scaled to
// the input duration, and classifies failure. The subprocess and anything it
// spawns are killed as a process group when the budget expires or the
// context is cancelled. Retries are a caller policy; Run never retries.
func (inv *Invoker) Run(ctx context.Context, spec Spec, font fonts.Entry) (Result, error) {
	report, err := ffprobe.Inspect(ctx, inv.cfg.Render.FFprobeBinary, spec.VideoPath)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("%w: %v", ErrCorruptInput, err)
	}
	if !report.HasVideoStream() {
		return Result{}, fmt.Errorf("%w: no video stream in %s", ErrCorruptInput, spec.VideoPath)
	}

	budget := time.Duration(inv.cfg.RenderTimeout(report.DurationSeconds())) * time.Second
	runCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	args := buildArgs(inv.cfg, spec, font)
	inv.logger.Debug("launching renderer",
		logging.String("job_id", spec.JobID),
		logging.String("input", spec.VideoPath),
		logging.String("output", spec.OutputPath),
		logging.Duration("budget", budget),
	)

	tail := newTailBuffer(inv.cfg.Render.StderrTailBytes)
	cmd := exec.CommandContext(runCtx, inv.cfg.Render.FFmpegBinary, args...)
	cmd.Stderr = tail
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		// Negative pid signals the whole group, taking down any helpers
		// the renderer forked.
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	started := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(started)

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	result := Result{
		ExitCode:   exitCode,
		StderrTail: strings.TrimSpace(tail.String()),
		Duration:   elapsed,
	}

	if runErr != nil {
		// The parent context covers job cancellation; only the per-run
		// deadline counts as a timeout.
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			_ = os.Remove(spec.OutputPath)
			return result, fmt.Errorf("%w after %s", ErrTimedOut, elapsed.Round(time.Second))
		}
		kind := classifyExit(result.StderrTail)
		return result, fmt.Errorf("%w: exit %d", kind, result.ExitCode)
	}

	info, statErr := os.Stat(spec.OutputPath)
	if statErr != nil || info.Size() == 0 {
		_ = os.Remove(spec.OutputPath)
		return result, fmt.Errorf("%w: exit 0 but output missing or empty", ErrSilentFailure)
	}

	result.OutputPath = spec.OutputPath
	inv.logger.Info("render complete",
		logging.String("job_id", spec.JobID),
		logging.String("output", spec.OutputPath),
		logging.Int64("output_bytes", info.Size()),
		logging.Duration("elapsed", elapsed),
	)
	return result, nil
}
