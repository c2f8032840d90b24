package daemon_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hardsub/internal/api"
	"hardsub/internal/burn"
	"hardsub/internal/config"
	"hardsub/internal/daemon"
	"hardsub/internal/fonts"
	"hardsub/internal/logging"
	"hardsub/internal/render"
	"hardsub/internal/testsupport"
)

const probeVideoJSON = `#!/bin/sh
printf '{"streams":[{"index":0,"codec_type":"video"}],"format":{"duration":"2.0"}}'
`

const ffmpegWriteOutput = `#!/bin/sh
for last; do :; done
printf 'encoded' > "$last"
exit 0
`

const fcCacheOK = `#!/bin/sh
exit 0
`

func newDaemonConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	binDir := filepath.Join(testsupport.BaseDir(cfg), "stubs")
	cfg.Render.FFprobeBinary = testsupport.StubBinary(t, binDir, "ffprobe", probeVideoJSON)
	cfg.Render.FFmpegBinary = testsupport.StubBinary(t, binDir, "ffmpeg", ffmpegWriteOutput)
	cfg.Render.FcCacheBinary = testsupport.StubBinary(t, binDir, "fc-cache", fcCacheOK)
	return cfg
}

func startDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()

	store := testsupport.MustOpenStore(t, cfg)
	resolver, err := fonts.NewResolver(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	invoker := render.NewInvoker(cfg, logging.NewNop())
	scheduler := burn.NewScheduler(cfg, store, resolver, invoker, logging.NewNop())

	d, err := daemon.New(cfg, store, resolver, scheduler, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New failed: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start failed: %v", err)
	}
	t.Cleanup(d.Stop)

	deadline := time.Now().Add(5 * time.Second)
	for !d.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("daemon never became ready")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return d
}

func newClient(t *testing.T, d *daemon.Daemon) *api.Client {
	t.Helper()

	client, err := api.NewClient(d.APIAddr())
	if err != nil {
		t.Fatalf("api.NewClient failed: %v", err)
	}
	return client
}

func TestDaemonServesBurnJobOverAPI(t *testing.T) {
	cfg := newDaemonConfig(t)
	d := startDaemon(t, cfg)
	client := newClient(t, d)

	ctx := context.Background()
	health, err := client.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if !health.Running || !health.Ready || !health.FontsWarmed {
		t.Fatalf("unexpected health: %#v", health)
	}

	base := testsupport.BaseDir(cfg)
	video := filepath.Join(base, "input.mkv")
	testsupport.WriteFile(t, video, []byte("fake video"))

	submitted, err := client.Submit(ctx, api.SubmitRequest{
		VideoPath:    video,
		SubtitlePath: testsupport.WriteSampleSRT(t, base),
		ScriptTag:    "he",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if submitted.ID == "" {
		t.Fatal("expected job id in response")
	}

	deadline := time.Now().Add(5 * time.Second)
	var job api.Job
	for {
		job, err = client.Job(ctx, submitted.ID)
		if err != nil {
			t.Fatalf("Job failed: %v", err)
		}
		if job.Status == "succeeded" || job.Status == "failed" || job.Status == "timed_out" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never finished, status %s", job.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if job.Status != "succeeded" {
		t.Fatalf("expected success, got %s (%s: %s)", job.Status, job.ErrorKind, job.ErrorMessage)
	}
	if job.OutputPath == "" {
		t.Fatal("expected output path in terminal payload")
	}

	jobs, err := client.Jobs(ctx)
	if err != nil {
		t.Fatalf("Jobs failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != submitted.ID {
		t.Fatalf("unexpected job list: %#v", jobs)
	}
}

func TestAPIMapsSubmissionErrors(t *testing.T) {
	cfg := newDaemonConfig(t)
	d := startDaemon(t, cfg)
	client := newClient(t, d)

	ctx := context.Background()
	base := testsupport.BaseDir(cfg)
	video := filepath.Join(base, "input.mkv")
	testsupport.WriteFile(t, video, []byte("fake video"))
	malformed := filepath.Join(base, "bad.srt")
	testsupport.WriteFile(t, malformed, []byte("not a subtitle"))

	_, err := client.Submit(ctx, api.SubmitRequest{VideoPath: video, SubtitlePath: malformed, ScriptTag: "he"})
	var apiErr *api.ErrorStatus
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ErrorStatus, got %v", err)
	}
	if apiErr.StatusCode != 422 || apiErr.Kind != string(burn.KindMalformedSubtitle) {
		t.Fatalf("unexpected error mapping: %#v", apiErr)
	}

	if err := client.Cancel(ctx, "no-such-job"); err == nil {
		t.Fatal("expected error cancelling unknown job")
	} else if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestSecondInstanceBlockedByLock(t *testing.T) {
	cfg := newDaemonConfig(t)
	startDaemon(t, cfg)

	store := testsupport.MustOpenStore(t, cfg)
	resolver, err := fonts.NewResolver(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	scheduler := burn.NewScheduler(cfg, store, resolver, render.NewInvoker(cfg, logging.NewNop()), logging.NewNop())
	second, err := daemon.New(cfg, store, resolver, scheduler, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New failed: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail on the lock")
	}
}

func TestStartFailsOnMissingBinary(t *testing.T) {
	cfg := newDaemonConfig(t)
	cfg.Render.FFmpegBinary = filepath.Join(testsupport.BaseDir(cfg), "missing-ffmpeg")

	store := testsupport.MustOpenStore(t, cfg)
	resolver, err := fonts.NewResolver(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	scheduler := burn.NewScheduler(cfg, store, resolver, render.NewInvoker(cfg, logging.NewNop()), logging.NewNop())
	d, err := daemon.New(cfg, store, resolver, scheduler, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New failed: %v", err)
	}
	if err := d.Start(context.Background()); err == nil {
		d.Stop()
		t.Fatal("expected start failure for missing renderer binary")
	}
}
