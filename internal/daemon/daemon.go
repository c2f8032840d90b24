package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"hardsub/internal/burn"
	"hardsub/internal/config"
	"hardsub/internal/deps"
	"hardsub/internal/fonts"
	"hardsub/internal/logging"
	"hardsub/internal/queue"
)

// Daemon coordinates the burn service lifecycle and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *queue.Store
	fonts     *fonts.Resolver
	scheduler *burn.Scheduler

	lockPath string
	lock     *flock.Flock

	depStatuses []deps.Status

	running atomic.Bool
	cancel  context.CancelFunc

	api *apiServer
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Ready        bool
	FontsWarmed  bool
	Workers      int
	ScriptTags   []string
	Dependencies []deps.Status
	JobDBPath    string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, resolver *fonts.Resolver, scheduler *burn.Scheduler, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || resolver == nil || scheduler == nil {
		return nil, errors.New("daemon requires config, store, resolver, and scheduler")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "hardsubd.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     store,
		fonts:     resolver,
		scheduler: scheduler,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start verifies external binaries, acquires the instance lock, launches
// the scheduler workers, warms the font cache, and begins serving the API.
// A missing required binary aborts startup before anything runs.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	d.depStatuses = deps.CheckBinaries(deps.Required(d.cfg))
	if missing := deps.FirstMissing(d.depStatuses); missing != nil {
		return fmt.Errorf("required dependency %s unavailable: %s", missing.Name, missing.Detail)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another hardsub daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.scheduler.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		return fmt.Errorf("start scheduler: %w", err)
	}

	// Submissions are rejected with not_ready until the warm finishes;
	// warming off the startup path keeps a slow fontconfig scan from
	// blocking the API socket.
	go func() {
		if err := d.fonts.WarmCache(runCtx); err != nil {
			d.logger.Error("font cache warm failed", logging.Error(err))
		}
	}()

	if d.api != nil {
		if err := d.api.start(runCtx); err != nil {
			_ = d.lock.Unlock()
			cancel()
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("hardsub daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.api != nil {
		d.api.stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.scheduler.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("hardsub daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Ready reports whether the daemon accepts submissions.
func (d *Daemon) Ready() bool {
	return d.running.Load() && d.fonts.Ready()
}

// Status reports runtime information for health checks and the CLI.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Ready:        d.Ready(),
		FontsWarmed:  d.fonts.Ready(),
		Workers:      d.cfg.Scheduler.Workers,
		ScriptTags:   d.fonts.Tags(),
		Dependencies: d.depStatuses,
		JobDBPath:    d.store.Path(),
		LockFilePath: d.lockPath,
	}
}

// APIAddr returns the bound API address, or "" before Start.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}
