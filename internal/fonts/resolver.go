package fonts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"hardsub/internal/config"
	"hardsub/internal/logging"
)

// ErrNotFound indicates no font is registered for the requested script tag.
// There is deliberately no fallback font: rendering Hebrew or Arabic with a
// default Latin face produces tofu glyphs, which is worse than failing.
var ErrNotFound = errors.New("no font registered for script tag")

// Entry describes the font resolved for one script tag. Entries are
// read-only after catalog load; only CacheRefreshedAt advances, once,
// when the cache warm completes.
type Entry struct {
	ScriptTag        string
	Family           string
	FilePath         string
	CacheRefreshedAt time.Time
}

// Resolver resolves script tags to installed fonts and performs the
// single-flight fontconfig cache refresh.
type Resolver struct {
	dir     string
	logger  *slog.Logger
	refresh func(ctx context.Context) error

	mu      sync.RWMutex
	entries map[string]Entry

	group    singleflight.Group
	warmed   atomic.Bool
	warmedAt atomic.Pointer[time.Time]
}

// NewResolver builds the catalog from configuration and verifies every
// registered font file exists. A missing file is a startup failure, not a
// per-job one: the outbound contract expects fonts installed before the
// process starts.
func NewResolver(cfg *config.Config, logger *slog.Logger) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.New("fonts: config is required")
	}
	entries := make(map[string]Entry, len(cfg.Fonts.Scripts))
	for tag, spec := range cfg.Fonts.Scripts {
		path := spec.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Fonts.Dir, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("font for script %q: %w", tag, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("font for script %q: %s is a directory", tag, path)
		}
		entries[tag] = Entry{ScriptTag: tag, Family: spec.Family, FilePath: path}
	}

	r := &Resolver{
		dir:     cfg.Fonts.Dir,
		logger:  logging.NewComponentLogger(logger, "fonts"),
		entries: entries,
	}
	fcCache := cfg.Render.FcCacheBinary
	r.refresh = func(ctx context.Context) error {
		cmd := exec.CommandContext(ctx, fcCache, "-f", r.dir)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("refresh font cache: %w: %s", err, strings.TrimSpace(string(output)))
		}
		return nil
	}
	return r, nil
}

// WithRefresh replaces the physical cache refresh. Used in tests.
func (r *Resolver) WithRefresh(fn func(ctx context.Context) error) {
	if r != nil && fn != nil {
		r.refresh = fn
	}
}

// Resolve returns the font entry registered for the script tag.
func (r *Resolver) Resolve(scriptTag string) (Entry, error) {
	tag := strings.ToLower(strings.TrimSpace(scriptTag))
	r.mu.RLock()
	entry, ok := r.entries[tag]
	r.mu.RUnlock()
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, scriptTag)
	}
	return entry, nil
}

// Tags returns the registered script tags.
func (r *Resolver) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.entries))
	for tag := range r.entries {
		tags = append(tags, tag)
	}
	return tags
}

// WarmCache refreshes the rendering engine's font index for the configured
// directory. Concurrent callers share a single physical refresh; once a
// refresh has succeeded, later calls return immediately.
func (r *Resolver) WarmCache(ctx context.Context) error {
	if r.warmed.Load() {
		return nil
	}
	_, err, _ := r.group.Do("warm", func() (any, error) {
		if r.warmed.Load() {
			return nil, nil
		}
		started := time.Now()
		if err := r.refresh(ctx); err != nil {
			return nil, err
		}
		refreshedAt := time.Now()
		r.mu.Lock()
		for tag, entry := range r.entries {
			entry.CacheRefreshedAt = refreshedAt
			r.entries[tag] = entry
		}
		r.mu.Unlock()
		r.warmedAt.Store(&refreshedAt)
		r.warmed.Store(true)
		r.logger.Info("font cache warmed",
			logging.String("dir", r.dir),
			logging.Int("fonts", len(r.entries)),
			logging.Duration("elapsed", time.Since(started)),
		)
		return nil, nil
	})
	return err
}

// Ready reports whether the cache warm has completed at least once.
func (r *Resolver) Ready() bool {
	return r.warmed.Load()
}

// WarmedAt returns when the cache warm completed, or the zero time.
func (r *Resolver) WarmedAt() time.Time {
	if at := r.warmedAt.Load(); at != nil {
		return *at
	}
	return time.Time{}
}
