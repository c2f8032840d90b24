package fonts_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"hardsub/internal/config"
	"hardsub/internal/fonts"
	"hardsub/internal/logging"
	"hardsub/internal/testsupport"
)

func newResolver(t *testing.T) *fonts.Resolver {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	resolver, err := fonts.NewResolver(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	return resolver
}

func TestNewResolverRejectsMissingFontFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Fonts.Scripts["ar"] = config.FontSpec{Family: "Noto Sans Arabic", File: "does-not-exist.ttf"}
	if _, err := fonts.NewResolver(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing font file")
	}
}

func TestResolveKnownAndUnknown(t *testing.T) {
	resolver := newResolver(t)

	entry, err := resolver.Resolve("he")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if entry.Family != "Noto Sans Hebrew" {
		t.Fatalf("unexpected family %q", entry.Family)
	}
	if entry.FilePath == "" {
		t.Fatal("expected file path to be resolved")
	}

	if _, err := resolver.Resolve("HE "); err != nil {
		t.Fatalf("expected tag normalization, got %v", err)
	}
	if _, err := resolver.Resolve("xx"); !errors.Is(err, fonts.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWarmCacheRunsRefreshOnce(t *testing.T) {
	resolver := newResolver(t)

	var calls atomic.Int32
	resolver.WithRefresh(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	if resolver.Ready() {
		t.Fatal("resolver must not report ready before warm")
	}

	const concurrency = 16
	var wg sync.WaitGroup
	errs := make([]error, concurrency)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			errs[slot] = resolver.WarmCache(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("WarmCache failed: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one physical refresh, got %d", got)
	}
	if !resolver.Ready() {
		t.Fatal("resolver must report ready after warm")
	}
	if resolver.WarmedAt().IsZero() {
		t.Fatal("expected WarmedAt to be set")
	}

	if err := resolver.WarmCache(context.Background()); err != nil {
		t.Fatalf("repeated WarmCache failed: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("warm must not refresh again, got %d calls", got)
	}

	entry, err := resolver.Resolve("he")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if entry.CacheRefreshedAt.IsZero() {
		t.Fatal("expected CacheRefreshedAt stamped after warm")
	}
}

func TestWarmCacheFailureLeavesNotReady(t *testing.T) {
	resolver := newResolver(t)
	resolver.WithRefresh(func(ctx context.Context) error {
		return errors.New("fc-cache exploded")
	})

	if err := resolver.WarmCache(context.Background()); err == nil {
		t.Fatal("expected warm failure")
	}
	if resolver.Ready() {
		t.Fatal("failed warm must not mark resolver ready")
	}

	resolver.WithRefresh(func(ctx context.Context) error { return nil })
	if err := resolver.WarmCache(context.Background()); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if !resolver.Ready() {
		t.Fatal("expected ready after successful retry")
	}
}
