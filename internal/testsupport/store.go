package testsupport

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"hardsub/internal/config"
	"hardsub/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewJob inserts a queued job for tests using the provided store.
func NewJob(t testing.TB, store *queue.Store, videoPath, subtitlePath string) *queue.Job {
	t.Helper()

	job := &queue.Job{
		ID:           uuid.NewString(),
		VideoPath:    videoPath,
		SubtitlePath: subtitlePath,
		ScriptTag:    "he",
		Status:       queue.StatusQueued,
	}
	if err := store.Insert(context.Background(), job); err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return job
}
