package burn

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hardsub/internal/config"
	"hardsub/internal/fonts"
	"hardsub/internal/logging"
	"hardsub/internal/queue"
	"hardsub/internal/render"
	"hardsub/internal/subtitle"
)

// Invoker runs the rendering subprocess for one job.
type Invoker interface {
	Run(ctx context.Context, spec render.Spec, font fonts.Entry) (render.Result, error)
}

// Request describes one burn submission.
type Request struct {
	VideoPath    string
	SubtitlePath string
	ScriptTag    string
	Style        render.StyleOptions
}

// Handle identifies a submitted job.
type Handle string

// JobView is a caller-facing snapshot of one job.
type JobView struct {
	ID             string
	State          queue.Status
	Kind           Kind
	Message        string
	StderrTail     string
	OutputPath     string
	RenderDuration time.Duration
	CreatedAt      time.Time
}

type job struct {
	id             string
	spec           render.Spec
	font           fonts.Entry
	normalizedPath string
	createdAt      time.Time

	state      queue.Status
	kind       Kind
	message    string
	stderrTail string
	exitCode   int
	renderDur  time.Duration
	outputPath string

	cancelled bool
	cancelRun context.CancelFunc
}

// Scheduler admits burn requests onto a fixed worker pool. At most W
// renderer subprocesses run concurrently; excess submissions queue FIFO up
// to the configured depth and overflow fails fast.
type Scheduler struct {
	cfg        *config.Config
	store      *queue.Store
	fonts      *fonts.Resolver
	normalizer *subtitle.Normalizer
	invoker    Invoker
	logger     *slog.Logger

	jobs chan *job

	mu      sync.Mutex
	byID    map[string]*job
	started bool

	wg sync.WaitGroup
}

// NewScheduler constructs a scheduler. The worker pool starts with Start.
func NewScheduler(cfg *config.Config, store *queue.Store, resolver *fonts.Resolver, invoker Invoker, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		store:      store,
		fonts:      resolver,
		normalizer: subtitle.NewNormalizer(cfg.Paths.WorkDir, logger),
		invoker:    invoker,
		logger:     logging.NewComponentLogger(logger, "scheduler"),
		jobs:       make(chan *job, cfg.Scheduler.QueueDepth),
		byID:       make(map[string]*job),
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("scheduler already started")
	}
	s.started = true

	for i := 0; i < s.cfg.Scheduler.Workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j := <-s.jobs:
					s.runJob(ctx, j)
				}
			}
		}()
	}
	s.logger.Info("scheduler started",
		logging.Int("workers", s.cfg.Scheduler.Workers),
		logging.Int("queue_depth", s.cfg.Scheduler.QueueDepth),
	)
	return nil
}

// Stop waits for workers to exit, then fails any jobs still queued so no
// submission is left without a terminal state.
func (s *Scheduler) Stop() {
	s.wg.Wait()
	for {
		select {
		case j := <-s.jobs:
			s.mu.Lock()
			terminal := queue.IsTerminalStatus(j.state)
			s.mu.Unlock()
			// Cancelled-while-queued jobs were finalized by Cancel and
			// sit in the channel only until drained.
			if terminal {
				continue
			}
			s.finalize(j, queue.StatusFailed, KindCancelled, "daemon stopped before job ran", render.Result{})
		default:
			return
		}
	}
}

// Submit validates a request and, if it passes, admits it to the queue.
// Validation failures are returned synchronously and never consume a
// worker slot. The returned handle is immediately usable with Status,
// Result, and Cancel.
func (s *Scheduler) Submit(ctx context.Context, req Request) (Handle, error) {
	if !s.fonts.Ready() {
		return "", newError(KindNotReady, "font cache warm has not completed")
	}

	if _, err := os.Stat(req.VideoPath); err != nil {
		return "", newError(KindCorruptInput, "video not readable: %v", err)
	}

	font, err := s.fonts.Resolve(req.ScriptTag)
	if err != nil {
		return "", wrapStageError(err)
	}

	normalizedPath, err := s.normalizer.Normalize(req.SubtitlePath)
	if err != nil {
		return "", wrapStageError(err)
	}

	id := uuid.NewString()
	j := &job{
		id:             id,
		normalizedPath: normalizedPath,
		font:           font,
		createdAt:      time.Now(),
		state:          queue.StatusQueued,
		spec: render.Spec{
			JobID:        id,
			VideoPath:    req.VideoPath,
			SubtitlePath: normalizedPath,
			// Derived from the job id, so concurrent jobs can never
			// collide on an output path.
			OutputPath: filepath.Join(s.cfg.Paths.OutputDir, id+".mp4"),
			Style:      req.Style,
		},
	}

	s.mu.Lock()
	if len(s.jobs) == cap(s.jobs) {
		s.mu.Unlock()
		_ = os.Remove(normalizedPath)
		return "", newError(KindOverloaded, "queue depth %d reached", cap(s.jobs))
	}
	record := &queue.Job{
		ID:           id,
		VideoPath:    req.VideoPath,
		SubtitlePath: req.SubtitlePath,
		ScriptTag:    req.ScriptTag,
		OutputPath:   j.spec.OutputPath,
		Status:       queue.StatusQueued,
	}
	if err := s.store.Insert(ctx, record); err != nil {
		s.mu.Unlock()
		_ = os.Remove(normalizedPath)
		return "", err
	}
	s.byID[id] = j
	// Cannot block: capacity was checked under the same lock and Submit
	// is the only sender.
	s.jobs <- j
	s.mu.Unlock()

	s.logger.Info("job admitted",
		logging.String("job_id", id),
		logging.String("video", req.VideoPath),
		logging.String("script", req.ScriptTag),
	)
	return Handle(id), nil
}

// Status reports the job's current state.
func (s *Scheduler) Status(handle Handle) (queue.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.byID[string(handle)]
	if !ok {
		return "", ErrUnknownJob
	}
	return j.state, nil
}

// Result returns a snapshot of the job, including terminal diagnostics.
func (s *Scheduler) Result(handle Handle) (JobView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.byID[string(handle)]
	if !ok {
		return JobView{}, ErrUnknownJob
	}
	return s.viewLocked(j), nil
}

// Jobs returns snapshots of all jobs known to this process, oldest first.
func (s *Scheduler) Jobs() []JobView {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := make([]JobView, 0, len(s.byID))
	for _, j := range s.byID {
		views = append(views, s.viewLocked(j))
	}
	sortViews(views)
	return views
}

func (s *Scheduler) viewLocked(j *job) JobView {
	return JobView{
		ID:             j.id,
		State:          j.state,
		Kind:           j.kind,
		Message:        j.message,
		StderrTail:     j.stderrTail,
		OutputPath:     j.outputPath,
		RenderDuration: j.renderDur,
		CreatedAt:      j.createdAt,
	}
}

// Cancel removes a queued job before it runs, or kills a running job's
// subprocess. Cancelling a terminal job is a no-op.
func (s *Scheduler) Cancel(handle Handle) error {
	s.mu.Lock()
	j, ok := s.byID[string(handle)]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownJob
	}
	switch {
	case queue.IsTerminalStatus(j.state):
		s.mu.Unlock()
		return nil
	case j.state == queue.StatusQueued:
		j.cancelled = true
		s.mu.Unlock()
		s.finalize(j, queue.StatusFailed, KindCancelled, "cancelled while queued", render.Result{})
		return nil
	default:
		j.cancelled = true
		cancel := j.cancelRun
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return nil
	}
}

func (s *Scheduler) runJob(ctx context.Context, j *job) {
	s.mu.Lock()
	if j.cancelled {
		// Finalized by Cancel while still queued.
		s.mu.Unlock()
		return
	}
	j.state = queue.StatusRunning
	runCtx, cancel := context.WithCancel(ctx)
	j.cancelRun = cancel
	s.mu.Unlock()
	defer cancel()

	if err := s.store.MarkRunning(ctx, j.id); err != nil {
		s.logger.Warn("failed to persist running state", logging.String("job_id", j.id), logging.Error(err))
	}

	result, err := s.invoker.Run(runCtx, j.spec, j.font)

	s.mu.Lock()
	cancelled := j.cancelled
	s.mu.Unlock()

	switch {
	case err == nil:
		s.finalize(j, queue.StatusSucceeded, "", "", result)
	case cancelled || errors.Is(err, context.Canceled):
		_ = os.Remove(j.spec.OutputPath)
		s.finalize(j, queue.StatusFailed, KindCancelled, "cancelled while running", result)
	case errors.Is(err, render.ErrTimedOut):
		s.finalize(j, queue.StatusTimedOut, KindTimedOut, err.Error(), result)
	default:
		_ = os.Remove(j.spec.OutputPath)
		s.finalize(j, queue.StatusFailed, classify(err), err.Error(), result)
	}
}

// finalize records the terminal state and removes the job's normalized
// subtitle artifact. Runs for every job, whatever the outcome.
func (s *Scheduler) finalize(j *job, state queue.Status, kind Kind, message string, result render.Result) {
	s.mu.Lock()
	j.state = state
	j.kind = kind
	j.message = message
	j.stderrTail = result.StderrTail
	j.exitCode = result.ExitCode
	j.renderDur = result.Duration
	j.outputPath = result.OutputPath
	record := &queue.Job{
		ID:           j.id,
		Status:       state,
		ErrorKind:    string(kind),
		ErrorMessage: message,
		StderrTail:   result.StderrTail,
		ExitCode:     result.ExitCode,
		RenderMillis: result.Duration.Milliseconds(),
	}
	s.mu.Unlock()

	_ = os.Remove(j.normalizedPath)

	// Terminal writes use a fresh context so shutdown does not lose them.
	if err := s.store.MarkTerminal(context.Background(), record); err != nil {
		s.logger.Warn("failed to persist terminal state", logging.String("job_id", j.id), logging.Error(err))
	}

	attrs := []logging.Attr{
		logging.String("job_id", j.id),
		logging.String("state", string(state)),
	}
	if kind != "" {
		attrs = append(attrs, logging.String("kind", string(kind)))
	}
	if message != "" {
		attrs = append(attrs, logging.String("message", message))
	}
	if state == queue.StatusSucceeded {
		attrs = append(attrs, logging.String("output", result.OutputPath), logging.Duration("render_time", result.Duration))
		s.logger.Info("job succeeded", logging.Args(attrs...)...)
		return
	}
	s.logger.Warn("job finished without success", logging.Args(attrs...)...)
}

func sortViews(views []JobView) {
	sort.Slice(views, func(a, b int) bool {
		if views[a].CreatedAt.Equal(views[b].CreatedAt) {
			return views[a].ID < views[b].ID
		}
		return views[a].CreatedAt.Before(views[b].CreatedAt)
	})
}
