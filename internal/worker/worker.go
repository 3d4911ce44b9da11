package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/cesargomez89/lyricbot/internal/logger"
)

// Purger removes expired session and cache rows.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Worker periodically purges expired rows. Reads already ignore expired
// entries, so the worker only bounds table growth.
type Worker struct {
	Repo     Purger
	Logger   *logger.Logger
	cron     *cron.Cron
	cancel   context.CancelFunc
	Schedule string
	mu       sync.Mutex
}

func NewWorker(repo Purger, schedule string, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.Default()
	}
	return &Worker{
		Repo:     repo,
		Schedule: schedule,
		Logger:   log.WithComponent("worker"),
	}
}

func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return nil
	}

	w.Logger.Info("Starting worker", "schedule", w.Schedule)

	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New()
	if _, err := c.AddFunc(w.Schedule, func() {
		_, _ = w.RunOnce(ctx)
	}); err != nil {
		cancel()
		return fmt.Errorf("invalid purge schedule %q: %w", w.Schedule, err)
	}

	w.cancel, w.cron = cancel, c
	c.Start()
	return nil
}

// Stop waits for a running purge to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron == nil {
		return
	}

	w.Logger.Info("Stopping worker...")
	<-w.cron.Stop().Done()
	w.cancel()
	w.cron = nil
}

// RunOnce performs a single purge pass.
func (w *Worker) RunOnce(ctx context.Context) (int64, error) {
	n, err := w.Repo.PurgeExpired(ctx)
	if err != nil {
		w.Logger.Error("Failed to purge expired rows", "error", err)
		return n, err
	}
	if n > 0 {
		w.Logger.Info("Purged expired rows", "count", n)
	} else {
		w.Logger.Debug("Nothing to purge")
	}
	return n, nil
}
