package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/projectmatch/internal/observability/metrics"
)

// Task is one unit of periodic housekeeping
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// CleanupWorker runs housekeeping tasks on a fixed interval: evicting expired
// cached identities and publishing connection pool stats.
type CleanupWorker struct {
	tasks    []Task
	logger   *slog.Logger
	interval time.Duration
}

// NewCleanupWorker creates a new cleanup worker
func NewCleanupWorker(logger *slog.Logger, interval time.Duration, tasks ...Task) *CleanupWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupWorker{
		tasks:    tasks,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the worker loop and blocks until ctx is cancelled
func (w *CleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("cleanup worker started",
		slog.Duration("interval", w.interval),
		slog.Int("tasks", len(w.tasks)),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executes every task once. A failing or panicking task does not stop the rest.
func (w *CleanupWorker) RunOnce(ctx context.Context) {
	for _, task := range w.tasks {
		err := w.run(ctx, task)
		metrics.ObserveWorkerRun(task.Name, err)
		if err != nil {
			w.logger.Error("cleanup task failed",
				slog.String("task", task.Name),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (w *CleanupWorker) run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task.Run(ctx)
}
