package plugin

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/turbot/go-kit/helpers"
	"golang.org/x/sync/errgroup"

	"github.com/turbot/tailpipe-plugin-excel/context_values"
	"github.com/turbot/tailpipe-plugin-excel/events"
	"github.com/turbot/tailpipe-plugin-excel/observable"
	"github.com/turbot/tailpipe-plugin-excel/rate_limiter"
)

// Run executes a whole job: it enumerates the files, splits them into adviceNumber work
// units and reads the units in parallel, each with its own sender.
// Enumeration failures abort before any task starts. A file which fails to open is
// reported and skipped without affecting other units. Only a sender failure (or a panic)
// cancels the remaining tasks.
func Run(ctx context.Context, job *Job, adviceNumber int, newSender SenderFactory) (TaskResult, error) {
	ctx, executionId := context_values.EnsureExecutionId(ctx)

	res, err := run(ctx, job, adviceNumber, newSender)

	if notifyErr := job.NotifyObservers(ctx, events.NewCompletedEvent(executionId, res.RowCount, res.FileCount, res.FailedFiles, err)); notifyErr != nil {
		slog.Warn("Error notifying observers", "error", notifyErr)
	}
	return res, err
}

func run(ctx context.Context, job *Job, adviceNumber int, newSender SenderFactory) (TaskResult, error) {
	var res TaskResult
	executionId, _ := context_values.ExecutionIdFromContext(ctx)

	if err := job.Init(ctx); err != nil {
		return res, err
	}
	taskConfigs, err := job.Split(adviceNumber)
	if err != nil {
		slog.Error("Split failed", "error", err)
		return res, err
	}
	if err := job.NotifyObservers(ctx, events.NewStartedEvent(executionId, len(job.Files()))); err != nil {
		slog.Warn("Error notifying observers", "error", err)
	}

	limiter, err := rate_limiter.NewTaskLimiter(rate_limiter.NewDefinition("tasks", job.config.MaxConcurrency, job.config.FilesPerSecond))
	if err != nil {
		return res, err
	}
	slog.Info("Starting tasks", "tasks", len(taskConfigs), "limiter", limiter.String())

	// relay task events to the job's observers
	relay := observable.ObserverFunc(job.NotifyObservers)

	var resultLock sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, taskConfig := range taskConfigs {
		if err := limiter.AcquireTask(gctx); err != nil {
			break
		}
		task := NewTask(i, taskConfig, WithLimiter(limiter))
		if err := task.AddObserver(relay); err != nil {
			limiter.ReleaseTask()
			return res, err
		}

		g.Go(func() (err error) {
			defer limiter.ReleaseTask()
			defer func() {
				if r := recover(); r != nil {
					err = helpers.ToError(r)
					slog.Error("Task panicked", "task", task.Index, "error", err)
				}
			}()

			sender, err := newSender(task.Index)
			if err != nil {
				return err
			}
			if closer, ok := sender.(io.Closer); ok {
				defer func() {
					if closeErr := closer.Close(); closeErr != nil && err == nil {
						err = closeErr
					}
				}()
			}

			taskRes, err := task.StartRead(gctx, sender)
			resultLock.Lock()
			res.merge(taskRes)
			resultLock.Unlock()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, ctx.Err()
}
