package plugin

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/turbot/tailpipe-plugin-excel/artifact_loader"
	"github.com/turbot/tailpipe-plugin-excel/config"
	"github.com/turbot/tailpipe-plugin-excel/context_values"
	"github.com/turbot/tailpipe-plugin-excel/events"
	"github.com/turbot/tailpipe-plugin-excel/observable"
	"github.com/turbot/tailpipe-plugin-excel/rate_limiter"
	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

// TaskResult summarises one task's reading
type TaskResult struct {
	RowCount  int
	FileCount int
	// files which failed to open or read
	FailedFiles []string
}

func (r *TaskResult) merge(other TaskResult) {
	r.RowCount += other.RowCount
	r.FileCount += other.FileCount
	r.FailedFiles = append(r.FailedFiles, other.FailedFiles...)
}

// Task reads the files of one work unit, in order, and sends every row.
type Task struct {
	observable.Base

	Index   int
	config  *config.ReaderConfig
	loaders *artifact_loader.ArtifactLoaderFactory
	// optional file open rate limit
	limiter *rate_limiter.TaskLimiter
}

type TaskOption func(*Task)

func WithLimiter(l *rate_limiter.TaskLimiter) TaskOption {
	return func(t *Task) {
		t.limiter = l
	}
}

func WithLoaders(f *artifact_loader.ArtifactLoaderFactory) TaskOption {
	return func(t *Task) {
		t.loaders = f
	}
}

func NewTask(index int, c *config.ReaderConfig, opts ...TaskOption) *Task {
	t := &Task{
		Index:   index,
		config:  c,
		loaders: &artifact_loader.Factory,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartRead reads every file of the task. A file which cannot be opened or read is reported
// to observers and skipped. An error is returned if the sender fails, ctx is cancelled or a
// file fails with an error code which is fatal for the whole job.
func (t *Task) StartRead(ctx context.Context, sender RecordSender) (TaskResult, error) {
	var res TaskResult
	readOpts := artifact_loader.ReadOptions{Header: t.config.Header, SkipRows: t.config.SkipRows}

	for _, path := range t.config.SourceFiles {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if t.limiter != nil {
			if err := t.limiter.WaitFile(ctx); err != nil {
				return res, err
			}
		}

		slog.Info("Reading file", "task", t.Index, "path", path)
		rows, err := t.readFile(ctx, path, readOpts, sender)
		res.RowCount += rows
		if err != nil {
			var sendErr senderError
			if errors.As(err, &sendErr) || ctx.Err() != nil {
				return res, err
			}
			if code, ok := reader_errors.CodeOf(err); ok && code.Fatal() {
				t.reportFileError(ctx, path, err)
				return res, err
			}
			res.FailedFiles = append(res.FailedFiles, path)
			t.reportFileError(ctx, path, err)
			continue
		}
		res.FileCount++
		if err := t.NotifyObservers(ctx, events.NewFileCompletedEvent(t.executionId(ctx), path, rows)); err != nil {
			slog.Warn("Error notifying observers", "error", err)
		}
	}
	slog.Info("Task finished", "task", t.Index, "rows", res.RowCount, "files", res.FileCount, "failed", len(res.FailedFiles))
	return res, nil
}

// senderError marks failures of the sink, which end the task rather than the file
type senderError struct {
	err error
}

func (e senderError) Error() string {
	return e.err.Error()
}

func (e senderError) Unwrap() error {
	return e.err
}

func (t *Task) readFile(ctx context.Context, path string, opts artifact_loader.ReadOptions, sender RecordSender) (int, error) {
	loader, err := t.loaders.GetLoader(path)
	if err != nil {
		return 0, err
	}
	cursor, err := loader.Open(ctx, path, opts)
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	if columnAware, ok := sender.(ColumnAwareSender); ok {
		columnAware.SetColumns(cursor.Header())
	}

	rowCount := 0
	for {
		row, err := cursor.ReadRow()
		if errors.Is(err, io.EOF) {
			return rowCount, nil
		}
		if err != nil {
			return rowCount, err
		}

		rec := sender.CreateRecord()
		for _, col := range row {
			rec.AddColumn(col)
		}
		if err := sender.SendToWriter(ctx, rec); err != nil {
			return rowCount, senderError{err: err}
		}
		rowCount++
	}
}

func (t *Task) reportFileError(ctx context.Context, path string, err error) {
	slog.Error("Failed to read file", "task", t.Index, "path", path, "error", err)
	if notifyErr := t.NotifyObservers(ctx, events.NewErrorEvent(t.executionId(ctx), err)); notifyErr != nil {
		slog.Warn("Error notifying observers", "error", notifyErr)
	}
}

func (t *Task) executionId(ctx context.Context) string {
	executionId, _ := context_values.ExecutionIdFromContext(ctx)
	return executionId
}
