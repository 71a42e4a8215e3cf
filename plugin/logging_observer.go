package plugin

import (
	"context"
	"log/slog"

	"github.com/turbot/tailpipe-plugin-excel/events"
)

// LoggingObserver writes job events to the default logger
type LoggingObserver struct{}

func (LoggingObserver) Notify(_ context.Context, e events.Event) error {
	switch ev := e.(type) {
	case *events.Started:
		slog.Info("Job started", "execution_id", ev.ExecutionId, "files", ev.FileCount)
	case *events.ArtifactDiscovered:
		slog.Debug("Artifact discovered", "execution_id", ev.ExecutionId, "path", ev.Path, "spec", ev.Spec)
	case *events.FileCompleted:
		slog.Info("File completed", "execution_id", ev.ExecutionId, "path", ev.Path, "rows", ev.RowCount)
	case *events.Error:
		slog.Error("File failed", "execution_id", ev.ExecutionId, "code", ev.Code, "path", ev.Path, "detail", ev.Detail())
	case *events.Completed:
		if ev.Err != nil {
			slog.Error("Job failed", "execution_id", ev.ExecutionId, "rows", ev.RowCount, "files", ev.FileCount, "failed_files", len(ev.FailedFiles), "error", ev.Err)
			return nil
		}
		slog.Info("Job completed", "execution_id", ev.ExecutionId, "rows", ev.RowCount, "files", ev.FileCount, "failed_files", len(ev.FailedFiles))
	}
	return nil
}
