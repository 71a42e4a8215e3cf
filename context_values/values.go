package context_values

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type contextKey string

var (
	contextKeyExecutionId = contextKey("execution_id")
)

// NewExecutionId returns a fresh id for a job run
func NewExecutionId() string {
	return uuid.NewString()
}

// WithExecutionId adds the execution id to the context
func WithExecutionId(ctx context.Context, executionId string) context.Context {
	return context.WithValue(ctx, contextKeyExecutionId, executionId)
}

// ExecutionIdFromContext returns the execution id from the context
func ExecutionIdFromContext(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context is nil")
	}
	val, ok := ctx.Value(contextKeyExecutionId).(string)
	if !ok {
		return "", fmt.Errorf("no execution id in context")
	}
	return val, nil
}

// EnsureExecutionId returns ctx unchanged if it already carries an execution id,
// otherwise a child context with a new one
func EnsureExecutionId(ctx context.Context) (context.Context, string) {
	if id, err := ExecutionIdFromContext(ctx); err == nil {
		return ctx, id
	}
	id := NewExecutionId()
	return WithExecutionId(ctx, id), id
}
