package rate_limiter

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

// TaskLimiter bounds how many tasks run at once and how quickly they open files.
// A nil or zero limit in either dimension means unlimited.
type TaskLimiter struct {
	Name string

	// underlying file open rate limiter
	limiter *rate.Limiter
	// semaphore to control task concurrency
	sem            *semaphore.Weighted
	maxConcurrency int64
}

func NewTaskLimiter(l *Definition) (*TaskLimiter, error) {
	if validationErrors := l.Validate(); len(validationErrors) > 0 {
		return nil, reader_errors.New(reader_errors.InvalidConfig, "", "invalid rate limiter %q: %s", l.Name, strings.Join(validationErrors, "; "))
	}
	res := &TaskLimiter{
		Name:           l.Name,
		maxConcurrency: l.MaxConcurrency,
	}
	if l.FillRate > 0 {
		res.limiter = rate.NewLimiter(l.FillRate, int(l.BucketSize))
	}
	if l.MaxConcurrency > 0 {
		res.sem = semaphore.NewWeighted(l.MaxConcurrency)
	}
	return res, nil
}

func (l *TaskLimiter) String() string {
	limiterString := ""
	concurrencyString := ""
	if l.limiter != nil {
		limiterString = fmt.Sprintf("Limit(/s): %v, Burst: %d", l.limiter.Limit(), l.limiter.Burst())
	}
	if l.maxConcurrency > 0 {
		concurrencyString = fmt.Sprintf("MaxConcurrency: %d", l.maxConcurrency)
	}
	return strings.TrimSpace(strings.Join([]string{limiterString, concurrencyString}, " "))
}

// AcquireTask blocks until a task slot is free. Each successful call must be paired with ReleaseTask.
func (l *TaskLimiter) AcquireTask(ctx context.Context) error {
	if l.sem == nil {
		return ctx.Err()
	}
	return l.sem.Acquire(ctx, 1)
}

func (l *TaskLimiter) ReleaseTask() {
	if l.sem == nil {
		return
	}
	l.sem.Release(1)
}

// WaitFile blocks until the file open rate allows another file to be opened.
func (l *TaskLimiter) WaitFile(ctx context.Context) error {
	if l.limiter == nil {
		return ctx.Err()
	}
	return l.limiter.Wait(ctx)
}
