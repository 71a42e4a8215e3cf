package plugin

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbot/tailpipe-plugin-excel/context_values"
	"github.com/turbot/tailpipe-plugin-excel/events"
	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

// sendersByUnit hands out one collectingSender per work unit
type sendersByUnit struct {
	mut     sync.Mutex
	senders map[int]*collectingSender
	newFunc func() *collectingSender
}

func newSendersByUnit(newFunc func() *collectingSender) *sendersByUnit {
	return &sendersByUnit{senders: make(map[int]*collectingSender), newFunc: newFunc}
}

func (s *sendersByUnit) factory(unitIndex int) (RecordSender, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	sender := s.newFunc()
	s.senders[unitIndex] = sender
	return sender, nil
}

func (s *sendersByUnit) allFirstColumns() []string {
	s.mut.Lock()
	defer s.mut.Unlock()
	var res []string
	for _, sender := range s.senders {
		res = append(res, sender.firstColumns()...)
	}
	sort.Strings(res)
	return res
}

func TestRun(t *testing.T) {
	files := map[string]string{}
	var want []string
	for i := 0; i < 8; i++ {
		v := fmt.Sprintf("v%d", i)
		files[fmt.Sprintf("f%d.csv", i)] = "header\n" + v + "\n"
		want = append(want, v)
	}
	dir := writeFiles(t, files)

	c := newConfig(t, filepath.Join(dir, "*.csv"))
	c.Header = true
	c.MaxConcurrency = 2
	job, err := NewJob(c)
	require.NoError(t, err)
	observer := &collectingObserver{}
	require.NoError(t, job.AddObserver(observer))

	senders := newSendersByUnit(func() *collectingSender { return &collectingSender{} })
	ctx := context_values.WithExecutionId(context.Background(), "exec-run")
	res, err := Run(ctx, job, 3, senders.factory)
	require.NoError(t, err)

	assert.Equal(t, 8, res.RowCount)
	assert.Equal(t, 8, res.FileCount)
	assert.Equal(t, want, senders.allFirstColumns())
	// 8 files in units of 8/3 = 2
	assert.Len(t, senders.senders, 4)

	started := observer.count(func(e events.Event) bool {
		s, ok := e.(*events.Started)
		return ok && s.FileCount == 8 && s.ExecutionId == "exec-run"
	})
	assert.Equal(t, 1, started)

	completed := observer.completed()
	require.NotNil(t, completed)
	assert.NoError(t, completed.Err)
	assert.Equal(t, 8, completed.RowCount)
	assert.Equal(t, "exec-run", completed.ExecutionId)
}

func TestRun_FileFailureDoesNotAffectSiblings(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.csv":  "a\n",
		"b.xlsx": "not really a workbook",
		"c.csv":  "c\n",
		"d.csv":  "d\n",
	})

	job, err := NewJob(newConfig(t, dir))
	require.NoError(t, err)
	observer := &collectingObserver{}
	require.NoError(t, job.AddObserver(observer))

	senders := newSendersByUnit(func() *collectingSender { return &collectingSender{} })
	res, err := Run(context.Background(), job, 4, senders.factory)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c", "d"}, senders.allFirstColumns())
	assert.Equal(t, []string{filepath.Join(dir, "b.xlsx")}, res.FailedFiles)

	errs := observer.errors()
	require.Len(t, errs, 1)
	assert.Equal(t, reader_errors.SourceOpenError, errs[0].Code)
	// an execution id is generated when the context has none
	assert.NotEmpty(t, errs[0].ExecutionId)
}

func TestRun_EnumerationFailureStartsNoTasks(t *testing.T) {
	job, err := NewJob(newConfig(t, filepath.Join(t.TempDir(), "missing", "*.xlsx")))
	require.NoError(t, err)
	observer := &collectingObserver{}
	require.NoError(t, job.AddObserver(observer))

	senders := newSendersByUnit(func() *collectingSender { return &collectingSender{} })
	_, err = Run(context.Background(), job, 2, senders.factory)
	assert.True(t, reader_errors.IsCode(err, reader_errors.InvalidSourcePath), "got %v", err)
	assert.Empty(t, senders.senders)

	completed := observer.completed()
	require.NotNil(t, completed)
	assert.True(t, reader_errors.IsCode(completed.Err, reader_errors.InvalidSourcePath))
}

func TestRun_EmptyResultSet(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "a\n"})
	job, err := NewJob(newConfig(t, filepath.Join(dir, "*.xlsx")))
	require.NoError(t, err)

	_, err = Run(context.Background(), job, 2, func(int) (RecordSender, error) { return &collectingSender{}, nil })
	assert.True(t, reader_errors.IsCode(err, reader_errors.EmptyResultSet), "got %v", err)
}

func TestRun_SenderFailure(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.csv": "1\n2\n", "b.csv": "3\n"})
	job, err := NewJob(newConfig(t, dir))
	require.NoError(t, err)

	senders := newSendersByUnit(func() *collectingSender { return &collectingSender{failAfter: 1} })
	_, err = Run(context.Background(), job, 1, senders.factory)
	assert.ErrorIs(t, err, errSinkFull)
}

func TestRun_PanicIsRecovered(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.csv": "1\n"})
	job, err := NewJob(newConfig(t, dir))
	require.NoError(t, err)

	senders := newSendersByUnit(func() *collectingSender { return &collectingSender{panicOn: 1} })
	_, err = Run(context.Background(), job, 1, senders.factory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender exploded")
}
