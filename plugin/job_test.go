package plugin

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbot/tailpipe-plugin-excel/events"
	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

func TestJob_Split(t *testing.T) {
	files := map[string]string{}
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		files[n+".csv"] = n + "\n"
	}
	dir := writeFiles(t, files)

	tests := []struct {
		name           string
		adviceNumber   int
		oneFilePerTask bool
		wantSizes      []int
	}{
		{name: "three units", adviceNumber: 3, wantSizes: []int{3, 3, 4}},
		{name: "one unit", adviceNumber: 1, wantSizes: []int{10}},
		{name: "more units than files", adviceNumber: 20, wantSizes: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{name: "one file per task ignores advice", adviceNumber: 2, oneFilePerTask: true, wantSizes: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newConfig(t, filepath.Join(dir, "*.csv"))
			c.OneFilePerTask = tt.oneFilePerTask
			c.Header = true

			job, err := NewJob(c)
			require.NoError(t, err)
			require.NoError(t, job.Init(context.Background()))

			taskConfigs, err := job.Split(tt.adviceNumber)
			require.NoError(t, err)

			var sizes []int
			var joined []string
			for _, tc := range taskConfigs {
				sizes = append(sizes, len(tc.SourceFiles))
				joined = append(joined, tc.SourceFiles...)
				assert.True(t, tc.Header)
			}
			assert.Equal(t, tt.wantSizes, sizes)
			assert.Equal(t, job.Files(), joined)
		})
	}
}

func TestJob_Errors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.csv": "a\n"})

	t.Run("nothing matches", func(t *testing.T) {
		job, err := NewJob(newConfig(t, filepath.Join(dir, "*.xlsx")))
		require.NoError(t, err)
		require.NoError(t, job.Init(context.Background()))

		_, err = job.Split(2)
		assert.True(t, reader_errors.IsCode(err, reader_errors.EmptyResultSet), "got %v", err)
	})

	t.Run("missing directory", func(t *testing.T) {
		job, err := NewJob(newConfig(t, filepath.Join(dir, "missing", "*.csv")))
		require.NoError(t, err)
		err = job.Init(context.Background())
		assert.True(t, reader_errors.IsCode(err, reader_errors.InvalidSourcePath), "got %v", err)
	})

	t.Run("split before init", func(t *testing.T) {
		job, err := NewJob(newConfig(t, dir))
		require.NoError(t, err)
		_, err = job.Split(1)
		assert.True(t, reader_errors.IsCode(err, reader_errors.InvalidConfig))
	})

	t.Run("advice below one", func(t *testing.T) {
		job, err := NewJob(newConfig(t, dir))
		require.NoError(t, err)
		require.NoError(t, job.Init(context.Background()))
		_, err = job.Split(0)
		assert.True(t, reader_errors.IsCode(err, reader_errors.InvalidConfig))
	})

	t.Run("no path", func(t *testing.T) {
		_, err := NewJob(newConfig(t))
		assert.True(t, reader_errors.IsCode(err, reader_errors.RequiredValue))
	})
}

func TestJob_SourceFilesSkipEnumeration(t *testing.T) {
	// the path spec points nowhere; the file list is used instead
	c := newConfig(t, "/does/not/exist/*.xlsx")
	c.SourceFiles = []string{"/x/b.xlsx", "/x/a.xlsx", "/x/b.xlsx"}

	job, err := NewJob(c)
	require.NoError(t, err)
	require.NoError(t, job.Init(context.Background()))
	assert.Equal(t, []string{"/x/b.xlsx", "/x/a.xlsx"}, job.Files())

	taskConfigs, err := job.Split(1)
	require.NoError(t, err)
	require.Len(t, taskConfigs, 1)
	assert.Equal(t, []string{"/x/b.xlsx", "/x/a.xlsx"}, taskConfigs[0].SourceFiles)
}

func TestJob_RelaysDiscoveryEvents(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.csv": "a\n", "b.csv": "b\n"})

	job, err := NewJob(newConfig(t, filepath.Join(dir, "*.csv"), filepath.Join(dir, "a.csv")))
	require.NoError(t, err)
	observer := &collectingObserver{}
	require.NoError(t, job.AddObserver(observer))
	require.NoError(t, job.Init(context.Background()))

	discovered := observer.count(func(e events.Event) bool {
		_, ok := e.(*events.ArtifactDiscovered)
		return ok
	})
	assert.Equal(t, 2, discovered)
}
