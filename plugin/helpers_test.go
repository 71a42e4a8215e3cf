package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbot/tailpipe-plugin-excel/config"
	"github.com/turbot/tailpipe-plugin-excel/events"
	"github.com/turbot/tailpipe-plugin-excel/types"
)

// collectingSender records everything sent to it
type collectingSender struct {
	mut     sync.Mutex
	rows    []types.Row
	headers [][]string
	// fail the send after this many rows, if > 0
	failAfter int
	panicOn   int
}

var errSinkFull = errors.New("sink full")

func (s *collectingSender) CreateRecord() Record {
	return NewRowRecord()
}

func (s *collectingSender) SendToWriter(_ context.Context, r Record) error {
	s.mut.Lock()
	defer s.mut.Unlock()
	if s.failAfter > 0 && len(s.rows) >= s.failAfter {
		return errSinkFull
	}
	if s.panicOn > 0 && len(s.rows)+1 == s.panicOn {
		panic("sender exploded")
	}
	s.rows = append(s.rows, r.Columns())
	return nil
}

func (s *collectingSender) SetColumns(columns []string) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.headers = append(s.headers, columns)
}

func (s *collectingSender) firstColumns() []string {
	s.mut.Lock()
	defer s.mut.Unlock()
	res := make([]string, len(s.rows))
	for i, r := range s.rows {
		res[i] = r[0].String
	}
	return res
}

// collectingObserver records every event
type collectingObserver struct {
	mut    sync.Mutex
	events []events.Event
}

func (o *collectingObserver) Notify(_ context.Context, e events.Event) error {
	o.mut.Lock()
	defer o.mut.Unlock()
	o.events = append(o.events, e)
	return nil
}

func (o *collectingObserver) errors() []*events.Error {
	o.mut.Lock()
	defer o.mut.Unlock()
	var res []*events.Error
	for _, e := range o.events {
		if ev, ok := e.(*events.Error); ok {
			res = append(res, ev)
		}
	}
	return res
}

func (o *collectingObserver) completed() *events.Completed {
	o.mut.Lock()
	defer o.mut.Unlock()
	for _, e := range o.events {
		if ev, ok := e.(*events.Completed); ok {
			return ev
		}
	}
	return nil
}

func (o *collectingObserver) count(match func(events.Event) bool) int {
	o.mut.Lock()
	defer o.mut.Unlock()
	n := 0
	for _, e := range o.events {
		if match(e) {
			n++
		}
	}
	return n
}

// writeFiles writes name -> content under a new temp dir and returns the dir
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func newConfig(t *testing.T, paths ...string) *config.ReaderConfig {
	t.Helper()
	c := &config.ReaderConfig{}
	c.SetPaths(paths...)
	require.NoError(t, c.Resolve())
	return c
}
