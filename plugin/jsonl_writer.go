package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/iancoleman/strcase"

	"github.com/turbot/tailpipe-plugin-excel/types"
)

// JSONLWriter implements [RecordSender] and writes each record as one JSON object per line.
// Keys follow the file header (in snake case) when there is one, and are column_<n> otherwise.
// Keys are written in column order.
type JSONLWriter struct {
	w io.Writer
	// closer is set when the writer owns its destination
	closer  io.Closer
	columns []string
	buf     bytes.Buffer
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: w}
}

// NewJSONLFileWriter creates <destPath>/<executionId>-<unitIndex>.jsonl and writes records to it
func NewJSONLFileWriter(destPath, executionId string, unitIndex int) (*JSONLWriter, error) {
	// generate the filename
	filename := filepath.Join(destPath, ExecutionIdToFileName(executionId, unitIndex))

	// Open the file for writing
	file, err := os.Create(filename)
	if err != nil {
		slog.Error("failed to create JSONL file", "error", err)
		return nil, fmt.Errorf("failed to create JSONL file %s: %w", filename, err)
	}
	slog.Debug("writing JSONL file", "file", filename)
	return &JSONLWriter{w: file, closer: file}, nil
}

// SetColumns implements [ColumnAwareSender]
func (j *JSONLWriter) SetColumns(columns []string) {
	j.columns = ColumnKeys(columns)
}

func (j *JSONLWriter) CreateRecord() Record {
	return NewRowRecord()
}

func (j *JSONLWriter) SendToWriter(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.buf.Reset()
	if err := j.encode(r.Columns()); err != nil {
		slog.Error("failed to encode row", "error", err)
		return fmt.Errorf("failed to encode row: %w", err)
	}
	// a single write per line so lines from writers sharing a SyncWriter never interleave
	if _, err := j.w.Write(j.buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

func (j *JSONLWriter) Close() error {
	if j.closer == nil {
		return nil
	}
	return j.closer.Close()
}

func (j *JSONLWriter) encode(row types.Row) error {
	j.buf.WriteByte('{')
	for i, col := range row {
		if i > 0 {
			j.buf.WriteByte(',')
		}
		key, err := json.Marshal(j.key(i))
		if err != nil {
			return err
		}
		j.buf.Write(key)
		j.buf.WriteByte(':')

		value, err := json.Marshal(jsonValue(col))
		if err != nil {
			return err
		}
		j.buf.Write(value)
	}
	j.buf.WriteString("}\n")
	return nil
}

func (j *JSONLWriter) key(i int) string {
	if i < len(j.columns) {
		return j.columns[i]
	}
	return defaultColumnKey(i)
}

func jsonValue(c types.Column) any {
	if c.Kind == types.KindDate {
		return c.Date.Format(time.RFC3339)
	}
	return c.Value()
}

func defaultColumnKey(i int) string {
	return "column_" + strconv.Itoa(i+1)
}

// ColumnKeys converts header texts into unique snake case keys.
// Blank headers fall back to column_<n>; repeated keys get a numeric suffix.
func ColumnKeys(header []string) []string {
	if header == nil {
		return nil
	}
	keys := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		key := strcase.ToSnake(h)
		if key == "" {
			key = defaultColumnKey(i)
		}
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s_%d", key, n)
		}
		keys[i] = key
	}
	return keys
}

// SyncWriter serialises writes from several senders onto one writer
type SyncWriter struct {
	mut sync.Mutex
	w   io.Writer
}

func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.w.Write(p)
}
