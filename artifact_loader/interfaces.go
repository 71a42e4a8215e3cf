package artifact_loader

import (
	"context"

	"github.com/turbot/tailpipe-plugin-excel/types"
)

// Loader opens files of the formats it supports and returns a cursor over their rows.
// Loaders provided: [ExcelLoader], [CsvLoader], [GzipCsvLoader]
type Loader interface {
	Identifier() string
	// Extensions returns the (lower case) file suffixes the loader handles
	Extensions() []string
	// Open acquires the file and positions the cursor past the header and skipped rows.
	// Any failure is a SourceOpenError.
	Open(ctx context.Context, path string, opts ReadOptions) (Cursor, error)
}

// Cursor iterates the rows of one open file. A cursor is owned by a single task.
type Cursor interface {
	// ReadRow returns the next row, or io.EOF once the rows are exhausted
	ReadRow() (types.Row, error)
	// Header returns the text of the header row, if one was consumed
	Header() []string
	// Close releases the file. It never fails.
	Close()
}

// ReadOptions controls how the leading rows of a file are consumed.
type ReadOptions struct {
	// Header consumes the first row as a header
	Header bool
	// SkipRows is the number of rows to discard after the header
	SkipRows int
}
