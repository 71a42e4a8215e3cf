package artifact_loader

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
	"github.com/turbot/tailpipe-plugin-excel/types"
)

const (
	CsvLoaderIdentifier     = "csv_loader"
	GzipCsvLoaderIdentifier = "gzip_csv_loader"
)

// CsvLoader reads comma separated files. Every field becomes a String column.
type CsvLoader struct{}

func NewCsvLoader() Loader {
	return &CsvLoader{}
}

func (l *CsvLoader) Identifier() string {
	return CsvLoaderIdentifier
}

func (l *CsvLoader) Extensions() []string {
	return []string{".csv"}
}

func (l *CsvLoader) Open(ctx context.Context, path string, opts ReadOptions) (Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, reader_errors.Wrap(reader_errors.SourceOpenError, path, err, "error opening %s", path)
	}
	return newCsvCursor(path, f, opts, f)
}

// GzipCsvLoader reads gzip compressed comma separated files
type GzipCsvLoader struct{}

func NewGzipCsvLoader() Loader {
	return &GzipCsvLoader{}
}

func (l *GzipCsvLoader) Identifier() string {
	return GzipCsvLoaderIdentifier
}

func (l *GzipCsvLoader) Extensions() []string {
	return []string{".csv.gz"}
}

func (l *GzipCsvLoader) Open(ctx context.Context, path string, opts ReadOptions) (Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gzFile, err := os.Open(path)
	if err != nil {
		return nil, reader_errors.Wrap(reader_errors.SourceOpenError, path, err, "error opening %s", path)
	}
	gzReader, err := gzip.NewReader(gzFile)
	if err != nil {
		_ = gzFile.Close()
		return nil, reader_errors.Wrap(reader_errors.SourceOpenError, path, err, "error creating gzip reader for %s", path)
	}
	// close the decompressor before the file beneath it
	return newCsvCursor(path, gzReader, opts, gzReader, gzFile)
}

type csvCursor struct {
	path    string
	reader  *csv.Reader
	closers []io.Closer
	header  []string
	line    int
}

func newCsvCursor(path string, r io.Reader, opts ReadOptions, closers ...io.Closer) (Cursor, error) {
	reader := csv.NewReader(r)
	// rows may be ragged and stray quotes are kept as data
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	c := &csvCursor{path: path, reader: reader, closers: closers}
	if err := c.skipLeading(opts); err != nil {
		c.Close()
		return nil, err
	}
	slog.Debug("Opened csv file", "path", path, "header", opts.Header, "skip_rows", opts.SkipRows)
	return c, nil
}

func (c *csvCursor) skipLeading(opts ReadOptions) error {
	if opts.Header {
		record, err := c.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		c.header = make([]string, len(record))
		for i, v := range record {
			c.header[i] = strings.TrimSpace(v)
		}
	}
	for i := 0; i < opts.SkipRows; i++ {
		if _, err := c.next(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (c *csvCursor) next() ([]string, error) {
	record, err := c.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, reader_errors.Wrap(reader_errors.SourceOpenError, c.path, err, "error reading line %d of [%s]", c.line+1, c.path)
	}
	c.line, _ = c.reader.FieldPos(0)
	return record, nil
}

func (c *csvCursor) ReadRow() (types.Row, error) {
	record, err := c.next()
	if err != nil {
		return nil, err
	}
	cells := make([]Cell, len(record))
	for i, v := range record {
		if v == "" {
			cells[i] = BlankCell()
			continue
		}
		cells[i] = StringCell(v)
	}
	return ClassifyRow(cells), nil
}

func (c *csvCursor) Header() []string {
	return c.header
}

func (c *csvCursor) Close() {
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			slog.Debug("Error closing file", "path", c.path, "error", err)
		}
	}
}
