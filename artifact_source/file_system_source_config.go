package artifact_source

import (
	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

type FileSystemSourceConfig struct {
	Paths      []string
	Extensions []string
}

func (f *FileSystemSourceConfig) Validate() error {
	if len(f.Paths) == 0 {
		return reader_errors.New(reader_errors.RequiredValue, "", "'path' must be specified")
	}
	for _, p := range f.Paths {
		if p == "" {
			return reader_errors.New(reader_errors.RequiredValue, "", "'path' entries must not be empty")
		}
	}
	return nil
}
