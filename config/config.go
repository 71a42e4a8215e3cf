// Package config holds the HCL configuration of a read job and of the tasks it is split into.
//
// Example:
//
//	path             = ["/data/*.xlsx", "~/extra/book.xlsx"]
//	header           = true
//	skip_rows        = 2
//	max_concurrency  = 4
//
// For compatibility, path may also be a single string, or a string holding a JSON array.
package config

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/zclconf/go-cty/cty"

	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

type ReaderConfig struct {
	// string, list of strings, or JSON array string
	Path       cty.Value `hcl:"path,optional"`
	Header     bool      `hcl:"header,optional"`
	SkipRows   int       `hcl:"skip_rows,optional"`
	Extensions []string  `hcl:"extensions,optional"`
	// SourceFiles, when set, is the file list of a single pre-split task and replaces enumeration
	SourceFiles    []string `hcl:"source_files,optional"`
	MaxConcurrency int      `hcl:"max_concurrency,optional"`
	FilesPerSecond float64  `hcl:"files_per_second,optional"`
	OneFilePerTask bool     `hcl:"one_file_per_task,optional"`

	// resolved absolute path specs
	paths []string
}

// Paths returns the resolved path specs. Resolve must have been called.
func (c *ReaderConfig) Paths() []string {
	return c.paths
}

// SetPaths sets the path specs directly, bypassing HCL decoding.
func (c *ReaderConfig) SetPaths(paths ...string) {
	if len(paths) == 0 {
		c.Path = cty.ListValEmpty(cty.String)
		return
	}
	c.Path = cty.ListVal(stringVals(paths))
}

// Resolve decodes the path attribute and expands every spec to an absolute path.
func (c *ReaderConfig) Resolve() error {
	raw, err := decodePath(c.Path)
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		expanded, err := ExpandPath(p)
		if err != nil {
			return err
		}
		paths = append(paths, expanded)
	}
	c.paths = paths

	for i, f := range c.SourceFiles {
		expanded, err := ExpandPath(f)
		if err != nil {
			return err
		}
		c.SourceFiles[i] = expanded
	}
	return nil
}

func (c *ReaderConfig) Validate() error {
	if len(c.paths) == 0 && len(c.SourceFiles) == 0 {
		return reader_errors.New(reader_errors.RequiredValue, "", "'path' must be specified")
	}
	if c.SkipRows < 0 {
		return reader_errors.New(reader_errors.InvalidConfig, "", "'skip_rows' must not be negative, got %d", c.SkipRows)
	}
	if c.MaxConcurrency < 0 {
		return reader_errors.New(reader_errors.InvalidConfig, "", "'max_concurrency' must not be negative, got %d", c.MaxConcurrency)
	}
	if c.FilesPerSecond < 0 {
		return reader_errors.New(reader_errors.InvalidConfig, "", "'files_per_second' must not be negative, got %v", c.FilesPerSecond)
	}
	return nil
}

// ForTask returns a copy of the config which reads exactly the given files.
func (c *ReaderConfig) ForTask(files []string) *ReaderConfig {
	res := *c
	res.SourceFiles = append([]string(nil), files...)
	res.Extensions = append([]string(nil), c.Extensions...)
	res.paths = append([]string(nil), c.paths...)
	return &res
}

// ExpandPath expands a leading ~ and makes the path absolute.
func ExpandPath(p string) (string, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(p))
	if err != nil {
		return "", reader_errors.Wrap(reader_errors.InvalidConfig, p, err, "cannot expand path [%s]", p)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", reader_errors.Wrap(reader_errors.InvalidConfig, p, err, "cannot resolve path [%s]", p)
	}
	return abs, nil
}

func decodePath(v cty.Value) ([]string, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, reader_errors.New(reader_errors.InvalidConfig, "", "'path' must be a known value")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return decodePathString(v.AsString())
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		res := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.IsNull() || !elem.IsKnown() || elem.Type() != cty.String {
				return nil, reader_errors.New(reader_errors.InvalidConfig, "", "'path' entries must be strings")
			}
			if s := elem.AsString(); strings.TrimSpace(s) != "" {
				res = append(res, s)
			}
		}
		return res, nil
	default:
		return nil, reader_errors.New(reader_errors.InvalidConfig, "", "'path' must be a string or a list of strings, got %s", ty.FriendlyName())
	}
}

// decodePathString handles the single path form and the legacy JSON array form
func decodePathString(s string) ([]string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, nil
	}
	if !strings.HasPrefix(trimmed, "[") {
		return []string{trimmed}, nil
	}
	var entries []string
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return nil, reader_errors.Wrap(reader_errors.InvalidConfig, "", err, "'path' is not a valid JSON array of strings")
	}
	res := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e) != "" {
			res = append(res, e)
		}
	}
	return res, nil
}

func stringVals(s []string) []cty.Value {
	res := make([]cty.Value, len(s))
	for i, v := range s {
		res[i] = cty.StringVal(v)
	}
	return res
}
