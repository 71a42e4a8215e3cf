package artifact_source

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/turbot/tailpipe-plugin-excel/glob"
	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
	"github.com/turbot/tailpipe-plugin-excel/types"
)

// fileSystem is the subset of os used by the walker; tests substitute it
// to simulate permission failures.
type fileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	// CheckReadable returns an error if the directory cannot be listed
	CheckReadable(name string) error
}

type osFileSystem struct{}

func (osFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (osFileSystem) CheckReadable(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	return f.Close()
}

// directoryWalker expands a single path spec into files. One walker serves one spec.
type directoryWalker struct {
	fs         fileSystem
	pattern    *glob.Pattern
	extensions types.ExtensionLookup
	// called for every file newly added to the accumulator
	onAdded func(path string) error
}

// walk enumerates the files reachable from root, adding every matching
// regular file to acc. Listing failures abort the walk.
func (w *directoryWalker) walk(ctx context.Context, root string, acc *CandidateSet) error {
	return w.rove(ctx, root, 0, nil, acc)
}

func (w *directoryWalker) rove(ctx context.Context, path string, depth int, ancestors []fs.FileInfo, acc *CandidateSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Stat follows symlinks, so linked directories are walked like real ones
	info, err := w.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		// a dangling symlink, or an entry removed since its directory was listed
		slog.Warn("Skipping entry which no longer resolves", "path", path, "error", err)
		return nil
	}
	if err != nil {
		slog.Error("Cannot resolve directory entry", "path", path, "error", err)
		return reader_errors.Wrap(reader_errors.DirectoryUnreadable, path, err, "cannot resolve [%s]", path)
	}

	if !info.IsDir() {
		return w.visitFile(path, info, acc)
	}

	for _, a := range ancestors {
		if os.SameFile(a, info) {
			slog.Warn("Skipping directory which links back to one of its ancestors", "path", path, "spec", w.pattern.String())
			return nil
		}
	}

	// a wildcard spec never selects anything deeper than its own segment count
	if w.pattern.IsWildcard() && depth >= w.pattern.MaxDepth() {
		return nil
	}

	entries, err := w.fs.ReadDir(path)
	if err != nil {
		slog.Error("Permission denied for reading directory", "path", path, "error", err)
		return reader_errors.Wrap(reader_errors.DirectoryUnreadable, path, err, "permission denied for reading directory [%s]", path)
	}

	ancestors = append(ancestors, info)
	for _, entry := range entries {
		if err := w.rove(ctx, filepath.Join(path, entry.Name()), depth+1, ancestors, acc); err != nil {
			return err
		}
	}
	return nil
}

func (w *directoryWalker) visitFile(path string, info fs.FileInfo, acc *CandidateSet) error {
	if !info.Mode().IsRegular() {
		slog.Debug("Skipping non regular file", "path", path, "mode", info.Mode().String())
		return nil
	}
	if w.pattern.IsWildcard() && !w.pattern.Match(path) {
		return nil
	}
	if !w.extensions.IsValid(path) {
		return nil
	}
	if acc.Add(path) {
		slog.Info("Adding the file as a candidate to be read", "path", path)
		if w.onAdded != nil {
			return w.onAdded(path)
		}
	}
	return nil
}
