package artifact_source

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/turbot/tailpipe-plugin-excel/context_values"
	"github.com/turbot/tailpipe-plugin-excel/events"
	"github.com/turbot/tailpipe-plugin-excel/glob"
	"github.com/turbot/tailpipe-plugin-excel/observable"
	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
	"github.com/turbot/tailpipe-plugin-excel/types"
)

const (
	FileSystemSourceIdentifier = "file_system"
)

// FileSystemSource expands the configured path specs into the set of files a job will read.
type FileSystemSource struct {
	observable.Base

	Paths      []string
	Extensions types.ExtensionLookup

	fs fileSystem
}

func NewFileSystemSource(config *FileSystemSourceConfig) (*FileSystemSource, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := &FileSystemSource{
		Paths:      config.Paths,
		Extensions: types.NewExtensionLookup(config.Extensions),
		fs:         osFileSystem{},
	}
	slog.Info("Initialized FileSystemSource", "paths", s.Paths, "extensions", s.Extensions)
	return s, nil
}

func (s *FileSystemSource) Identifier() string {
	return FileSystemSourceIdentifier
}

// DiscoverArtifacts walks every path spec in order and returns the merged candidate set.
// An ArtifactDiscovered event is raised for each file the first time it is selected.
// The first failing spec aborts the whole enumeration. An empty result is not an error here,
// see RequireCandidates.
func (s *FileSystemSource) DiscoverArtifacts(ctx context.Context) (*CandidateSet, error) {
	executionId, _ := context_values.ExecutionIdFromContext(ctx)
	candidates := NewCandidateSet()

	for _, spec := range s.Paths {
		pattern := glob.Compile(spec)
		root, err := s.walkRoot(pattern)
		if err != nil {
			return nil, err
		}
		slog.Debug("Enumerating path spec", "spec", spec, "root", root, "pattern", pattern.Expression())

		w := &directoryWalker{
			fs:         s.fs,
			pattern:    pattern,
			extensions: s.Extensions,
			onAdded: func(path string) error {
				return s.NotifyObservers(ctx, events.NewArtifactDiscoveredEvent(executionId, path, spec))
			},
		}
		if err := w.walk(ctx, root, candidates); err != nil {
			return nil, err
		}
	}

	slog.Info("Enumerated candidate files", "paths", len(s.Paths), "files", candidates.Len())
	return candidates, nil
}

// walkRoot verifies the directory containing the path spec and returns the path the walk starts from
func (s *FileSystemSource) walkRoot(pattern *glob.Pattern) (string, error) {
	spec := pattern.String()
	if pattern.IsWildcard() {
		root := pattern.Parent()
		if root == "" {
			root = "."
		}
		return root, s.checkDirectory(spec, root)
	}

	// a literal spec is validated through the directory holding it
	dir := spec
	if !strings.HasSuffix(spec, string(filepath.Separator)) {
		dir = filepath.Dir(spec)
	}
	if err := s.checkDirectory(spec, dir); err != nil {
		return "", err
	}
	if _, err := s.fs.Stat(spec); err != nil {
		return "", reader_errors.Wrap(reader_errors.InvalidSourcePath, spec, err, "source path [%s] does not exist", spec)
	}
	return spec, nil
}

func (s *FileSystemSource) checkDirectory(spec, dir string) error {
	info, err := s.fs.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return reader_errors.Wrap(reader_errors.InvalidSourcePath, spec, err, "directory [%s] does not exist", dir)
		}
		return reader_errors.Wrap(reader_errors.InvalidSourcePath, spec, err, "cannot access directory [%s]", dir)
	}
	if !info.IsDir() {
		return reader_errors.New(reader_errors.InvalidSourcePath, spec, "[%s] is not a directory", dir)
	}
	if err := s.fs.CheckReadable(dir); err != nil {
		return reader_errors.Wrap(reader_errors.InvalidSourcePath, spec, err, "directory [%s] is not readable", dir)
	}
	return nil
}

// RequireCandidates raises EmptyResultSet when enumeration selected nothing.
func RequireCandidates(candidates *CandidateSet, paths []string) error {
	if candidates == nil || candidates.Len() == 0 {
		return reader_errors.New(reader_errors.EmptyResultSet, strings.Join(paths, ","), "no files found for path %v", paths)
	}
	return nil
}
