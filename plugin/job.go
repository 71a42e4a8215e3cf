package plugin

import (
	"context"
	"log/slog"

	"github.com/turbot/tailpipe-plugin-excel/artifact_source"
	"github.com/turbot/tailpipe-plugin-excel/config"
	"github.com/turbot/tailpipe-plugin-excel/events"
	"github.com/turbot/tailpipe-plugin-excel/observable"
	"github.com/turbot/tailpipe-plugin-excel/partition"
	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

// Job is the job-level half of the reader: it enumerates the candidate files once
// and splits them into per-task configurations.
type Job struct {
	observable.Base

	config *config.ReaderConfig
	source *artifact_source.FileSystemSource

	candidates  *artifact_source.CandidateSet
	files       []string
	initialized bool
}

func NewJob(c *config.ReaderConfig) (*Job, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	j := &Job{config: c}

	// a pre-split task configuration carries its files and needs no source
	if len(c.SourceFiles) > 0 {
		return j, nil
	}

	source, err := artifact_source.NewFileSystemSource(&artifact_source.FileSystemSourceConfig{
		Paths:      c.Paths(),
		Extensions: c.Extensions,
	})
	if err != nil {
		return nil, err
	}
	// relay discovery events to the job's observers
	if err := source.AddObserver(observable.ObserverFunc(func(ctx context.Context, e events.Event) error {
		return j.NotifyObservers(ctx, e)
	})); err != nil {
		return nil, err
	}
	j.source = source
	return j, nil
}

// Init enumerates the candidate files. When the configuration already carries a file
// list it is used as is and no enumeration takes place.
func (j *Job) Init(ctx context.Context) error {
	if len(j.config.SourceFiles) > 0 {
		j.candidates = artifact_source.NewCandidateSet()
		j.files = j.files[:0]
		for _, f := range j.config.SourceFiles {
			if j.candidates.Add(f) {
				j.files = append(j.files, f)
			}
		}
		slog.Info("Using source files from configuration", "files", len(j.files))
	} else {
		candidates, err := j.source.DiscoverArtifacts(ctx)
		if err != nil {
			slog.Error("Enumeration failed", "error", err)
			return err
		}
		j.candidates = candidates
		j.files = candidates.Paths()
	}
	j.initialized = true
	slog.Info("Job initialized", "files", len(j.files), "header", j.config.Header, "skip_rows", j.config.SkipRows)
	return nil
}

// Files returns the candidate files in split order
func (j *Job) Files() []string {
	return j.files
}

// Split divides the candidate files into task configurations. adviceNumber is the
// number of tasks the host would like; it must be at least 1.
func (j *Job) Split(adviceNumber int) ([]*config.ReaderConfig, error) {
	if !j.initialized {
		return nil, reader_errors.New(reader_errors.InvalidConfig, "", "job must be initialized before it is split")
	}
	if adviceNumber < 1 {
		return nil, reader_errors.New(reader_errors.InvalidConfig, "", "number of tasks must be at least 1, got %d", adviceNumber)
	}
	if err := artifact_source.RequireCandidates(j.candidates, j.config.Paths()); err != nil {
		return nil, err
	}

	var units []partition.WorkUnit
	if j.config.OneFilePerTask {
		units = partition.SplitPerFile(j.files)
	} else {
		units = partition.Split(j.files, adviceNumber)
	}

	res := make([]*config.ReaderConfig, len(units))
	for i, u := range units {
		res[i] = j.config.ForTask(u.Files)
	}
	slog.Debug("Split finished", "files", len(j.files), "advice", adviceNumber, "tasks", len(res))
	return res, nil
}
