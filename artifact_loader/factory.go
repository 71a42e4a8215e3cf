package artifact_loader

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

// Factory is a global ArtifactLoaderFactory instance with the built in loaders registered
var Factory = newArtifactLoaderFactory(NewExcelLoader, NewCsvLoader, NewGzipCsvLoader)

type ArtifactLoaderFactory struct {
	// suffix -> loader
	artifactLoaders map[string]Loader
	// registered suffixes, longest first so ".csv.gz" wins over ".gz"
	suffixes []string
}

func newArtifactLoaderFactory(loaderFuncs ...func() Loader) ArtifactLoaderFactory {
	f := ArtifactLoaderFactory{
		artifactLoaders: make(map[string]Loader),
	}
	f.RegisterArtifactLoaders(loaderFuncs...)
	return f
}

func (f *ArtifactLoaderFactory) RegisterArtifactLoaders(loaderFuncs ...func() Loader) {
	if f.artifactLoaders == nil {
		f.artifactLoaders = make(map[string]Loader)
	}
	for _, ctor := range loaderFuncs {
		l := ctor()
		for _, ext := range l.Extensions() {
			ext = strings.ToLower(ext)
			if _, exists := f.artifactLoaders[ext]; !exists {
				f.suffixes = append(f.suffixes, ext)
			}
			f.artifactLoaders[ext] = l
		}
	}
	sort.SliceStable(f.suffixes, func(i, j int) bool {
		return len(f.suffixes[i]) > len(f.suffixes[j])
	})
}

// GetLoader returns the loader for the file, chosen by its suffix.
func (f *ArtifactLoaderFactory) GetLoader(path string) (Loader, error) {
	name := strings.ToLower(filepath.Base(path))
	for _, suffix := range f.suffixes {
		if strings.HasSuffix(name, suffix) {
			return f.artifactLoaders[suffix], nil
		}
	}
	if strings.HasSuffix(name, ".xls") {
		return nil, reader_errors.New(reader_errors.SourceOpenError, path, "legacy binary workbook [%s] is not supported, save it as .xlsx", path)
	}
	return nil, reader_errors.New(reader_errors.SourceOpenError, path, "no loader for file [%s]", path)
}
