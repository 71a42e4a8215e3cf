package events

// ArtifactDiscovered is fired for every file added to the candidate set
type ArtifactDiscovered struct {
	Base
	ExecutionId string
	Path        string
	// the path spec which selected the file
	Spec string
}

func NewArtifactDiscoveredEvent(executionId, path, spec string) *ArtifactDiscovered {
	return &ArtifactDiscovered{
		ExecutionId: executionId,
		Path:        path,
		Spec:        spec,
	}
}

// FileCompleted is fired when all rows of a file have been sent
type FileCompleted struct {
	Base
	ExecutionId string
	Path        string
	RowCount    int
}

func NewFileCompletedEvent(executionId, path string, rowCount int) *FileCompleted {
	return &FileCompleted{
		ExecutionId: executionId,
		Path:        path,
		RowCount:    rowCount,
	}
}
