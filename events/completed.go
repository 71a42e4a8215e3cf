package events

type Completed struct {
	Base
	ExecutionId string
	RowCount    int
	FileCount   int
	// files which could not be opened
	FailedFiles []string
	Err         error
}

func NewCompletedEvent(executionId string, rowCount, fileCount int, failedFiles []string, err error) *Completed {
	return &Completed{
		ExecutionId: executionId,
		RowCount:    rowCount,
		FileCount:   fileCount,
		FailedFiles: failedFiles,
		Err:         err,
	}
}
