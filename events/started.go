package events

type Started struct {
	Base
	ExecutionId string
	// the number of candidate files the job will read
	FileCount int
}

func NewStartedEvent(executionId string, fileCount int) *Started {
	return &Started{
		ExecutionId: executionId,
		FileCount:   fileCount,
	}
}
