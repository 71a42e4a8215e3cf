package plugin

import "fmt"

// ExecutionIdToFileName convert an execution id and work unit index to a filename
// assuming a convention of <executionId>-<unitIndex>.jsonl
func ExecutionIdToFileName(executionId string, unitIndex int) string {
	return fmt.Sprintf("%s-%d.jsonl", executionId, unitIndex)
}
