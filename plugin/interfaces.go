package plugin

import (
	"context"

	"github.com/turbot/tailpipe-plugin-excel/types"
)

// RecordSender is the sink rows are delivered to, one record at a time.
// Each task has its own sender.
type RecordSender interface {
	// CreateRecord returns an empty record
	CreateRecord() Record
	// SendToWriter delivers a populated record. It may block until the writer has capacity.
	SendToWriter(context.Context, Record) error
}

// Record is a single row being assembled for a RecordSender
type Record interface {
	AddColumn(types.Column)
	Columns() types.Row
}

// ColumnAwareSender is implemented by senders which want the header of each file.
// SetColumns is called after a file is opened and before its first record is sent;
// columns is nil when the file has no header.
type ColumnAwareSender interface {
	SetColumns(columns []string)
}

// SenderFactory creates the sender for the work unit with the given index
type SenderFactory func(unitIndex int) (RecordSender, error)
