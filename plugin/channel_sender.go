package plugin

import (
	"context"

	"github.com/turbot/tailpipe-plugin-excel/types"
)

// ChannelSender delivers rows on a channel. Sends block until the receiver takes the row.
type ChannelSender struct {
	rowChan chan<- types.Row
}

func NewChannelSender(rowChan chan<- types.Row) *ChannelSender {
	return &ChannelSender{rowChan: rowChan}
}

func (s *ChannelSender) CreateRecord() Record {
	return NewRowRecord()
}

func (s *ChannelSender) SendToWriter(ctx context.Context, r Record) error {
	select {
	case s.rowChan <- r.Columns():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
