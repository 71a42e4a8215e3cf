package plugin

import (
	"github.com/turbot/tailpipe-plugin-excel/types"
)

// RowRecord is a Record backed by a row
type RowRecord struct {
	row types.Row
}

func NewRowRecord() *RowRecord {
	return &RowRecord{}
}

func (r *RowRecord) AddColumn(c types.Column) {
	r.row = append(r.row, c)
}

func (r *RowRecord) Columns() types.Row {
	return r.row
}
