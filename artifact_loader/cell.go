package artifact_loader

import (
	"math"
	"strings"
	"time"

	"github.com/turbot/tailpipe-plugin-excel/types"
)

// CellKind is the evaluated type of a spreadsheet cell. The set is fixed by the file format.
type CellKind int

const (
	CellBlank CellKind = iota
	CellNumeric
	CellString
	CellBoolean
	CellError
	// CellFormula is a formula whose result could not be resolved to any other kind
	CellFormula
)

func (k CellKind) String() string {
	switch k {
	case CellBlank:
		return "blank"
	case CellNumeric:
		return "numeric"
	case CellString:
		return "string"
	case CellBoolean:
		return "boolean"
	case CellError:
		return "error"
	case CellFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Cell is one cell after formula evaluation.
type Cell struct {
	Kind CellKind

	Number float64
	// IsDate is set for numeric cells whose number format is a date or time format;
	// Time then holds the converted value
	IsDate bool
	Time   time.Time

	Text string
	Bool bool
}

func BlankCell() Cell {
	return Cell{Kind: CellBlank}
}

func NumericCell(v float64) Cell {
	return Cell{Kind: CellNumeric, Number: v}
}

func DateCell(v float64, t time.Time) Cell {
	return Cell{Kind: CellNumeric, Number: v, IsDate: true, Time: t}
}

func StringCell(s string) Cell {
	return Cell{Kind: CellString, Text: s}
}

func BooleanCell(b bool) Cell {
	return Cell{Kind: CellBoolean, Bool: b}
}

func ErrorCell() Cell {
	return Cell{Kind: CellError}
}

func FormulaCell(formula string) Cell {
	return Cell{Kind: CellFormula, Text: formula}
}

// ClassifyCell maps an evaluated cell to the column it contributes.
// The second return is false when the cell contributes no column at all,
// which is the case for an unresolved formula. Error cells still produce a
// (null) column.
func ClassifyCell(c Cell) (types.Column, bool) {
	switch c.Kind {
	case CellNumeric:
		if c.IsDate {
			return types.DateColumn(c.Time), true
		}
		if l, ok := integral(c.Number); ok {
			return types.LongColumn(l), true
		}
		return types.DoubleColumn(c.Number), true
	case CellString:
		return types.StringColumn(strings.TrimSpace(c.Text)), true
	case CellBoolean:
		return types.BoolColumn(c.Bool), true
	case CellError:
		return types.NullColumn(), true
	case CellBlank:
		return types.StringColumn(""), true
	default:
		return types.Column{}, false
	}
}

// ClassifyRow maps every cell of a row in column order, dropping cells which contribute no column.
func ClassifyRow(cells []Cell) types.Row {
	row := make(types.Row, 0, len(cells))
	for _, c := range cells {
		if col, ok := ClassifyCell(c); ok {
			row = append(row, col)
		}
	}
	return row
}

// integral returns v as an int64 if it has no fractional part and fits in 64 bits
func integral(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, false
	}
	l := int64(v)
	return l, float64(l) == v
}
