package types

import (
	"fmt"
	"strconv"
	"time"
)

// ColumnKind is the inferred semantic type of a cell value.
type ColumnKind int

const (
	KindNull ColumnKind = iota
	KindLong
	KindDouble
	KindDate
	KindString
	KindBoolean
)

func (k ColumnKind) String() string {
	switch k {
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindDate:
		return "date"
	case KindString:
		return "string"
	case KindBoolean:
		return "bool"
	default:
		return "null"
	}
}

// Column is one typed value of a row. Only the field matching Kind is set.
// A Null column carries no payload at all; it is distinct from String("").
type Column struct {
	Kind   ColumnKind
	Long   int64
	Double float64
	Date   time.Time
	String string
	Bool   bool
}

func LongColumn(v int64) Column {
	return Column{Kind: KindLong, Long: v}
}

func DoubleColumn(v float64) Column {
	return Column{Kind: KindDouble, Double: v}
}

func DateColumn(v time.Time) Column {
	return Column{Kind: KindDate, Date: v}
}

func StringColumn(v string) Column {
	return Column{Kind: KindString, String: v}
}

func BoolColumn(v bool) Column {
	return Column{Kind: KindBoolean, Bool: v}
}

func NullColumn() Column {
	return Column{Kind: KindNull}
}

func (c Column) IsNull() bool {
	return c.Kind == KindNull
}

// Value returns the payload as a plain Go value; nil for Null.
func (c Column) Value() any {
	switch c.Kind {
	case KindLong:
		return c.Long
	case KindDouble:
		return c.Double
	case KindDate:
		return c.Date
	case KindString:
		return c.String
	case KindBoolean:
		return c.Bool
	default:
		return nil
	}
}

func (c Column) GoString() string {
	switch c.Kind {
	case KindLong:
		return fmt.Sprintf("Long(%d)", c.Long)
	case KindDouble:
		return fmt.Sprintf("Double(%s)", strconv.FormatFloat(c.Double, 'g', -1, 64))
	case KindDate:
		return fmt.Sprintf("Date(%s)", c.Date.Format(time.RFC3339Nano))
	case KindString:
		return fmt.Sprintf("String(%q)", c.String)
	case KindBoolean:
		return fmt.Sprintf("Boolean(%t)", c.Bool)
	default:
		return "Null"
	}
}

// Row is the ordered sequence of columns produced from one source row.
type Row []Column
