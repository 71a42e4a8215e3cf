package artifact_loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
	"github.com/turbot/tailpipe-plugin-excel/types"
)

const ExcelLoaderIdentifier = "excel_loader"

// formulaErrors are the error literals a formula can evaluate to
var formulaErrors = map[string]struct{}{
	"#DIV/0!":       {},
	"#NAME?":        {},
	"#N/A":          {},
	"#NUM!":         {},
	"#VALUE!":       {},
	"#REF!":         {},
	"#NULL!":        {},
	"#SPILL!":       {},
	"#CALC!":        {},
	"#GETTING_DATA": {},
}

// ExcelLoader reads the first worksheet of an Office Open XML workbook
type ExcelLoader struct{}

func NewExcelLoader() Loader {
	return &ExcelLoader{}
}

func (l *ExcelLoader) Identifier() string {
	return ExcelLoaderIdentifier
}

func (l *ExcelLoader) Extensions() []string {
	return []string{".xlsx", ".xlsm", ".xltx", ".xltm"}
}

func (l *ExcelLoader) Open(ctx context.Context, path string, opts ReadOptions) (Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, reader_errors.Wrap(reader_errors.SourceOpenError, path, err, "cannot open workbook [%s]", path)
	}

	// only the first sheet is ever read
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, reader_errors.New(reader_errors.SourceOpenError, path, "workbook [%s] has no sheets", path)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, reader_errors.Wrap(reader_errors.SourceOpenError, path, err, "cannot read sheet [%s] of workbook [%s]", sheet, path)
	}

	c := &excelCursor{
		path:       path,
		file:       f,
		sheet:      sheet,
		rows:       rows,
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		c.date1904 = *props.Date1904
	}

	if err := c.skipLeading(opts); err != nil {
		c.Close()
		return nil, err
	}
	slog.Debug("Opened workbook", "path", path, "sheet", sheet, "header", opts.Header, "skip_rows", opts.SkipRows, "date1904", c.date1904)
	return c, nil
}

type excelCursor struct {
	path  string
	file  *excelize.File
	sheet string
	rows  *excelize.Rows
	// 1-based number of the current row
	rowNum   int
	date1904 bool
	// style index -> whether its number format is a date format
	dateStyles map[int]bool
	header     []string
}

func (c *excelCursor) skipLeading(opts ReadOptions) error {
	if opts.Header {
		values, err := c.nextRow()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		c.header = make([]string, len(values))
		for i, v := range values {
			c.header[i] = strings.TrimSpace(v)
		}
	}
	for i := 0; i < opts.SkipRows; i++ {
		if _, err := c.nextRow(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
	return nil
}

// nextRow advances to the next row holding at least one cell and returns its raw values
func (c *excelCursor) nextRow() ([]string, error) {
	for c.rows.Next() {
		c.rowNum++
		values, err := c.rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, c.readError(err)
		}
		if len(values) > 0 {
			return values, nil
		}
	}
	if err := c.rows.Error(); err != nil {
		return nil, c.readError(err)
	}
	return nil, io.EOF
}

func (c *excelCursor) ReadRow() (types.Row, error) {
	values, err := c.nextRow()
	if err != nil {
		return nil, err
	}
	cells := make([]Cell, len(values))
	for i, raw := range values {
		cell, err := c.readCell(i+1, raw)
		if err != nil {
			return nil, c.readError(err)
		}
		cells[i] = cell
	}
	return ClassifyRow(cells), nil
}

func (c *excelCursor) Header() []string {
	return c.header
}

func (c *excelCursor) Close() {
	if err := c.rows.Close(); err != nil {
		slog.Debug("Error closing row iterator", "path", c.path, "error", err)
	}
	if err := c.file.Close(); err != nil {
		slog.Debug("Error closing workbook", "path", c.path, "error", err)
	}
}

// readCell evaluates the cell in column col of the current row
func (c *excelCursor) readCell(col int, raw string) (Cell, error) {
	name, err := excelize.CoordinatesToCellName(col, c.rowNum)
	if err != nil {
		return Cell{}, err
	}

	cellType, err := c.file.GetCellType(c.sheet, name)
	if err != nil {
		return Cell{}, err
	}
	formula, err := c.file.GetCellFormula(c.sheet, name)
	if err != nil {
		return Cell{}, err
	}
	if formula != "" {
		return c.evaluateFormula(name, formula, cellType, raw)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return BooleanCell(raw == "1" || strings.EqualFold(raw, "TRUE")), nil
	case excelize.CellTypeError:
		return ErrorCell(), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return StringCell(raw), nil
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return DateCell(0, t), nil
		}
		return StringCell(raw), nil
	}

	if raw == "" {
		return BlankCell(), nil
	}
	v, ok := parseNumber(raw)
	if !ok {
		return StringCell(raw), nil
	}
	return c.numericCell(name, v)
}

// evaluateFormula substitutes the computed result of a formula cell.
// The type of the result is taken from the type the workbook cached for it:
// t="str" is text, t="b" boolean, t="e" an error and no type a number.
// Writers that save formulas without a cached result (cached is empty) mark
// every formula "str", so only then is the type inferred from the result text.
func (c *excelCursor) evaluateFormula(name, formula string, cachedType excelize.CellType, cached string) (Cell, error) {
	res, err := c.file.CalcCellValue(c.sheet, name, excelize.Options{RawCellValue: true})
	res = strings.TrimSpace(res)
	if isFormulaError(res) || (err != nil && isFormulaError(err.Error())) {
		return ErrorCell(), nil
	}
	if err != nil {
		slog.Debug("Formula could not be evaluated", "path", c.path, "cell", name, "formula", formula, "error", err)
		return FormulaCell(formula), nil
	}

	if cached == "" && cachedType != excelize.CellTypeBool && cachedType != excelize.CellTypeError {
		return c.inferFormulaResult(name, res)
	}

	switch cachedType {
	case excelize.CellTypeFormula, excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return StringCell(res), nil
	case excelize.CellTypeBool:
		switch strings.ToUpper(res) {
		case "TRUE", "1":
			return BooleanCell(true), nil
		case "FALSE", "0":
			return BooleanCell(false), nil
		}
		return StringCell(res), nil
	case excelize.CellTypeError:
		// the cached error is stale, the formula now evaluates cleanly
		return c.inferFormulaResult(name, res)
	}

	if res == "" {
		return BlankCell(), nil
	}
	if v, ok := parseNumber(res); ok {
		return c.numericCell(name, v)
	}
	return StringCell(res), nil
}

// inferFormulaResult classifies a result whose type the workbook does not record
func (c *excelCursor) inferFormulaResult(name, res string) (Cell, error) {
	switch strings.ToUpper(res) {
	case "TRUE":
		return BooleanCell(true), nil
	case "FALSE":
		return BooleanCell(false), nil
	case "":
		return BlankCell(), nil
	}
	if v, ok := parseNumber(res); ok {
		return c.numericCell(name, v)
	}
	return StringCell(res), nil
}

func isFormulaError(s string) bool {
	_, ok := formulaErrors[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

func (c *excelCursor) numericCell(name string, v float64) (Cell, error) {
	isDate, err := c.isDateFormatted(name)
	if err != nil {
		return Cell{}, err
	}
	if !isDate {
		return NumericCell(v), nil
	}
	t, err := excelize.ExcelDateToTime(v, c.date1904)
	if err != nil {
		// out of the range a date can represent, keep the number
		return NumericCell(v), nil
	}
	return DateCell(v, t), nil
}

func (c *excelCursor) isDateFormatted(name string) (bool, error) {
	styleIdx, err := c.file.GetCellStyle(c.sheet, name)
	if err != nil {
		return false, err
	}
	if isDate, ok := c.dateStyles[styleIdx]; ok {
		return isDate, nil
	}

	style, err := c.file.GetStyle(styleIdx)
	if err != nil {
		return false, err
	}
	var code string
	if style.CustomNumFmt != nil {
		code = *style.CustomNumFmt
	}
	isDate := IsDateFormat(style.NumFmt, code)
	c.dateStyles[styleIdx] = isDate
	return isDate, nil
}

func (c *excelCursor) readError(err error) error {
	return reader_errors.Wrap(reader_errors.SourceOpenError, c.path, err, "error reading row %d of [%s]", c.rowNum, c.path)
}

// parseNumber accepts plain decimal and scientific notation only
func parseNumber(s string) (float64, bool) {
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var isoDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
