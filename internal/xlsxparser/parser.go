// =============================================================================
// Excel to Tally XML - XLSX Journal Parser
// =============================================================================
//
// This module reads the first worksheet of an Excel workbook into a RawTable.
//
// SHEET LAYOUT:
//   The first non-empty row is the header row. Every following non-empty row
//   is a data row. Blank rows are skipped but the sheet row number of every
//   data row is kept for error messages.
//
//   | S.No. | Date       | DrLedger | CrLedger | Amount | Narration | VoucherNumber |
//   |-------|------------|----------|----------|--------|-----------|---------------|
//   | 1     | 04/07/2025 | Cash     | Sales    | 1500   | Cash sale | JV-001        |
//
// CELL CLASSIFICATION:
//   excelize reports the stored cell type; numbers are further split into
//   dates and plain numbers by looking at the cell's number format.
//
//   | Stored as                          | Cell kind |
//   |------------------------------------|-----------|
//   | empty / whitespace                 | Blank     |
//   | shared, inline or formula string   | Text      |
//   | boolean, error                     | Text      |
//   | number with a date number format   | Date      |
//   | ISO 8601 date (t="d")              | Date      |
//   | any other number                   | Number    |
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/types"
	"github.com/ginjaninja78/excel-to-tally-xml/pkg/utils"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the first sheet of an Excel workbook.
//
// PARAMETERS:
//   - path: The path to the .xlsx file.
//
// RETURNS:
//   - A pointer to the RawTable holding the header and data rows.
//   - utils.ErrFileLocked (wrapped) if the file is open elsewhere.
//   - *types.ReadError for any other failure.
func Parse(path string) (*types.RawTable, error) {
	fh, err := utils.OpenForRead(path)
	if err != nil {
		if errors.Is(err, utils.ErrFileLocked) {
			return nil, err
		}
		return nil, &types.ReadError{Path: path, Err: err}
	}
	defer fh.Close()

	return parseFrom(path, fh)
}

// parseFrom reads the workbook from r. path is used in errors only.
func parseFrom(path string, r io.Reader) (*types.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		if locked := utils.LockedError(path, err); locked != nil {
			return nil, locked
		}
		return nil, &types.ReadError{Path: path, Err: err}
	}
	defer f.Close()

	table, err := parseFirstSheet(f)
	if err != nil {
		return nil, &types.ReadError{Path: path, Err: err}
	}

	table.SourceFile = path
	return table, nil
}

// parseFirstSheet builds a RawTable from the first sheet of an open workbook.
func parseFirstSheet(f *excelize.File) (*types.RawTable, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("workbook has no sheets")
	}

	table := &types.RawTable{
		SheetName: sheetName,
		Rows:      []types.Row{},
	}

	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		table.Date1904 = *props.Date1904
	}

	// Raw values keep full numeric precision; formatting is applied by
	// classifyCell from the cell style.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	c := &classifier{
		file:       f,
		sheet:      sheetName,
		date1904:   table.Date1904,
		dateStyles: make(map[int]bool),
	}

	headerFound := false
	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		rowNumber := i + 1

		if !headerFound {
			table.Headers = cleanHeaders(row)
			headerFound = true
			continue
		}

		values := make([]types.Cell, len(row))
		for col, raw := range row {
			cell, err := c.classifyCell(col+1, rowNumber, raw)
			if err != nil {
				return nil, err
			}
			values[col] = cell
		}

		table.Rows = append(table.Rows, types.Row{Number: rowNumber, Values: values})
	}

	if !headerFound {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	return table, nil
}

// =============================================================================
// CELL CLASSIFICATION
// =============================================================================

// classifier turns raw cell strings into typed cells.
type classifier struct {
	file     *excelize.File
	sheet    string
	date1904 bool

	// dateStyles caches whether a style ID carries a date number format.
	dateStyles map[int]bool
}

// classifyCell returns the typed value of the cell at (col, row), both 1-based.
func (c *classifier) classifyCell(col, row int, raw string) (types.Cell, error) {
	if strings.TrimSpace(raw) == "" {
		return types.Cell{Kind: types.CellBlank}, nil
	}

	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return types.Cell{}, err
	}

	cellType, err := c.file.GetCellType(c.sheet, name)
	if err != nil {
		return types.Cell{}, fmt.Errorf("cell %s: %w", name, err)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return types.TextCell(raw), nil

	case excelize.CellTypeBool:
		if raw == "1" {
			return types.TextCell("TRUE"), nil
		}
		return types.TextCell("FALSE"), nil

	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return types.DateCell(t), nil
		}
		return types.TextCell(raw), nil
	}

	// Unset or "n": a number, possibly formatted as a date.
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return types.TextCell(raw), nil
	}

	isDate, err := c.hasDateFormat(name)
	if err != nil {
		return types.Cell{}, fmt.Errorf("cell %s: %w", name, err)
	}
	if isDate {
		t, err := excelize.ExcelDateToTime(v, c.date1904)
		if err == nil {
			return types.DateCell(t), nil
		}
	}

	return types.NumberCell(v), nil
}

// hasDateFormat reports whether the cell's style uses a date number format.
func (c *classifier) hasDateFormat(cell string) (bool, error) {
	styleID, err := c.file.GetCellStyle(c.sheet, cell)
	if err != nil {
		return false, err
	}

	if isDate, ok := c.dateStyles[styleID]; ok {
		return isDate, nil
	}

	style, err := c.file.GetStyle(styleID)
	if err != nil {
		return false, err
	}

	isDate := isBuiltInDateFormat(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}

	c.dateStyles[styleID] = isDate
	return isDate, nil
}

// isBuiltInDateFormat reports whether a built-in number format ID is a date
// or time format, including the East Asian locale formats.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	case id >= 71 && id <= 81:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format code formats dates.
// Quoted literals, bracketed sections and escaped characters are ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false

	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\' || r == '_' || r == '*':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			b.WriteRune(r)
		}
	}

	s := strings.ToLower(b.String())
	if strings.ContainsAny(s, "yd") {
		return true
	}
	// A lone "m" is a month unless it sits next to hours or seconds.
	return strings.Contains(s, "m") && !strings.ContainsAny(s, "hs")
}

// parseISODate parses the value of a t="d" cell.
func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cleanHeaders trims header labels and names blank ones Column_N.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = h
	}
	return cleaned
}
