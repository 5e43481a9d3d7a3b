// =============================================================================
// Excel to Tally XML - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - xlsxparser / csvparser (RawTable, Cell)
//   - validation             (ValidatedRow)
//   - converter              (Voucher)
//   - xmlwriter              (Voucher, LedgerEntry)
//
// =============================================================================

package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CANONICAL FIELD NAMES
// =============================================================================

// Canonical field names every recognized spreadsheet column is mapped to.
const (
	FieldSNo           = "sno"
	FieldDate          = "date"
	FieldDrLedger      = "drledger"
	FieldCrLedger      = "crledger"
	FieldAmount        = "amount"
	FieldNarration     = "narration"
	FieldVoucherNumber = "vouchernumber"
)

// CanonicalFields lists every canonical field in display order.
var CanonicalFields = []string{
	FieldSNo,
	FieldDate,
	FieldDrLedger,
	FieldCrLedger,
	FieldAmount,
	FieldNarration,
	FieldVoucherNumber,
}

// IsCanonicalField reports whether name is one of the canonical field names.
func IsCanonicalField(name string) bool {
	for _, f := range CanonicalFields {
		if f == name {
			return true
		}
	}
	return false
}

// =============================================================================
// CELL VALUES
// =============================================================================

// CellKind tags the kind of value held by a Cell.
type CellKind int

const (
	// CellBlank is an empty cell.
	CellBlank CellKind = iota
	// CellText is a string cell (shared, inline, formula result or boolean).
	CellText
	// CellNumber is a numeric cell without a date format.
	CellNumber
	// CellDate is a numeric cell formatted as a date, or an ISO date cell.
	CellDate
)

// String returns the lower-case name of the kind.
func (k CellKind) String() string {
	switch k {
	case CellBlank:
		return "blank"
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return fmt.Sprintf("CellKind(%d)", int(k))
	}
}

// Cell is a single spreadsheet value. Only the field matching Kind is set.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

// TextCell returns a Text cell, or a Blank cell when s is empty.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{Kind: CellBlank}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a Number cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// DateCell returns a Date cell.
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

// IsBlank reports whether the cell is missing or holds only whitespace.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellBlank:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// String renders the cell as text, the way it is shown in error messages
// and embedded in free-text XML fields.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 {
			return c.Time.Format("2006-01-02")
		}
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// =============================================================================
// RAW TABLE
// =============================================================================

// Row is one data row of the sheet. Values is positional and aligned with
// RawTable.Headers; it may be shorter than Headers when trailing cells are empty.
type Row struct {
	// Number is the 1-based row number in the source sheet.
	Number int

	Values []Cell
}

// Cell returns the value at column position i, or a Blank cell when the row
// is shorter than i.
func (r Row) Cell(i int) Cell {
	if i < 0 || i >= len(r.Values) {
		return Cell{Kind: CellBlank}
	}
	return r.Values[i]
}

// RawTable is the first sheet of the input as loaded from disk.
// It is not modified after loading.
type RawTable struct {
	// SourceFile is the path the table was read from.
	SourceFile string

	// SheetName is the name of the sheet that was read (empty for CSV input).
	SheetName string

	// Headers are the original column labels, in sheet order.
	Headers []string

	// Rows are the non-empty data rows, in sheet order.
	Rows []Row

	// Date1904 is true when the workbook uses the 1904 date system.
	Date1904 bool
}

// =============================================================================
// VALIDATED ROWS AND VOUCHERS
// =============================================================================

// ValidatedRow is a row that passed every per-row check.
type ValidatedRow struct {
	// RowNumber is the sheet row the values came from.
	RowNumber int

	SNo           string
	Date          string // YYYYMMDD
	DrLedger      string
	CrLedger      string
	Amount        decimal.Decimal
	Narration     string
	VoucherNumber string
}

// LedgerEntry is one leg of a voucher.
type LedgerEntry struct {
	LedgerName       string
	IsDeemedPositive bool
	Amount           decimal.Decimal
}

// Voucher is one journal voucher: a debit leg and an offsetting credit leg.
type Voucher struct {
	Action        string
	VoucherType   string
	Date          string
	VoucherNumber string
	Narration     string
	Entries       []LedgerEntry
}

// =============================================================================
// ERRORS
// =============================================================================

// ReadError reports that an input file could not be read or parsed.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
