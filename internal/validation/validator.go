// =============================================================================
// Excel to Tally XML - Validation Engine
// =============================================================================
//
// This module turns the rows of a RawTable into ValidatedRows.
//
// VALIDATION STRATEGY:
//   Rows are checked in sheet order. For each row:
//   1. Required fields (sno, date, drledger, crledger, amount) must be non-blank
//   2. The date must parse, day-first when ambiguous ("04/07/2025" is 4 July)
//   3. The amount must parse as a decimal number
//   4. narration and vouchernumber default to "" when blank
//
// ERROR HANDLING:
//   The first failing row stops validation and nothing is returned. Every
//   error identifies the row by its S. No., or by "Excel Row N" when the
//   S. No. cell is itself blank.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/types"
)

// ErrNoData is returned when the sheet has a header row but no data rows.
var ErrNoData = errors.New("no data rows found in the input file")

// TallyDateLayout is the date format Tally expects (YYYYMMDD).
const TallyDateLayout = "20060102"

// =============================================================================
// ROW ERRORS
// =============================================================================

// RowErrorKind classifies a row-level failure.
type RowErrorKind string

const (
	// RowErrMissing is a blank required field.
	RowErrMissing RowErrorKind = "missing"
	// RowErrDate is a date that could not be parsed.
	RowErrDate RowErrorKind = "date"
	// RowErrAmount is an amount that could not be parsed.
	RowErrAmount RowErrorKind = "amount"
)

// RowError describes the first invalid row found.
type RowError struct {
	Kind RowErrorKind

	// Label is the row's S. No. or "Excel Row N".
	Label string

	// RowNumber is the sheet row number.
	RowNumber int

	// Column is the canonical field name that failed.
	Column string

	// Value is the raw cell value as text.
	Value string

	// Err is the underlying parse error, if any.
	Err error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	switch e.Kind {
	case RowErrMissing:
		return fmt.Sprintf("row with S. No. '%s' has a blank value in the '%s' column", e.Label, e.Column)
	case RowErrDate:
		return fmt.Sprintf("row S. No. '%s': invalid date '%s'", e.Label, e.Value)
	case RowErrAmount:
		return fmt.Sprintf("row S. No. '%s': invalid amount '%s'", e.Label, e.Value)
	default:
		return fmt.Sprintf("row S. No. '%s': invalid value '%s' in '%s'", e.Label, e.Value, e.Column)
	}
}

// Unwrap returns the underlying parse error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks a RawTable and produces ValidatedRows.
type Validator struct {
	normalizer *Normalizer
}

// NewValidator creates a Validator using the given column names.
// A nil map means DefaultColumnNames.
func NewValidator(names ColumnNameMap) *Validator {
	return &Validator{normalizer: NewNormalizer(names)}
}

// Validate normalizes the headers of table and validates every row.
//
// PARAMETERS:
//   - table: The table produced by the loader.
//
// RETURNS:
//   - One ValidatedRow per data row, in sheet order.
//   - A schema error, the first *RowError, or ErrNoData. On error the
//     returned slice is always nil.
func (v *Validator) Validate(table *types.RawTable) ([]types.ValidatedRow, error) {
	index, err := v.normalizer.Normalize(table.Headers)
	if err != nil {
		return nil, err
	}

	rows := make([]types.ValidatedRow, 0, len(table.Rows))
	for _, row := range table.Rows {
		validated, err := validateRow(row, index, table.Date1904)
		if err != nil {
			return nil, err
		}
		rows = append(rows, validated)
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}

	return rows, nil
}

// validateRow runs the per-row checks in order.
func validateRow(row types.Row, index ColumnIndex, date1904 bool) (types.ValidatedRow, error) {
	label := rowLabel(row, index)

	// Step 1: required fields.
	for _, col := range RowEssentialColumns {
		if index.Value(row, col).IsBlank() {
			return types.ValidatedRow{}, &RowError{
				Kind:      RowErrMissing,
				Label:     label,
				RowNumber: row.Number,
				Column:    col,
			}
		}
	}

	// Step 2: date.
	dateCell := index.Value(row, types.FieldDate)
	date, err := parseDate(dateCell, date1904)
	if err != nil {
		return types.ValidatedRow{}, &RowError{
			Kind:      RowErrDate,
			Label:     label,
			RowNumber: row.Number,
			Column:    types.FieldDate,
			Value:     dateCell.String(),
			Err:       err,
		}
	}

	// Step 3: amount.
	amountCell := index.Value(row, types.FieldAmount)
	amount, err := parseAmount(amountCell)
	if err != nil {
		return types.ValidatedRow{}, &RowError{
			Kind:      RowErrAmount,
			Label:     label,
			RowNumber: row.Number,
			Column:    types.FieldAmount,
			Value:     amountCell.String(),
			Err:       err,
		}
	}

	// Step 4: defaults.
	return types.ValidatedRow{
		RowNumber:     row.Number,
		SNo:           label,
		Date:          date.Format(TallyDateLayout),
		DrLedger:      strings.TrimSpace(index.Value(row, types.FieldDrLedger).String()),
		CrLedger:      strings.TrimSpace(index.Value(row, types.FieldCrLedger).String()),
		Amount:        amount,
		Narration:     index.Value(row, types.FieldNarration).String(),
		VoucherNumber: strings.TrimSpace(index.Value(row, types.FieldVoucherNumber).String()),
	}, nil
}

// rowLabel returns the row's S. No. as text, or "Excel Row N" when blank.
func rowLabel(row types.Row, index ColumnIndex) string {
	sno := index.Value(row, types.FieldSNo)
	if sno.IsBlank() {
		return fmt.Sprintf("Excel Row %d", row.Number)
	}
	return strings.TrimSpace(sno.String())
}

// =============================================================================
// DATE PARSING
// =============================================================================

// dayFirstLayouts are tried in order before falling back to dateparse.
// Numeric layouts put the day first; "2" and "1" accept one or two digits.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2.1.06",
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"20060102",
	"2-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-06",
}

// parseDate converts a date cell to a calendar date.
//
// SUPPORTED CELL KINDS:
//   - Date: used as is
//   - Number: an Excel serial date in the workbook's date system
//   - Text: day-first layouts, then dateparse with day-first preference
//
// A result without a year ("04/07") is rejected.
func parseDate(cell types.Cell, date1904 bool) (time.Time, error) {
	t, err := parseDateValue(cell, date1904)
	if err != nil {
		return time.Time{}, err
	}
	if t.Year() < 1 {
		return time.Time{}, errors.New("date has no year")
	}
	return t, nil
}

func parseDateValue(cell types.Cell, date1904 bool) (time.Time, error) {
	switch cell.Kind {
	case types.CellDate:
		return cell.Time, nil

	case types.CellNumber:
		if cell.Number <= 0 || math.IsNaN(cell.Number) || math.IsInf(cell.Number, 0) {
			return time.Time{}, fmt.Errorf("%v is not an Excel serial date", cell.Number)
		}
		return excelize.ExcelDateToTime(cell.Number, date1904)

	case types.CellText:
		return parseDateText(strings.TrimSpace(cell.Text))

	default:
		return time.Time{}, errors.New("blank date")
	}
}

func parseDateText(s string) (time.Time, error) {
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	// 07/13/2025 cannot be day first, so dateparse retries it month first.
	return dateparse.ParseAny(s,
		dateparse.PreferMonthFirst(false),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
}

// =============================================================================
// AMOUNT PARSING
// =============================================================================

// parseAmount converts an amount cell to a decimal. Date cells are rejected.
func parseAmount(cell types.Cell) (decimal.Decimal, error) {
	switch cell.Kind {
	case types.CellNumber:
		if math.IsNaN(cell.Number) || math.IsInf(cell.Number, 0) {
			return decimal.Decimal{}, fmt.Errorf("%v is not a finite number", cell.Number)
		}
		return decimal.NewFromFloat(cell.Number), nil

	case types.CellText:
		return decimal.NewFromString(strings.TrimSpace(cell.Text))

	case types.CellDate:
		return decimal.Decimal{}, errors.New("a date is not an amount")

	default:
		return decimal.Decimal{}, errors.New("blank amount")
	}
}
