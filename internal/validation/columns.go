// =============================================================================
// Excel to Tally XML - Column Normalizer
// =============================================================================
//
// This module maps the header labels of the input sheet onto the canonical
// field names used by the rest of the pipeline.
//
// NORMALIZATION:
//   1. Unicode NFKC (full-width letters become ASCII, ligatures are split)
//   2. Case folding
//   3. Every whitespace and punctuation character is dropped
//
//   "S.No."      -> "sno"
//   "Dr Ledger"  -> "drledger"
//   "dr_ledger"  -> "drledger"
//
// The normalized key is then looked up in a ColumnNameMap. Keys that are not
// in the map pass through unchanged, so extra columns are carried along and
// ignored by the validator.
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/types"
)

// EssentialColumns must be present in the header row for the file to be
// processed at all.
var EssentialColumns = []string{
	types.FieldSNo,
	types.FieldDate,
	types.FieldDrLedger,
	types.FieldCrLedger,
	types.FieldAmount,
	types.FieldVoucherNumber,
}

// RowEssentialColumns must additionally be non-blank in every data row.
// vouchernumber is not listed: the column must exist but a row may leave it
// empty.
var RowEssentialColumns = []string{
	types.FieldSNo,
	types.FieldDate,
	types.FieldDrLedger,
	types.FieldCrLedger,
	types.FieldAmount,
}

var folder = cases.Fold()

// NormalizeHeader reduces a header label to its lookup key.
func NormalizeHeader(label string) string {
	folded := folder.String(norm.NFKC.String(label))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// =============================================================================
// COLUMN NAME MAP
// =============================================================================

// ColumnNameMap maps normalized header keys to canonical field names.
// A map is built once at start-up and only read afterwards.
type ColumnNameMap map[string]string

// DefaultColumnNames returns the built-in header aliases.
func DefaultColumnNames() ColumnNameMap {
	return ColumnNameMap{
		// sno
		"sno":          types.FieldSNo,
		"slno":         types.FieldSNo,
		"serialno":     types.FieldSNo,
		"serialnumber": types.FieldSNo,
		"srno":         types.FieldSNo,

		// date
		"date":        types.FieldDate,
		"voucherdate": types.FieldDate,

		// drledger
		"drledger":     types.FieldDrLedger,
		"debitledger":  types.FieldDrLedger,
		"debitaccount": types.FieldDrLedger,

		// crledger
		"crledger":      types.FieldCrLedger,
		"creditledger":  types.FieldCrLedger,
		"creditaccount": types.FieldCrLedger,

		// amount
		"amount": types.FieldAmount,
		"amt":    types.FieldAmount,

		// narration
		"narration":   types.FieldNarration,
		"description": types.FieldNarration,
		"remarks":     types.FieldNarration,

		// vouchernumber
		"vouchernumber": types.FieldVoucherNumber,
		"voucherno":     types.FieldVoucherNumber,
		"vchno":         types.FieldVoucherNumber,
	}
}

// With returns a copy of m extended with extra aliases. Alias keys are
// normalized the same way header labels are, so "Debit A/c" and "debitac"
// are equivalent.
func (m ColumnNameMap) With(aliases map[string]string) ColumnNameMap {
	merged := make(ColumnNameMap, len(m)+len(aliases))
	for k, v := range m {
		merged[k] = v
	}
	for alias, field := range aliases {
		merged[NormalizeHeader(alias)] = field
	}
	return merged
}

// Lookup returns the canonical name for a header label, or its normalized key
// when the label is not a known alias.
func (m ColumnNameMap) Lookup(label string) string {
	key := NormalizeHeader(label)
	if field, ok := m[key]; ok {
		return field
	}
	return key
}

// =============================================================================
// SCHEMA ERRORS
// =============================================================================

// MissingColumnsError lists every essential column absent from the header row.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// DuplicateColumnError reports two header labels that map to the same field.
type DuplicateColumnError struct {
	Field  string
	Labels []string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("columns %q all map to %q; keep only one", e.Labels, e.Field)
}

// =============================================================================
// NORMALIZER
// =============================================================================

// ColumnIndex maps canonical field names to column positions in the sheet.
type ColumnIndex map[string]int

// Has reports whether the field is present.
func (ci ColumnIndex) Has(field string) bool {
	_, ok := ci[field]
	return ok
}

// Value returns the cell of row in the given field's column, or a Blank cell
// when the column is absent.
func (ci ColumnIndex) Value(row types.Row, field string) types.Cell {
	pos, ok := ci[field]
	if !ok {
		return types.Cell{Kind: types.CellBlank}
	}
	return row.Cell(pos)
}

// Normalizer resolves header labels against a ColumnNameMap.
type Normalizer struct {
	names ColumnNameMap
}

// NewNormalizer creates a Normalizer. A nil map means DefaultColumnNames.
func NewNormalizer(names ColumnNameMap) *Normalizer {
	if names == nil {
		names = DefaultColumnNames()
	}
	return &Normalizer{names: names}
}

// Normalize maps headers to canonical fields and checks that every essential
// column is present.
//
// RETURNS:
//   - ColumnIndex for the canonical fields found. Pass-through columns are
//     included under their normalized key.
//   - *DuplicateColumnError if two labels resolve to the same canonical field.
//   - *MissingColumnsError naming every absent essential column.
func (n *Normalizer) Normalize(headers []string) (ColumnIndex, error) {
	index := make(ColumnIndex, len(headers))
	labels := make(map[string][]string)

	for pos, label := range headers {
		key := n.names.Lookup(label)
		if key == "" {
			continue
		}
		labels[key] = append(labels[key], label)
		if _, seen := index[key]; !seen {
			index[key] = pos
		}
	}

	dupes := make([]string, 0)
	for key, ls := range labels {
		if len(ls) > 1 && types.IsCanonicalField(key) {
			dupes = append(dupes, key)
		}
	}
	if len(dupes) > 0 {
		sort.Strings(dupes)
		return nil, &DuplicateColumnError{Field: dupes[0], Labels: labels[dupes[0]]}
	}

	var missing []string
	for _, col := range EssentialColumns {
		if !index.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	return index, nil
}
