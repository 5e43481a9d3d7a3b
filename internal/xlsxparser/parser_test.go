package xlsxparser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/types"
	"github.com/ginjaninja78/excel-to-tally-xml/pkg/utils"
)

// writeWorkbook saves rows to the first sheet of a new workbook. Rows are
// written starting at A1; a nil row leaves that sheet row empty.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "journal.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse_CellKinds(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"S.No.", "Date", "DrLedger", "CrLedger", "Amount", "Narration", "VoucherNumber"},
		{1, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), "Cash", "Smith & Co.", 1500.25, "Rent", "JV-1"},
	})

	table, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, path, table.SourceFile)
	assert.Equal(t, "Sheet1", table.SheetName)
	assert.Equal(t, []string{"S.No.", "Date", "DrLedger", "CrLedger", "Amount", "Narration", "VoucherNumber"}, table.Headers)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	assert.Equal(t, 2, row.Number)

	assert.Equal(t, types.CellNumber, row.Cell(0).Kind)
	assert.Equal(t, float64(1), row.Cell(0).Number)

	assert.Equal(t, types.CellDate, row.Cell(1).Kind)
	assert.Equal(t, "2025-07-04", row.Cell(1).Time.Format("2006-01-02"))

	assert.Equal(t, types.CellText, row.Cell(2).Kind)
	assert.Equal(t, "Smith & Co.", row.Cell(3).Text)

	assert.Equal(t, types.CellNumber, row.Cell(4).Kind)
	assert.Equal(t, 1500.25, row.Cell(4).Number)
}

func TestParse_BlankRowsKeepSheetNumbers(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		nil,
		{"S.No.", "Date", "DrLedger", "CrLedger", "Amount", "VoucherNumber"},
		{"1", "01/04/2025", "Cash", "Sales", "10", "A"},
		nil,
		{"2", "02/04/2025", "Bank", "Sales", "20"},
	})

	table, err := Parse(path)
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, 3, table.Rows[0].Number)
	assert.Equal(t, 5, table.Rows[1].Number)
	assert.True(t, table.Rows[1].Cell(5).IsBlank(), "short rows read as blank")
}

func TestParse_HeaderOnly(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"S.No.", "Date", "DrLedger", "CrLedger", "Amount", "VoucherNumber"},
	})

	table, err := Parse(path)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestParse_BlankHeaderNamed(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"S.No.", "", "Amount"},
		{"1", "x", "2"},
	})

	table, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"S.No.", "Column_2", "Amount"}, table.Headers)
}

func TestParse_BooleanIsText(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Flag"},
		{true},
	})

	table, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, types.TextCell("TRUE"), table.Rows[0].Cell(0))
}

func TestParse_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip file"), 0644))

	_, err := Parse(path)

	var readErr *types.ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, path, readErr.Path)
	assert.False(t, errors.Is(err, utils.ErrFileLocked))
}

func TestParse_LockedWhileReading(t *testing.T) {
	lockErr := &fs.PathError{Op: "read", Path: "journal.xlsx", Err: fs.ErrPermission}

	_, err := parseFrom("journal.xlsx", iotest.ErrReader(lockErr))

	assert.ErrorIs(t, err, utils.ErrFileLocked)
	var readErr *types.ReadError
	assert.False(t, errors.As(err, &readErr))
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"))

	var readErr *types.ReadError
	require.True(t, errors.As(err, &readErr))
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"dd/mm/yyyy", true},
		{"d-mmm-yy", true},
		{"mmm yyyy", true},
		{"mm", true},
		{"h:mm", false},
		{"mm:ss", false},
		{"#,##0.00", false},
		{`0.00 "Dr"`, false},
		{"[Red]#,##0", false},
		{"[$-409]d mmmm yyyy", true},
		{"General", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, isDateFormatCode(tt.code), "code %q", tt.code)
	}
}

func TestIsBuiltInDateFormat(t *testing.T) {
	assert.True(t, isBuiltInDateFormat(14))
	assert.True(t, isBuiltInDateFormat(22))
	assert.False(t, isBuiltInDateFormat(0))
	assert.False(t, isBuiltInDateFormat(4))
	assert.False(t, isBuiltInDateFormat(49))
}

func TestWriteTemplate_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, WriteTemplate(path))

	table, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, VouchersSheet, table.SheetName)
	assert.Len(t, table.Headers, len(TemplateHeaders))
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	assert.Equal(t, types.CellDate, row.Cell(1).Kind)
	assert.Equal(t, "2025-04-01", row.Cell(1).Time.Format("2006-01-02"))
	assert.Equal(t, types.CellNumber, row.Cell(4).Kind)
	assert.Equal(t, float64(1500), row.Cell(4).Number)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{VouchersSheet, "Instructions"}, f.GetSheetList())
}
