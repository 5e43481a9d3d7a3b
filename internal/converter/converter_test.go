package converter

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/config"
	"github.com/ginjaninja78/excel-to-tally-xml/internal/validation"
)

var journalHeader = []interface{}{"S. No.", "Date", "Dr Ledger", "Cr Ledger", "Amount", "Narration", "Voucher Number"}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeJournal(t *testing.T, dir string, rows ...[]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(dir, "journal.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func newConfig(input, outputDir string) *config.Config {
	return &config.Config{
		InputPath:   input,
		OutputDir:   outputDir,
		OutputFile:  config.DefaultOutputFile,
		LogLevel:    "info",
		CSVSettings: config.CSVSettings{Delimiter: ","},
		XML:         config.XMLSettings{Indent: "  "},
	}
}

func outputFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".xml") || strings.HasSuffix(e.Name(), ".tmp") {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestRun_Workbook(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	input := writeJournal(t, inDir,
		journalHeader,
		[]interface{}{1, "01/04/2025", "Rent", "Cash", 1500, "April rent", "JV-1"},
		[]interface{}{2, "02/04/2025", "Office Supplies", "Bank", "249.5", "Paper & ink", ""},
		[]interface{}{3, "03/04/2025", "Travel", "Cash", 80.25, "", "JV-3"},
	)

	result := New(newConfig(input, outDir), testLogger()).Run()

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, filepath.Join(outDir, "Tally_Import.xml"), result.OutputFile)
	assert.Equal(t, 3, result.Stats.RowsRead)
	assert.Equal(t, 3, result.Stats.VouchersWritten)
	assert.Equal(t, "1829.75", result.Stats.TotalAmount.StringFixed(2))

	data, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	doc := string(data)

	assert.Equal(t, 3, strings.Count(doc, "<TALLYMESSAGE>"))
	assert.Contains(t, doc, "<DATE>20250401</DATE>")
	assert.Contains(t, doc, "<DATE>20250402</DATE>")
	assert.Contains(t, doc, "<AMOUNT>-1500.00</AMOUNT>")
	assert.Contains(t, doc, "<AMOUNT>1500.00</AMOUNT>")
	assert.Contains(t, doc, "<AMOUNT>-249.50</AMOUNT>")
	assert.Contains(t, doc, "<NARRATION>Paper &amp; ink</NARRATION>")
	assert.Contains(t, doc, "<VOUCHERNUMBER></VOUCHERNUMBER>")

	assert.Equal(t, []string{"Tally_Import.xml"}, outputFiles(t, outDir))
}

func TestRun_OverwritesPreviousOutput(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	existing := filepath.Join(outDir, "Tally_Import.xml")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0644))

	input := writeJournal(t, inDir,
		journalHeader,
		[]interface{}{1, "01/04/2025", "Rent", "Cash", 10, "", "JV-1"},
	)

	result := New(newConfig(input, outDir), testLogger()).Run()
	require.NoError(t, result.Error)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<ENVELOPE>")
}

func TestRun_FailureWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		rows  [][]interface{}
		check func(t *testing.T, err error)
	}{
		{
			name: "blank credit ledger",
			rows: [][]interface{}{
				journalHeader,
				{1, "01/04/2025", "Rent", "Cash", 10, "", "JV-1"},
				{2, "01/04/2025", "Rent", "Cash", 10, "", "JV-2"},
				{3, "01/04/2025", "Rent", "", 10, "", "JV-3"},
			},
			check: func(t *testing.T, err error) {
				var rowErr *validation.RowError
				require.ErrorAs(t, err, &rowErr)
				assert.Equal(t, "3", rowErr.Label)
				assert.Equal(t, "crledger", rowErr.Column)
			},
		},
		{
			name: "missing amount column",
			rows: [][]interface{}{
				{"S. No.", "Date", "Dr Ledger", "Cr Ledger", "Narration", "Voucher Number"},
				{1, "01/04/2025", "Rent", "Cash", "", "JV-1"},
			},
			check: func(t *testing.T, err error) {
				var missing *validation.MissingColumnsError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, []string{"amount"}, missing.Missing)
			},
		},
		{
			name: "header only",
			rows: [][]interface{}{journalHeader},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, validation.ErrNoData)
			},
		},
		{
			name: "invalid amount",
			rows: [][]interface{}{
				journalHeader,
				{1, "01/04/2025", "Rent", "Cash", "ten", "", "JV-1"},
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "invalid amount 'ten'")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inDir, outDir := t.TempDir(), t.TempDir()
			input := writeJournal(t, inDir, tt.rows...)

			result := New(newConfig(input, outDir), testLogger()).Run()

			require.Error(t, result.Error)
			assert.False(t, result.Success)
			assert.Empty(t, result.OutputFile)
			tt.check(t, result.Error)
			assert.Empty(t, outputFiles(t, outDir))
		})
	}
}

func TestRun_DryRun(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	input := writeJournal(t, inDir,
		journalHeader,
		[]interface{}{1, "01/04/2025", "Rent", "Cash", 1500, "", "JV-1"},
	)

	result := New(newConfig(input, outDir), testLogger()).WithOptions(Options{DryRun: true}).Run()

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Empty(t, result.OutputFile)
	assert.Equal(t, 1, result.Stats.VouchersWritten)
	assert.Empty(t, outputFiles(t, outDir))
}

func TestRun_CSV(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	input := filepath.Join(inDir, "journal.csv")
	content := "Sl No;Voucher Date;Debit Account;Credit Account;Amt;Remarks;Vch No\n" +
		"1;15/05/2025;Salaries;Bank;45000;May payroll;PAY-05\n"
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))

	cfg := newConfig(input, outDir)
	cfg.CSVSettings.Delimiter = ";"

	result := New(cfg, testLogger()).Run()
	require.NoError(t, result.Error)

	data, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<DATE>20250515</DATE>")
	assert.Contains(t, string(data), "<LEDGERNAME>Salaries</LEDGERNAME>")
	assert.Contains(t, string(data), "<AMOUNT>-45000.00</AMOUNT>")
	assert.Contains(t, string(data), "<VOUCHERNUMBER>PAY-05</VOUCHERNUMBER>")
}

func TestRun_ColumnAliases(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	input := writeJournal(t, inDir,
		[]interface{}{"S. No.", "Date", "Particulars (Dr)", "Particulars (Cr)", "Amount", "Narration", "Voucher Number"},
		[]interface{}{1, "01/04/2025", "Rent", "Cash", 10, "", "JV-1"},
	)

	cfg := newConfig(input, outDir)
	cfg.ColumnAliases = map[string]string{
		"Particulars (Dr)": "drledger",
		"Particulars (Cr)": "crledger",
	}

	result := New(cfg, testLogger()).Run()
	require.NoError(t, result.Error)
	assert.Equal(t, 1, result.Stats.VouchersWritten)
}

func TestRun_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeJournal(t, dir, journalHeader)
	txt := filepath.Join(dir, "journal.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))

	tests := []struct {
		name     string
		cfg      *config.Config
		expected error
	}{
		{"missing input", newConfig(filepath.Join(dir, "nope.xlsx"), dir), config.ErrInputNotFound},
		{"unsupported input", newConfig(txt, dir), config.ErrUnsupportedFormat},
		{"missing output folder", newConfig(input, filepath.Join(dir, "out")), config.ErrOutputDirNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(tt.cfg, testLogger()).Run()
			assert.False(t, result.Success)
			assert.True(t, errors.Is(result.Error, tt.expected))
		})
	}
}

func TestNew_DefaultLogger(t *testing.T) {
	c := New(newConfig("", ""), nil)
	assert.NotNil(t, c.logger)
}
