// =============================================================================
// Excel to Tally XML - Import Template
// =============================================================================
//
// Builds the blank import workbook: a Vouchers sheet with the header row
// and one example voucher, plus an Instructions sheet.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// VouchersSheet is the name of the data sheet in a generated template.
const VouchersSheet = "Vouchers"

// TemplateHeaders is the header row written to a new import workbook.
var TemplateHeaders = []interface{}{
	"S.No.", "Date", "DrLedger", "CrLedger", "Amount", "Narration", "VoucherNumber",
}

var instructions = []string{
	"How to fill the Vouchers sheet",
	"",
	"1. Keep the header row. Column names are matched ignoring case, spaces and punctuation.",
	"2. One row is one journal voucher: DrLedger is debited and CrLedger is credited with Amount.",
	"3. S.No., Date, DrLedger, CrLedger and Amount are required in every row.",
	"4. VoucherNumber must be present as a column but may be left blank.",
	"5. Narration is optional.",
	"6. Dates are read day first: 04/07/2025 is 4 July 2025.",
	"7. Ledger names must match the ledgers in Tally exactly.",
	"8. Close this workbook in Excel before running the import.",
	"",
	"Only the first sheet of the workbook is imported. Keep Vouchers as the first sheet.",
}

// WriteTemplate creates a blank import workbook at path with the expected
// header row, one example voucher and an Instructions sheet.
func WriteTemplate(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", VouchersSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	dateFormat := "dd/mm/yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return err
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(VouchersSheet, "A1", &TemplateHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(VouchersSheet, "A1", "G1", headerStyle); err != nil {
		return err
	}

	example := []interface{}{
		1,
		time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		"Cash",
		"Sales",
		1500.00,
		"Being cash sales",
		"JV-001",
	}
	if err := f.SetSheetRow(VouchersSheet, "A2", &example); err != nil {
		return err
	}
	if err := f.SetCellStyle(VouchersSheet, "B2", "B2", dateStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(VouchersSheet, "E2", "E2", amountStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(VouchersSheet, "A", "G", 18); err != nil {
		return err
	}

	if _, err := f.NewSheet("Instructions"); err != nil {
		return err
	}
	for i, line := range instructions {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellValue("Instructions", cell, line); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle("Instructions", "A1", "A1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth("Instructions", "A", "A", 100); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}
