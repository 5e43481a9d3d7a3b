// =============================================================================
// Excel to Tally XML - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Excel to Tally XML CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   tallyimport             - Prompt for the file and output folder, then convert
//   tallyimport convert     - Convert a journal spreadsheet to Tally_Import.xml
//   tallyimport validate    - Check a spreadsheet without writing anything
//   tallyimport template    - Write a blank import workbook
//   tallyimport version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Cobra command definitions
//   - internal/      : Loading, validation, voucher building and XML output
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/excel-to-tally-xml/cmd"
)

func main() {
	cmd.Execute()
}
