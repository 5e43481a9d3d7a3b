// =============================================================================
// Excel to Tally XML - Template Command
// =============================================================================
//
// This file defines the 'template' command, which writes a blank import
// workbook with the expected headers.
//
// COMMAND USAGE:
//   tallyimport template [--output Tally_Import_Template.xlsx]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/xlsxparser"
	"github.com/ginjaninja78/excel-to-tally-xml/pkg/utils"
)

// templateOutput is where the blank workbook is written.
var templateOutput string

// templateCmd writes a blank import workbook.
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a blank import workbook",
	Long: `The template command writes an .xlsx file with the expected header row,
one example voucher row and an Instructions sheet. Fill in the Vouchers sheet
and pass the file to 'tallyimport convert'.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		path := utils.CleanPathInput(templateOutput)
		if err := xlsxparser.WriteTemplate(path); err != nil {
			return fmt.Errorf("failed to write template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringVar(
		&templateOutput,
		"output",
		"Tally_Import_Template.xlsx",
		"Path of the workbook to create",
	)
}
