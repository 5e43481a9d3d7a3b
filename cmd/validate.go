// =============================================================================
// Excel to Tally XML - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which runs every check the
// convert command does but writes no XML.
//
// COMMAND USAGE:
//   tallyimport validate -i journal.xlsx
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

// validateCmd runs every check 'convert' does without writing the output.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a journal spreadsheet without writing any file",
	Long: `The validate command reads and checks the spreadsheet exactly like convert
and reports how many vouchers it would produce, but writes nothing.

--output-dir is optional here; when given it must be an existing folder.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, true)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addRunFlags(validateCmd)
}
