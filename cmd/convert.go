// =============================================================================
// Excel to Tally XML - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, the main command for turning a
// journal spreadsheet into Tally_Import.xml.
//
// COMMAND USAGE:
//   tallyimport convert [flags]
//
// FLAGS:
//   -i, --input       : Path to the .xlsx (or .csv) file
//   -o, --output-dir  : Folder Tally_Import.xml is written to
//   --no-wait         : Do not wait for Enter before exiting
//
// WHERE VALUES COME FROM (first one set wins):
//   1. Flags
//   2. TALLY_INPUT_PATH / TALLY_OUTPUT_DIR (environment or .env)
//   3. config.yaml
//   4. Interactive prompt
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/config"
	"github.com/ginjaninja78/excel-to-tally-xml/internal/converter"
	"github.com/ginjaninja78/excel-to-tally-xml/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// inputPath is the spreadsheet to convert.
var inputPath string

// outputDir is the folder the XML file is written to.
var outputDir string

// noWait skips the "Press Enter to exit" pause.
var noWait bool

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a journal spreadsheet to Tally_Import.xml",
	Long: `The convert command reads the first sheet of the workbook, checks the
header row and every data row, and writes one Journal voucher per row to
Tally_Import.xml in the output folder.

Nothing is written if any row is invalid. The error names the row by its
S. No. (or its sheet row number when S. No. is blank) and the problem found.

An existing Tally_Import.xml in the output folder is replaced.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, false)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(convertCmd)
	addRunFlags(convertCmd)
}

// addRunFlags registers the flags shared by the commands that run the
// pipeline.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the Excel (.xlsx) or CSV file")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Folder to write Tally_Import.xml to")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Exit without waiting for Enter")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert resolves the input and output locations and runs the pipeline.
// When dryRun is true everything is checked but no file is written.
func runConvert(cmd *cobra.Command, dryRun bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected error: %v", r)
		}
	}()

	out := cmd.OutOrStdout()
	pauseOnExit = !noWait && isInteractive()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if inputPath != "" {
		cfg.InputPath = utils.CleanPathInput(inputPath)
	}
	if outputDir != "" {
		cfg.OutputDir = utils.CleanPathInput(outputDir)
	}

	// =========================================================================
	// STEP 2: ASK FOR ANYTHING STILL MISSING
	// =========================================================================

	if err := promptMissing(cfg, cmd.InOrStdin(), out, dryRun); err != nil {
		return err
	}

	if dryRun && cfg.OutputDir == "" {
		// Nothing is written, so any existing folder will do.
		cfg.OutputDir = "."
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: RUN THE PIPELINE
	// =========================================================================

	logger := newLogger(cfg.LogLevel)
	logger.Debug("Resolved configuration", "input", cfg.InputPath, "output_dir", cfg.OutputDir, "config", cfgFile)

	result := converter.New(cfg, logger).
		WithOptions(converter.Options{DryRun: dryRun}).
		Run()
	if !result.Success {
		return result.Error
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintf(out, "Validation complete. %d vouchers processed.\n", result.Stats.VouchersWritten)
	if dryRun {
		fmt.Fprintln(out, "Dry run: no file was written.")
	} else {
		fmt.Fprintf(out, "Tally XML written to %s\n", result.OutputFile)
	}
	logger.Debug("Run finished", "total_amount", result.Stats.TotalAmount.StringFixed(2), "elapsed", result.Stats.ProcessingTime)

	return nil
}

// promptMissing asks for the input file and output folder when no flag,
// environment variable or config value supplied them.
func promptMissing(cfg *config.Config, in io.Reader, out io.Writer, dryRun bool) error {
	if cfg.InputPath != "" && (cfg.OutputDir != "" || dryRun) {
		return nil
	}

	p := newPrompter(in, out)

	if cfg.InputPath == "" {
		path, err := p.askPath("Please enter the full path to your Excel file: ")
		if err != nil {
			return err
		}
		cfg.InputPath = path
	}

	// Report a mistyped file before asking the second question.
	if err := cfg.ValidateInput(); err != nil {
		return err
	}

	if cfg.OutputDir == "" && !dryRun {
		dir, err := p.askPath("Please enter the full path for the output XML folder: ")
		if err != nil {
			return err
		}
		cfg.OutputDir = dir
	}

	return nil
}
