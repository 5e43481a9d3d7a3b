// =============================================================================
// Excel to Tally XML - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to. Called without a
// subcommand it behaves like 'convert', so double-clicking the binary still
// walks the user through a conversion.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tallyimport)
//   ├── convertCmd  (tallyimport convert)
//   ├── validateCmd (tallyimport validate)
//   ├── templateCmd (tallyimport template)
//   └── versionCmd  (tallyimport version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration for the subcommands
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// pauseOnExit is set by commands that talk to a user at a console window, so
// the window stays open until they have read the result.
var pauseOnExit bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tallyimport",
	Short: "Excel to Tally XML - Convert journal entries from a spreadsheet to a Tally import file",
	Long: `Excel to Tally XML reads journal entries from the first sheet of an Excel
workbook (or a CSV export) and writes Tally_Import.xml, a voucher import file
for Tally.

Each row becomes one Journal voucher that debits the Dr Ledger and credits the
Cr Ledger with the row's amount. The file is only written when every row is
valid; the first problem found is reported and nothing is written.

Required columns: S. No., Date, Dr Ledger, Cr Ledger, Amount, Voucher Number
Optional columns: Narration

Example Usage:
  tallyimport                                   # Ask for the file and output folder
  tallyimport convert -i journal.xlsx -o ./out  # Convert without prompting
  tallyimport validate -i journal.xlsx          # Check the file, write nothing
  tallyimport template --output blank.xlsx      # Write a blank import workbook`,

	SilenceErrors: true,
	SilenceUsage:  true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, false)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	if pauseOnExit {
		waitForEnter(os.Stdin, os.Stdout)
	}

	if err != nil {
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init is called automatically when the package is loaded.
// It sets up the global flags.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	addRunFlags(rootCmd)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the configuration file. The default file may be missing;
// a file named with --config must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger creates the console logger for a run. --verbose wins over the
// configured level.
func newLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: verbose,
		Prefix:          "tallyimport",
	})
}
