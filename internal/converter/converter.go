// =============================================================================
// Excel to Tally XML - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It runs the whole pipeline
// for one input file, from reading the sheet to writing Tally_Import.xml.
//
// CONVERSION PIPELINE:
//   1. Check the input file and output folder
//   2. Read the first sheet (xlsx) or the CSV export
//   3. Normalize the header row and check the required columns
//   4. Validate every row (stops at the first bad row)
//   5. Build one journal voucher per row
//   6. Generate the XML document
//   7. Write the output file (skipped in dry-run mode)
//
// ALL OR NOTHING:
//   Any failure ends the run before step 7, so the output folder is never
//   touched unless every row validated.
//
// =============================================================================

package converter

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/config"
	"github.com/ginjaninja78/excel-to-tally-xml/internal/csvparser"
	"github.com/ginjaninja78/excel-to-tally-xml/internal/types"
	"github.com/ginjaninja78/excel-to-tally-xml/internal/validation"
	"github.com/ginjaninja78/excel-to-tally-xml/internal/xlsxparser"
	"github.com/ginjaninja78/excel-to-tally-xml/internal/xmlwriter"
	"github.com/ginjaninja78/excel-to-tally-xml/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one conversion run.
type Result struct {
	// RunID identifies the run in log output.
	RunID string

	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated XML file.
	// This is empty if processing failed or the run was a dry run.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	// This is nil if processing was successful.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of non-empty data rows in the input.
	RowsRead int

	// VouchersWritten is the number of vouchers in the generated XML.
	VouchersWritten int

	// TotalAmount is the sum of all voucher amounts.
	TotalAmount decimal.Decimal

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options changes how a run behaves.
type Options struct {
	// DryRun validates everything and generates the XML in memory, but does
	// not write the output file.
	DryRun bool
}

// Converter runs the conversion pipeline for one input file.
type Converter struct {
	cfg     *config.Config
	options Options
	logger  Logger
}

// Logger is the logging interface used by the converter. It matches the
// structured methods of *log.Logger from charmbracelet/log.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - cfg: The resolved configuration (input path and output folder set).
//   - logger: The logger to use. nil means the charmbracelet default logger.
//
// RETURNS:
//   - A new Converter instance.
func New(cfg *config.Config, logger Logger) *Converter {
	if logger == nil {
		logger = log.Default()
	}
	return &Converter{
		cfg:    cfg,
		logger: logger,
	}
}

// WithOptions returns the converter with the given options set.
func (c *Converter) WithOptions(options Options) *Converter {
	c.options = options
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing. Result.Error
//     keeps the typed error from the failing stage, so callers can use
//     errors.Is and errors.As on it.
func (c *Converter) Run() (result Result) {
	startTime := time.Now()
	result = Result{
		RunID:    uuid.NewString(),
		FilePath: c.cfg.InputPath,
	}
	logger := c.withRun(result.RunID)

	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	// =========================================================================
	// STEP 1: CHECK INPUT AND OUTPUT LOCATIONS
	// =========================================================================

	if err := c.cfg.Validate(); err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 2: READ INPUT
	// =========================================================================

	logger.Info("Reading input file", "file", c.cfg.InputPath)

	table, err := c.loadTable()
	if err != nil {
		result.Error = err
		return result
	}

	result.Stats.RowsRead = len(table.Rows)
	logger.Debug("Read sheet", "sheet", table.SheetName, "columns", len(table.Headers), "rows", len(table.Rows))

	// =========================================================================
	// STEPS 3-4: NORMALIZE HEADERS AND VALIDATE ROWS
	// =========================================================================

	names := validation.DefaultColumnNames().With(c.cfg.ColumnAliases)
	rows, err := validation.NewValidator(names).Validate(table)
	if err != nil {
		result.Error = err
		return result
	}

	logger.Info("Validation complete", "vouchers", len(rows))

	// =========================================================================
	// STEP 5: BUILD VOUCHERS
	// =========================================================================

	vouchers := NewVouchers(rows)
	for _, row := range rows {
		result.Stats.TotalAmount = result.Stats.TotalAmount.Add(row.Amount)
	}

	// =========================================================================
	// STEP 6: GENERATE XML DOCUMENT
	// =========================================================================

	xmlDoc, err := xmlwriter.GenerateWithOptions(vouchers, xmlwriter.GenerateOptions{
		Indent:                c.cfg.XML.Indent,
		IncludeXMLDeclaration: c.cfg.XML.IncludeDeclaration,
		ReportName:            xmlwriter.DefaultGenerateOptions().ReportName,
	})
	if err != nil {
		result.Error = fmt.Errorf("failed to generate XML: %w", err)
		return result
	}

	logger.Debug("Generated XML document", "bytes", len(xmlDoc))

	// =========================================================================
	// STEP 7: WRITE OUTPUT FILE
	// =========================================================================

	if c.options.DryRun {
		logger.Info("Dry run, output not written", "would_write", c.cfg.OutputPath())
		result.Stats.VouchersWritten = len(vouchers)
		result.Success = true
		return result
	}

	outputPath, err := utils.WriteFileAtomic(c.cfg.OutputDir, c.cfg.OutputFile, xmlDoc)
	if err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}

	logger.Info("Wrote output", "file", outputPath)

	result.OutputFile = outputPath
	result.Stats.VouchersWritten = len(vouchers)
	result.Success = true

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadTable reads the input with the parser matching its extension.
func (c *Converter) loadTable() (*types.RawTable, error) {
	if config.IsCSV(c.cfg.InputPath) {
		return csvparser.Parse(c.cfg.InputPath, c.cfg.CSVSettings)
	}
	c.logger.Debug("Only the first sheet of the workbook is read")
	return xlsxparser.Parse(c.cfg.InputPath)
}

// withRun tags log lines with the run ID when the logger supports it.
func (c *Converter) withRun(runID string) Logger {
	if l, ok := c.logger.(*log.Logger); ok {
		return l.With("run", runID[:8])
	}
	return c.logger
}
