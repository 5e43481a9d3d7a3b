// =============================================================================
// Excel to Tally XML - CSV Parser Module
// =============================================================================
//
// This module reads a CSV export of the journal sheet into a RawTable, so a
// sheet saved as "CSV UTF-8" from Excel can be imported the same way as the
// workbook itself.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, tab, pipe)
//   - UTF-8 byte order mark on the first header is dropped
//   - Blank lines and rows with only empty fields are skipped
//   - Every row keeps the line number it started on
//
// CSV has no cell types, so every non-empty value becomes a Text cell and the
// validator parses dates and amounts from text.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/config"
	"github.com/ginjaninja78/excel-to-tally-xml/internal/types"
	"github.com/ginjaninja78/excel-to-tally-xml/pkg/utils"
)

const utf8BOM = "\uFEFF"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns it as a RawTable.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV settings from the configuration.
//
// RETURNS:
//   - A pointer to the RawTable.
//   - utils.ErrFileLocked (wrapped) if the file is open elsewhere.
//   - *types.ReadError for any other failure.
func Parse(filePath string, settings config.CSVSettings) (*types.RawTable, error) {
	file, err := utils.OpenForRead(filePath)
	if err != nil {
		if errors.Is(err, utils.ErrFileLocked) {
			return nil, err
		}
		return nil, &types.ReadError{Path: filePath, Err: err}
	}
	defer file.Close()

	return parseFrom(filePath, file, settings)
}

// parseFrom reads the CSV data from r. filePath is used in errors only.
func parseFrom(filePath string, r io.Reader, settings config.CSVSettings) (*types.RawTable, error) {
	table, err := parseReader(bufio.NewReader(r), settings)
	if err != nil {
		if locked := utils.LockedError(filePath, err); locked != nil {
			return nil, locked
		}
		return nil, &types.ReadError{Path: filePath, Err: err}
	}

	table.SourceFile = filePath
	return table, nil
}

// parseReader reads records from r until EOF.
func parseReader(r io.Reader, settings config.CSVSettings) (*types.RawTable, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	table := &types.RawTable{Rows: []types.Row{}}
	headerFound := false

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		if isRowEmpty(record) {
			continue
		}

		line, _ := csvReader.FieldPos(0)

		if !headerFound {
			record[0] = strings.TrimPrefix(record[0], utf8BOM)
			table.Headers = cleanHeaders(record)
			headerFound = true
			continue
		}

		values := make([]types.Cell, len(record))
		for i, value := range record {
			if strings.TrimSpace(value) == "" {
				values[i] = types.Cell{Kind: types.CellBlank}
				continue
			}
			values[i] = types.TextCell(value)
		}

		table.Rows = append(table.Rows, types.Row{Number: line, Values: values})
	}

	if !headerFound {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return table, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Excel writes short rows when trailing cells are empty.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cleanHeaders trims header values and names blank ones Column_N.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
