// =============================================================================
// Excel to Tally XML - Configuration Module
// =============================================================================
//
// This module handles loading and validating the converter configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. config.yaml (optional; path set with --config)
//   2. .env file in the working directory (optional)
//   3. Environment variables TALLY_INPUT_PATH, TALLY_OUTPUT_DIR, TALLY_LOG_LEVEL
//   4. Command-line flags and interactive prompts (applied by the cmd package)
//
// EXAMPLE config.yaml:
//
//   input_path: "C:/Accounts/journal.xlsx"
//   output_dir: "C:/Accounts/tally"
//   log_level: info
//   csv_settings:
//     delimiter: ","
//   column_aliases:
//     "Particulars (Dr)": drledger
//     "Particulars (Cr)": crledger
//   xml:
//     indent: "  "
//     include_declaration: false
//
// The pipeline only depends on the Config struct, never on where its values
// came from.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/types"
	"github.com/ginjaninja78/excel-to-tally-xml/pkg/utils"
)

const (
	// DefaultConfigFile is read when --config is not given. It may be absent.
	DefaultConfigFile = "config.yaml"

	// DefaultOutputFile is the name of the generated import file.
	DefaultOutputFile = "Tally_Import.xml"

	// EnvFile is the optional dotenv file loaded from the working directory.
	EnvFile = ".env"
)

// Environment variable names.
const (
	EnvInputPath = "TALLY_INPUT_PATH"
	EnvOutputDir = "TALLY_OUTPUT_DIR"
	EnvLogLevel  = "TALLY_LOG_LEVEL"
)

// Input-location errors. Callers match them with errors.Is.
var (
	ErrInputNotFound     = errors.New("input file not found")
	ErrUnsupportedFormat = errors.New("unsupported input file format")
	ErrOutputDirNotFound = errors.New("output folder not found")
)

// SupportedExtensions lists the input file extensions that can be read.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm", ".csv"}

var logLevels = []string{"debug", "info", "warn", "error", "fatal"}

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds everything one conversion run needs.
type Config struct {
	// InputPath is the spreadsheet to convert.
	InputPath string `yaml:"input_path"`

	// OutputDir is the folder Tally_Import.xml is written to.
	OutputDir string `yaml:"output_dir"`

	// OutputFile is the name of the generated file.
	// Default: "Tally_Import.xml"
	OutputFile string `yaml:"output_file"`

	// LogLevel is one of debug, info, warn, error.
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// CSVSettings apply when the input is a .csv file.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// ColumnAliases maps extra header labels to canonical field names,
	// e.g. "Particulars (Dr)": drledger.
	ColumnAliases map[string]string `yaml:"column_aliases"`

	// XML controls the layout of the generated document.
	XML XMLSettings `yaml:"xml"`
}

// CSVSettings contains settings for parsing CSV input.
type CSVSettings struct {
	// Delimiter is the field separator.
	// Common values: "," (comma), ";" (semicolon), "tab", "|" (pipe)
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// XMLSettings contains settings for the generated XML.
type XMLSettings struct {
	// Indent is the indentation string.
	// Default: two spaces
	Indent string `yaml:"indent"`

	// IncludeDeclaration writes <?xml ...?> before the envelope.
	IncludeDeclaration bool `yaml:"include_declaration"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration file, applies environment overrides and
// defaults, and checks the settings that do not depend on the filesystem.
//
// PARAMETERS:
//   - configPath: The path to the YAML file. Empty means DefaultConfigFile.
//   - required: When false a missing file is not an error.
//
// RETURNS:
//   - A pointer to the Config.
//   - An error if the file cannot be read or parsed, or a setting is invalid.
func Load(configPath string, required bool) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigFile
	}

	config := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// No config file; environment and flags only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := loadEnvFile(EnvFile); err != nil {
		return nil, err
	}
	applyEnv(config)
	applyDefaults(config)

	if err := validateSettings(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadEnvFile loads a dotenv file into the process environment without
// overriding variables that are already set.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// applyEnv overrides file values with non-empty environment variables.
func applyEnv(config *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvInputPath)); v != "" {
		config.InputPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		config.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		config.LogLevel = v
	}
}

// applyDefaults sets default values for any unspecified configuration options.
func applyDefaults(config *Config) {
	if config.OutputFile == "" {
		config.OutputFile = DefaultOutputFile
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	config.LogLevel = strings.ToLower(config.LogLevel)
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.XML.Indent == "" {
		config.XML.Indent = "  "
	}
}

// validateSettings checks settings that are known at load time.
func validateSettings(config *Config) error {
	if !contains(logLevels, config.LogLevel) {
		return fmt.Errorf("log_level %q is not one of %s", config.LogLevel, strings.Join(logLevels, ", "))
	}

	if strings.ContainsAny(config.OutputFile, `/\`) {
		return fmt.Errorf("output_file %q must be a file name, not a path", config.OutputFile)
	}

	for alias, field := range config.ColumnAliases {
		if !types.IsCanonicalField(field) {
			return fmt.Errorf("column alias %q maps to unknown field %q (expected one of %s)",
				alias, field, strings.Join(types.CanonicalFields, ", "))
		}
	}

	return nil
}

// =============================================================================
// INPUT LOCATION VALIDATION
// =============================================================================

// Validate checks the input file and output folder. It is called once the
// paths are final, after flags and prompts have been applied.
//
// RETURNS:
//   - ErrInputNotFound, ErrUnsupportedFormat or ErrOutputDirNotFound, wrapped
//     with the offending path.
func (c *Config) Validate() error {
	if err := c.ValidateInput(); err != nil {
		return err
	}
	return c.ValidateOutput()
}

// ValidateInput checks that the input file exists and has a supported
// extension.
func (c *Config) ValidateInput() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: no input file given", ErrInputNotFound)
	}
	if !utils.FileExists(c.InputPath) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, c.InputPath)
	}
	if !IsSupported(c.InputPath) {
		return fmt.Errorf("%w: %s (expected one of %s)",
			ErrUnsupportedFormat, filepath.Base(c.InputPath), strings.Join(SupportedExtensions, ", "))
	}
	return nil
}

// ValidateOutput checks that the output folder exists.
func (c *Config) ValidateOutput() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: no output folder given", ErrOutputDirNotFound)
	}
	if !utils.DirExists(c.OutputDir) {
		return fmt.Errorf("%w: %s", ErrOutputDirNotFound, c.OutputDir)
	}

	return nil
}

// OutputPath returns the full path of the file that will be written.
func (c *Config) OutputPath() string {
	return filepath.Join(c.OutputDir, c.OutputFile)
}

// IsSupported reports whether path has a readable spreadsheet extension.
func IsSupported(path string) bool {
	return contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

// IsCSV reports whether path is a CSV file.
func IsCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
