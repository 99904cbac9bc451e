// =============================================================================
// Transcript Parser - Configuration Module
// =============================================================================
//
// This module loads the application configuration. A single file controls
// where batch inputs are found, which export formats are written, how text
// is extracted, and how parser warnings are treated.
//
// CONFIGURATION FILE:
//   config.yaml (or config.yml / config.toml). The format is picked from the
//   extension. When the default path does not exist the built-in defaults
//   are used, so the tool runs without any setup.
//
// LOAD ORDER:
//   1. Start from DefaultMainConfig()
//   2. Overlay the file contents
//   3. Fill any value the file blanked out (applyMainConfigDefaults)
//   4. Validate, creating missing directories (validateMainConfig)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no --config flag is given.
const DefaultConfigPath = "config.yaml"

// Output formats accepted in OutputFormats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Text encodings accepted in extraction.encoding.
const (
	EncodingUTF8        = "UTF-8"
	EncodingISO88591    = "ISO-8859-1"
	EncodingWindows1252 = "Windows-1252"
)

// encodingAliases maps normalized spellings to the Encoding* constants.
var encodingAliases = map[string]string{
	"":             EncodingUTF8,
	"UTF-8":        EncodingUTF8,
	"UTF8":         EncodingUTF8,
	"ISO-8859-1":   EncodingISO88591,
	"LATIN1":       EncodingISO88591,
	"LATIN-1":      EncodingISO88591,
	"WINDOWS-1252": EncodingWindows1252,
	"CP1252":       EncodingWindows1252,
}

// AllEncodings lists the canonical encoding names.
func AllEncodings() []string {
	return []string{EncodingUTF8, EncodingISO88591, EncodingWindows1252}
}

// CanonicalEncoding maps an encoding name or alias (case-insensitive, "_"
// and "-" interchangeable) to one of the Encoding* constants. The empty
// name is UTF-8.
func CanonicalEncoding(name string) (string, bool) {
	canonical, ok := encodingAliases[strings.ToUpper(strings.ReplaceAll(name, "_", "-"))]
	return canonical, ok
}

// AllOutputFormats lists every export format in a stable order.
func AllOutputFormats() []string {
	return []string{FormatJSON, FormatYAML, FormatXML, FormatXLSX, FormatCSV}
}

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for transcripts when parse is run without files.
	// Default: "./input"
	InputDir string `yaml:"input_dir" toml:"input_dir"`

	// OutputDir receives the exported documents.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	// InputArchiveDir receives inputs after a successful parse when
	// ArchiveProcessed is set.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" toml:"input_archive_dir"`

	// OutputArchiveDir receives copies of the exports when ArchiveProcessed
	// is set.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir" toml:"output_archive_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile, when set, receives a copy of the log in JSON form.
	// Default: "" (stderr only)
	LogFile string `yaml:"log_file" toml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// LogFormat is "console" or "json".
	// Default: "console"
	LogFormat string `yaml:"log_format" toml:"log_format"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormats lists the exports written for every parsed file.
	// Valid values: "json", "yaml", "xml", "xlsx", "csv"
	// Default: ["json"]
	OutputFormats []string `yaml:"output_formats" toml:"output_formats"`

	// OutputNameFormat defines the base name of export files. The format's
	// extension is appended. When any file for the base name already exists
	// in the output directory, "_1", "_2", ... is added to the base name.
	// Placeholders:
	//   {uuid}       - A random UUID
	//   {timestamp}  - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}       - Current date (YYYYMMDD)
	//   {time}       - Current time (HHMMSS)
	//   {original}   - Input file name without extension
	//   {student_id} - Parsed student ID, or "unknown"
	//
	// Default: "{original}_{timestamp}"
	OutputNameFormat string `yaml:"output_name_format" toml:"output_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files parsed at once.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" toml:"max_concurrency"`

	// ContinueOnError keeps a batch going after a file fails.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error" toml:"continue_on_error"`

	// ArchiveProcessed moves inputs and copies outputs to the archive
	// directories after a successful parse.
	// Default: false
	ArchiveProcessed bool `yaml:"archive_processed" toml:"archive_processed"`

	// Extraction controls how text is read from input documents.
	Extraction ExtractionSettings `yaml:"extraction" toml:"extraction"`

	// Warnings controls how parser warnings affect the outcome.
	Warnings WarningSettings `yaml:"warnings" toml:"warnings"`
}

// =============================================================================
// EXTRACTION SETTINGS
// =============================================================================

// ExtractionSettings contains settings for reading input documents.
type ExtractionSettings struct {
	// Encoding of plain-text inputs.
	// Valid values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding" toml:"encoding"`

	// Extensions are matched (case-insensitively) during batch discovery.
	// Default: [".pdf", ".txt"]
	Extensions []string `yaml:"extensions" toml:"extensions"`

	// ExcludeHeaders drops repeated page headers from PDFs.
	ExcludeHeaders bool `yaml:"exclude_headers" toml:"exclude_headers"`

	// ExcludeFooters drops repeated page footers ("Page 1 of 3") from PDFs.
	ExcludeFooters bool `yaml:"exclude_footers" toml:"exclude_footers"`

	// MaxFileSize in bytes. Larger files fail extraction.
	// Default: 52428800 (50 MiB)
	MaxFileSize int64 `yaml:"max_file_size" toml:"max_file_size"`
}

// =============================================================================
// WARNING SETTINGS
// =============================================================================

// WarningSettings contains the policy for parser warnings.
type WarningSettings struct {
	// TreatWarningsAsErrors marks a file as failed when the parser raised
	// any warning. Exports are still written.
	// Default: false
	TreatWarningsAsErrors bool `yaml:"treat_warnings_as_errors" toml:"treat_warnings_as_errors"`

	// WriteWarningLog writes a per-file warning log next to the exports
	// when the parse produced warnings.
	// Default: true
	WriteWarningLog bool `yaml:"write_warning_log" toml:"write_warning_log"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// DefaultMainConfig returns the configuration used when no file is present.
func DefaultMainConfig() *MainConfig {
	config := &MainConfig{
		ContinueOnError: true,
		Warnings: WarningSettings{
			WriteWarningLog: true,
		},
	}
	applyMainConfigDefaults(config)
	return config
}

// LoadOption adjusts how a configuration is loaded.
type LoadOption func(*loadOptions)

type loadOptions struct {
	skipDirectories bool
}

// WithoutDirectories loads and validates the configuration without creating
// the input, output and archive directories. Read-only commands use it.
func WithoutDirectories() LoadOption {
	return func(o *loadOptions) { o.skipDirectories = true }
}

func newLoadOptions(opts []LoadOption) loadOptions {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LoadMainConfig loads the main configuration from a file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. YAML unless the
//     extension is ".toml".
//   - opts: Load options such as WithoutDirectories.
//
// RETURNS:
//   - A pointer to the loaded MainConfig.
//   - An error if the file cannot be read, parsed, or is invalid.
func LoadMainConfig(configPath string, opts ...LoadOption) (*MainConfig, error) {
	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so that booleans left out of the file keep their
	// default rather than becoming false.
	config := DefaultMainConfig()
	config.OutputFormats = nil
	config.Extraction.Extensions = nil

	if err := unmarshal(configPath, data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyMainConfigDefaults(config)

	// Validate the configuration.
	if err := validateMainConfig(config, newLoadOptions(opts)); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadOrDefault loads configPath, falling back to DefaultMainConfig when the
// path is the default one and does not exist. An explicitly named file must
// exist.
func LoadOrDefault(configPath string, opts ...LoadOption) (*MainConfig, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	_, err := os.Stat(configPath)
	if errors.Is(err, os.ErrNotExist) && configPath == DefaultConfigPath {
		config := DefaultMainConfig()
		if err := validateMainConfig(config, newLoadOptions(opts)); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return config, nil
	}

	return LoadMainConfig(configPath, opts...)
}

// unmarshal decodes data according to the file extension.
func unmarshal(path string, data []byte, config *MainConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, config)
	default:
		return yaml.Unmarshal(data, config)
	}
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if len(config.OutputFormats) == 0 {
		config.OutputFormats = []string{FormatJSON}
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{original}_{timestamp}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}

	// Extraction defaults.
	if config.Extraction.Encoding == "" {
		config.Extraction.Encoding = EncodingUTF8
	}
	if len(config.Extraction.Extensions) == 0 {
		config.Extraction.Extensions = []string{".pdf", ".txt"}
	}
	if config.Extraction.MaxFileSize == 0 {
		config.Extraction.MaxFileSize = 50 << 20
	}
}

// validateMainConfig validates the main configuration and, unless the
// options say otherwise, creates the directories the pipeline writes to.
func validateMainConfig(config *MainConfig, o loadOptions) error {
	if err := Validate(config); err != nil {
		return err
	}
	if o.skipDirectories {
		return nil
	}

	dirs := []string{
		config.InputDir,
		config.OutputDir,
	}
	if config.ArchiveProcessed {
		dirs = append(dirs, config.InputArchiveDir, config.OutputArchiveDir)
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// Validate checks the settings without touching the filesystem. All
// problems are reported together.
func Validate(config *MainConfig) error {
	var problems []string

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_level %q", config.LogLevel))
	}

	switch config.LogFormat {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_format %q", config.LogFormat))
	}

	for _, f := range config.OutputFormats {
		if !isOutputFormat(f) {
			problems = append(problems, fmt.Sprintf("unknown output format %q", f))
		}
	}

	if _, ok := CanonicalEncoding(config.Extraction.Encoding); !ok {
		problems = append(problems, fmt.Sprintf("unsupported encoding %q", config.Extraction.Encoding))
	}

	if config.MaxConcurrency < 1 {
		problems = append(problems, fmt.Sprintf("max_concurrency must be at least 1, got %d", config.MaxConcurrency))
	}
	if config.Extraction.MaxFileSize < 0 {
		problems = append(problems, "extraction.max_file_size must not be negative")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func isOutputFormat(f string) bool {
	for _, known := range AllOutputFormats() {
		if f == known {
			return true
		}
	}
	return false
}
