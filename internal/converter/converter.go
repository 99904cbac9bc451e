// =============================================================================
// Transcript Parser - Converter Module
// =============================================================================
//
// This module contains the pipeline for a single transcript. It takes a file
// from text extraction through parsing to the exported documents.
//
// CONVERSION PIPELINE:
//   1. Extract the text (PDF via tabula, or a decoded text export)
//   2. Scan the text into a TranscriptDocument
//   3. Audit the parser warnings
//   4. Encode and write every configured output format
//   5. Write the warning log (when there are warnings)
//   6. Archive the processed files
//
// FAILURE MODEL:
//   Only extraction and I/O fail a file. Parsing never fails: anomalies in
//   the transcript become warnings on the document, and the file finishes
//   as "ok_with_warnings" unless warnings are treated as errors.
//
// CONCURRENCY:
//   A Converter handles one file and holds no shared state, so the CLI runs
//   one per goroutine.
//
// =============================================================================

package converter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/transcript-parser/internal/config"
	"github.com/ginjaninja78/transcript-parser/internal/csvwriter"
	"github.com/ginjaninja78/transcript-parser/internal/extractor"
	"github.com/ginjaninja78/transcript-parser/internal/transcript"
	"github.com/ginjaninja78/transcript-parser/internal/types"
	"github.com/ginjaninja78/transcript-parser/internal/validation"
	"github.com/ginjaninja78/transcript-parser/internal/xlsxwriter"
	"github.com/ginjaninja78/transcript-parser/internal/xmlwriter"
	"github.com/ginjaninja78/transcript-parser/pkg/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Status is the outcome of one file.
type Status string

const (
	StatusOK           Status = "ok"
	StatusWithWarnings Status = "ok_with_warnings"
	StatusFailed       Status = "failed"
)

// ErrWarningsAsErrors is returned in Result.Error when the parser raised
// warnings and the configuration treats them as errors.
var ErrWarningsAsErrors = errors.New("parser warnings treated as errors")

// ErrUnknownFormat is returned by Encode for a format it cannot produce.
var ErrUnknownFormat = errors.New("unknown output format")

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// Status summarizes the outcome.
	Status Status

	// Document is the parsed transcript. It is nil only when extraction
	// failed.
	Document *types.TranscriptDocument

	// Audit classifies the document's warnings. Nil when Document is nil.
	Audit *validation.AuditResult

	// OutputFiles lists the written exports in format order.
	OutputFiles []string

	// WarningLog is the path of the warning log, if one was written.
	WarningLog string

	// ArchivePath is where the input was moved, if it was archived.
	ArchivePath string

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// Success reports whether the file did not fail.
func (r Result) Success() bool {
	return r.Status != StatusFailed
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// Lines is the number of normalized lines fed to the scanner.
	Lines int

	// Terms is the number of terms in the document.
	Terms int

	// Courses is the number of courses across all terms.
	Courses int

	// Warnings is the number of parser warnings.
	Warnings int

	// ExtractionWarnings is the number of non-fatal PDF reader warnings.
	ExtractionWarnings int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the pipeline for a single transcript file.
type Converter struct {
	// inputPath is the path to the transcript.
	inputPath string

	// mainConfig is the main application configuration.
	mainConfig *config.MainConfig

	// outputDir overrides mainConfig.OutputDir when set.
	outputDir string

	// formats overrides mainConfig.OutputFormats when set.
	formats []string

	// dryRun parses and audits but writes and archives nothing.
	dryRun bool

	// runID tags every log line of a batch.
	runID string

	logger zerolog.Logger
}

// Option customizes a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithOutputDir writes exports to dir instead of the configured directory.
func WithOutputDir(dir string) Option {
	return func(c *Converter) { c.outputDir = dir }
}

// WithFormats writes the given formats instead of the configured ones.
func WithFormats(formats []string) Option {
	return func(c *Converter) { c.formats = formats }
}

// WithDryRun disables every write.
func WithDryRun(dryRun bool) Option {
	return func(c *Converter) { c.dryRun = dryRun }
}

// WithRunID tags log lines with an existing batch id.
func WithRunID(id string) Option {
	return func(c *Converter) { c.runID = id }
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: The path to the transcript (.pdf or .txt).
//   - mainConfig: The main application configuration.
//   - options: Overrides for logging, output and dry-run behavior.
//
// RETURNS:
//   - A new Converter instance.
func New(inputPath string, mainConfig *config.MainConfig, options ...Option) *Converter {
	c := &Converter{
		inputPath:  inputPath,
		mainConfig: mainConfig,
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.runID == "" {
		c.runID = uuid.New().String()
	}
	c.logger = c.logger.With().
		Str("run_id", c.runID).
		Str("file", filepath.Base(inputPath)).
		Logger()
	return c
}

// OutputDir returns the directory exports are written to.
func (c *Converter) OutputDir() string {
	if c.outputDir != "" {
		return c.outputDir
	}
	return c.mainConfig.OutputDir
}

// Formats returns the formats that will be written, without repeats.
func (c *Converter) Formats() []string {
	formats := c.formats
	if len(formats) == 0 {
		formats = c.mainConfig.OutputFormats
	}

	seen := make(map[string]bool, len(formats))
	unique := make([]string, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			unique = append(unique, f)
		}
	}
	return unique
}

// =============================================================================
// PARSING
// =============================================================================

// Parse extracts and scans the file without writing anything.
//
// RETURNS:
//   - The parsed document.
//   - The extraction result (text source and PDF warnings).
//   - An *extractor.ExtractionError if the text could not be read.
func (c *Converter) Parse(ctx context.Context) (*types.TranscriptDocument, *extractor.Result, error) {
	extracted, err := extractor.New(c.mainConfig.Extraction, c.logger).Extract(ctx, c.inputPath)
	if err != nil {
		return nil, nil, err
	}

	c.logger.Debug().
		Str("source", extracted.Source).
		Int("bytes", len(extracted.Text)).
		Msg("extracted text")

	doc := transcript.NewScanner(c.logger).Parse(extracted.Text)
	return doc, extracted, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
//
// PROCESSING STEPS:
//   1. Extract and parse
//   2. Audit the warnings
//   3. Reserve a free base name and write every output format
//   4. Write the warning log under the same base name
//   5. Archive the processed files
func (c *Converter) Run(ctx context.Context) (result Result) {
	startTime := time.Now()
	result = Result{
		FilePath: c.inputPath,
		Status:   StatusFailed,
	}
	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	// =========================================================================
	// STEP 1: EXTRACT AND PARSE
	// =========================================================================

	c.logger.Info().Msg("processing file")

	doc, extracted, err := c.Parse(ctx)
	if err != nil {
		result.Error = err
		c.logger.Error().Err(err).Msg("extraction failed")
		return result
	}

	result.Document = doc
	result.Stats.Lines = len(transcript.NormalizeLines(extracted.Text))
	result.Stats.Terms = len(doc.Terms)
	result.Stats.Courses = doc.CourseCount()
	result.Stats.Warnings = len(doc.Raw.Warnings)
	result.Stats.ExtractionWarnings = extracted.ExtractionWarnings

	// =========================================================================
	// STEP 2: AUDIT WARNINGS
	// =========================================================================

	audit := validation.Audit(doc.Raw.Warnings, validation.Options{
		TreatWarningsAsErrors: c.mainConfig.Warnings.TreatWarningsAsErrors,
	})
	result.Audit = audit

	for _, issue := range audit.Issues {
		c.logger.Warn().
			Str("kind", string(issue.Kind)).
			Str("course", issue.Course).
			Msg(issue.Message)
	}

	// =========================================================================
	// STEP 3: WRITE OUTPUTS
	// =========================================================================

	if c.dryRun {
		c.logger.Info().Msg("dry run, nothing written")
	} else {
		writeLog := c.mainConfig.Warnings.WriteWarningLog && !audit.IsClean

		base, reserved, err := c.reserveBase(doc, writeLog)
		if err != nil {
			result.Error = err
			c.logger.Error().Err(err).Msg("failed to reserve output name")
			return result
		}

		outputs, err := c.writeOutputs(ctx, doc, base)
		result.OutputFiles = outputs
		if err != nil {
			utils.RemoveFiles(unwritten(reserved, outputs))
			result.Error = err
			c.logger.Error().Err(err).Msg("failed to write output")
			return result
		}

		// =====================================================================
		// STEP 4: WARNING LOG
		// =====================================================================

		if writeLog {
			logPath := filepath.Join(c.OutputDir(), base+warningLogSuffix)
			if err := validation.WriteWarningLog(audit, c.inputPath, logPath); err != nil {
				os.Remove(logPath)
				c.logger.Warn().Err(err).Msg("failed to write warning log")
			} else {
				result.WarningLog = logPath
			}
		}
	}

	// =========================================================================
	// STEP 5: STATUS AND ARCHIVAL
	// =========================================================================

	switch {
	case !audit.IsValid:
		result.Error = fmt.Errorf("%w: %d warnings", ErrWarningsAsErrors, audit.ErrorCount)
		c.logger.Error().Err(result.Error).Msg("file failed")
		return result
	case audit.IsClean:
		result.Status = StatusOK
	default:
		result.Status = StatusWithWarnings
	}

	if c.mainConfig.ArchiveProcessed && !c.dryRun {
		if err := c.archiveFiles(&result); err != nil {
			// Log the error but don't fail the processing.
			c.logger.Warn().Err(err).Msg("failed to archive files")
		}
	}

	c.logger.Info().
		Str("status", string(result.Status)).
		Int("terms", result.Stats.Terms).
		Int("courses", result.Stats.Courses).
		Int("warnings", result.Stats.Warnings).
		Msg("file complete")

	return result
}

// =============================================================================
// OUTPUT
// =============================================================================

// warningLogSuffix completes the warning log name from the export base name.
const warningLogSuffix = "_warnings.txt"

// reserveBase picks the base name shared by the exports and the warning log
// and claims every file under it. Existing files are never overwritten; a
// taken name gets a numeric suffix.
func (c *Converter) reserveBase(doc *types.TranscriptDocument, withWarningLog bool) (string, []string, error) {
	outputDir := c.OutputDir()
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	suffixes := make([]string, 0, len(c.Formats())+1)
	for _, format := range c.Formats() {
		suffixes = append(suffixes, "."+format)
	}
	if withWarningLog {
		suffixes = append(suffixes, warningLogSuffix)
	}

	preferred := c.baseName(doc)
	base, reserved, err := utils.ReserveOutputBase(outputDir, preferred, suffixes)
	if err != nil {
		return "", nil, fmt.Errorf("failed to reserve output files: %w", err)
	}
	if base != preferred {
		c.logger.Info().Str("wanted", preferred).Str("base", base).Msg("output name taken, using suffix")
	}
	return base, reserved, nil
}

// unwritten returns the reserved paths missing from written.
func unwritten(reserved, written []string) []string {
	done := make(map[string]bool, len(written))
	for _, path := range written {
		done[path] = true
	}

	var rest []string
	for _, path := range reserved {
		if !done[path] {
			rest = append(rest, path)
		}
	}
	return rest
}

// writeOutputs writes one file per format under base and returns the paths
// written, including those written before a failure.
func (c *Converter) writeOutputs(ctx context.Context, doc *types.TranscriptDocument, base string) ([]string, error) {
	outputDir := c.OutputDir()
	var written []string

	for _, format := range c.Formats() {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		outputPath := filepath.Join(outputDir, base+"."+format)

		if format == config.FormatXLSX {
			// excelize writes the workbook itself.
			if err := xlsxwriter.Write(outputPath, doc); err != nil {
				return written, fmt.Errorf("failed to write %s: %w", format, err)
			}
		} else {
			data, err := Encode(doc, format)
			if err != nil {
				return written, err
			}
			if err := os.WriteFile(outputPath, data, 0644); err != nil {
				return written, fmt.Errorf("failed to write %s: %w", format, err)
			}
		}

		c.logger.Debug().Str("format", format).Str("path", outputPath).Msg("wrote output")
		written = append(written, outputPath)
	}

	return written, nil
}

// baseName generates the preferred output base name from OutputNameFormat.
// Placeholders such as {uuid} and {timestamp} change between calls, so it is
// called once per run, from reserveBase.
func (c *Converter) baseName(doc *types.TranscriptDocument) string {
	original := strings.TrimSuffix(filepath.Base(c.inputPath), filepath.Ext(c.inputPath))

	studentID := types.StringValue(doc.Student.StudentID)
	if studentID == "" {
		studentID = "unknown"
	}

	return utils.GenerateOutputFileName(c.mainConfig.OutputNameFormat, "", map[string]string{
		"original":   original,
		"student_id": studentID,
	})
}

// Encode renders a document in the given format.
//
// PARAMETERS:
//   - doc: The parsed transcript.
//   - format: One of config.AllOutputFormats().
//
// RETURNS:
//   - The encoded bytes. "csv" yields the course table.
//   - ErrUnknownFormat for any other format.
func Encode(doc *types.TranscriptDocument, format string) ([]byte, error) {
	switch format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return append(data, '\n'), nil

	case config.FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return data, nil

	case config.FormatXML:
		return xmlwriter.Generate(doc)

	case config.FormatCSV:
		var sb strings.Builder
		if err := csvwriter.WriteCourses(&sb, doc); err != nil {
			return nil, fmt.Errorf("failed to encode csv: %w", err)
		}
		return []byte(sb.String()), nil

	case config.FormatXLSX:
		f, err := xlsxwriter.Build(doc)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err := f.WriteToBuffer()
		if err != nil {
			return nil, fmt.Errorf("failed to encode xlsx: %w", err)
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// =============================================================================
// ARCHIVAL
// =============================================================================

// archiveFiles moves the input and copies the exports to the archive
// directories.
//
// ARCHIVAL LOGIC:
//   - The input transcript is moved to the input archive directory.
//   - Each export is copied to the output archive directory.
func (c *Converter) archiveFiles(result *Result) error {
	fm := utils.NewFileManager(
		c.mainConfig.InputDir,
		c.OutputDir(),
		c.mainConfig.InputArchiveDir,
		c.mainConfig.OutputArchiveDir,
	)

	for _, output := range result.OutputFiles {
		if _, err := fm.ArchiveOutputFile(output); err != nil {
			return err
		}
	}

	archivePath, err := fm.ArchiveInputFile(c.inputPath)
	if err != nil {
		return err
	}
	result.ArchivePath = archivePath

	c.logger.Debug().Str("archive", archivePath).Msg("archived input")
	return nil
}
