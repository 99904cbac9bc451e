// =============================================================================
// Transcript Parser - Parse Command
// =============================================================================
//
// This file defines the 'parse' command, the main command of the tool. It
// runs the converter pipeline over one or more transcripts.
//
// COMMAND USAGE:
//   transcript-parser parse [files...] [flags]
//
// FLAGS:
//   --format, -f  : Output formats (overrides output_formats)
//   --output-dir  : Output directory (overrides output_dir)
//   --dry-run     : Parse and audit without writing or archiving
//   --stdout      : Print a single file's document to stdout
//   --recursive   : Search the input directory recursively
//
// PROCESSING PIPELINE:
//   1. Load configuration (root command)
//   2. Collect the files: arguments, or discovery in input_dir
//   3. For each file (concurrently, at most max_concurrency at once):
//      a. Extract the text
//      b. Parse it into a transcript document
//      c. Audit the warnings
//      d. Write the exports
//      e. Archive the input
//   4. Print the summary and write the error and summary logs
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ginjaninja78/transcript-parser/internal/config"
	"github.com/ginjaninja78/transcript-parser/internal/converter"
	"github.com/ginjaninja78/transcript-parser/pkg/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// formats overrides the configured output formats.
var formats []string

// outputDir overrides the configured output directory.
var outputDir string

// dryRun parses without writing output files.
var dryRun bool

// toStdout prints the document instead of writing files.
var toStdout bool

// recursive searches the input directory tree.
var recursive bool

// errFilesFailed is returned when at least one file failed.
var errFilesFailed = errors.New("one or more files failed")

// errBinaryToStdout is returned when --stdout would print a binary format.
var errBinaryToStdout = errors.New("--stdout cannot print a binary format")

// =============================================================================
// PARSE COMMAND DEFINITION
// =============================================================================

// parseCmd represents the 'parse' command.
var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse transcripts and export the structured record",
	Long: `The parse command reads each transcript, rebuilds its academic record and
writes it in every configured output format.

Without arguments it processes every file in the input directory whose
extension is listed under extraction.extensions. Files are processed
concurrently and a failure in one file does not affect the others unless
continue_on_error is false.

On success:
  - The exports are placed in the output directory
  - A warning log is written next to them if the parser raised warnings
  - The input is archived when archive_processed is true

On error:
  - An error log is created in the output directory
  - The input remains where it was`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(cmd, args)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the parse command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringSliceVarP(
		&formats,
		"format",
		"f",
		nil,
		"Output formats: json, yaml, xml, xlsx, csv (default from config)",
	)

	parseCmd.Flags().StringVar(
		&outputDir,
		"output-dir",
		"",
		"Directory for the exports (default from config)",
	)

	parseCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Parse and audit without writing or archiving anything",
	)

	parseCmd.Flags().BoolVar(
		&toStdout,
		"stdout",
		false,
		"Print the document of a single file to stdout in the first format (not xlsx)",
	)

	parseCmd.Flags().BoolVarP(
		&recursive,
		"recursive",
		"r",
		false,
		"Search the input directory recursively",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runParse is the main function that orchestrates a batch.
func runParse(cmd *cobra.Command, args []string) error {
	log := loggerFor(cmd)
	out := cmd.OutOrStdout()

	for _, f := range formats {
		if !isKnownFormat(f) {
			return fmt.Errorf("unknown output format %q", f)
		}
	}

	// =========================================================================
	// STEP 1: COLLECT INPUT FILES
	// =========================================================================

	inputFiles := args
	if len(inputFiles) == 0 {
		fm := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir, mainConfig.OutputArchiveDir)

		var err error
		if recursive {
			inputFiles, err = fm.DiscoverInputFilesRecursive(mainConfig.Extraction.Extensions)
		} else {
			inputFiles, err = fm.DiscoverInputFiles(mainConfig.Extraction.Extensions)
		}
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No transcripts found in the input directory.")
		return nil
	}

	// =========================================================================
	// STEP 2: SINGLE FILE TO STDOUT
	// =========================================================================

	if toStdout {
		if len(inputFiles) != 1 {
			return fmt.Errorf("--stdout needs exactly one file, got %d", len(inputFiles))
		}
		return printDocument(cmd, out, inputFiles[0])
	}

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================

	summary := utils.ProcessingSummary{
		RunID:      uuid.New().String(),
		StartTime:  time.Now(),
		TotalFiles: len(inputFiles),
	}

	log.Info().
		Str("run_id", summary.RunID).
		Int("files", len(inputFiles)).
		Int("concurrency", mainConfig.MaxConcurrency).
		Bool("dry_run", dryRun).
		Msg("starting batch")

	results := processFiles(cmd.Context(), inputFiles, summary.RunID, cmd)

	// =========================================================================
	// STEP 4: COLLECT RESULTS AND GENERATE SUMMARY
	// =========================================================================

	var errorEntries []utils.ErrorLogEntry

	for _, result := range results {
		name := filepath.Base(result.FilePath)

		if result.Document != nil {
			summary.TotalTerms += result.Stats.Terms
			summary.TotalCourses += result.Stats.Courses
			summary.TotalWarnings += result.Stats.Warnings
		}

		switch result.Status {
		case converter.StatusFailed:
			summary.FailedFiles++
			errorType := "processing"
			if errors.Is(result.Error, converter.ErrWarningsAsErrors) {
				errorType = "warnings"
			} else if result.Document == nil {
				errorType = "extraction"
			}
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    result.FilePath,
				ErrorMessage: errString(result.Error),
				ErrorType:    errorType,
			})
			errorEntries = append(errorEntries, utils.ErrorLogEntry{
				Timestamp:    time.Now(),
				FileName:     result.FilePath,
				ErrorType:    errorType,
				ErrorMessage: errString(result.Error),
			})
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)

		default:
			summary.SuccessfulFiles++
			if result.Status == converter.StatusWithWarnings {
				summary.FilesWithWarnings++
			}
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   result.FilePath,
				OutputFiles: result.OutputFiles,
				ArchivePath: result.ArchivePath,
				Terms:       result.Stats.Terms,
				Courses:     result.Stats.Courses,
				Warnings:    result.Stats.Warnings,
				ProcessTime: result.Stats.ProcessingTime,
			})
			mark := "✓"
			if result.Status == converter.StatusWithWarnings {
				mark = "!"
			}
			fmt.Fprintf(out, "  %s %s: %d terms, %d courses, %d warnings\n",
				mark, name, result.Stats.Terms, result.Stats.Courses, result.Stats.Warnings)
		}
	}

	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "With warnings:   %d\n", summary.FilesWithWarnings)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

	if !dryRun {
		dir := effectiveOutputDir()
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if path, err := utils.WriteErrorLog(errorEntries, dir); err != nil {
			log.Warn().Err(err).Msg("failed to write error log")
		} else if path != "" {
			fmt.Fprintf(out, "\nErrors have been logged to %s\n", path)
		}
		if _, err := utils.WriteSummaryLog(summary, dir); err != nil {
			log.Warn().Err(err).Msg("failed to write summary log")
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%w: %d of %d", errFilesFailed, summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// processFiles runs one converter per file, at most MaxConcurrency at once.
// When ContinueOnError is false the first failure cancels the files that
// have not started yet. Results come back in input order.
func processFiles(ctx context.Context, inputFiles []string, runID string, cmd *cobra.Command) []converter.Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := loggerFor(cmd)

	limit := mainConfig.MaxConcurrency
	if limit < 1 {
		limit = 1
	}
	semaphore := make(chan struct{}, limit)

	var wg sync.WaitGroup
	results := make(chan indexedResult, len(inputFiles))

	for i, file := range inputFiles {
		wg.Add(1)

		go func(index int, filePath string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			conv := converter.New(filePath, mainConfig,
				converter.WithLogger(log),
				converter.WithRunID(runID),
				converter.WithOutputDir(outputDir),
				converter.WithFormats(formats),
				converter.WithDryRun(dryRun),
			)
			result := conv.Run(ctx)

			if !result.Success() && !mainConfig.ContinueOnError {
				cancel()
			}
			results <- indexedResult{index: index, result: result}
		}(i, file)
	}

	// Close the results channel when all goroutines are done.
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]indexedResult, 0, len(inputFiles))
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	ordered := make([]converter.Result, len(collected))
	for i, r := range collected {
		ordered[i] = r.result
	}
	return ordered
}

type indexedResult struct {
	index  int
	result converter.Result
}

// printDocument parses one file and writes it to out in the first format.
// XLSX is refused since a workbook is a zip archive.
func printDocument(cmd *cobra.Command, out io.Writer, path string) error {
	format := config.FormatJSON
	if len(formats) > 0 {
		format = formats[0]
	} else if len(mainConfig.OutputFormats) > 0 {
		format = mainConfig.OutputFormats[0]
	}
	if format == config.FormatXLSX {
		return fmt.Errorf("%w: %s, choose json, yaml, xml or csv with --format", errBinaryToStdout, format)
	}

	doc, _, err := converter.New(path, mainConfig, converter.WithLogger(loggerFor(cmd))).Parse(cmd.Context())
	if err != nil {
		return err
	}

	data, err := converter.Encode(doc, format)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func effectiveOutputDir() string {
	if outputDir != "" {
		return outputDir
	}
	return mainConfig.OutputDir
}

func isKnownFormat(f string) bool {
	for _, known := range config.AllOutputFormats() {
		if f == known {
			return true
		}
	}
	return false
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
