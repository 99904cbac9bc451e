// =============================================================================
// Transcript Parser - Validate Command
// =============================================================================
//
// This file defines the 'validate' command.
//
// COMMAND USAGE:
//   transcript-parser validate            - check the configuration only
//   transcript-parser validate <files...> - also parse each file and audit
//                                           its warnings
//
// EXIT STATUS:
//   Non-zero when the configuration is invalid, a file cannot be read, or
//   (with --strict or treat_warnings_as_errors) a file has warnings.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/transcript-parser/internal/converter"
	"github.com/ginjaninja78/transcript-parser/internal/validation"
	"github.com/spf13/cobra"
)

// strict treats parser warnings as errors for this run.
var strict bool

// errValidationFailed is returned when at least one file did not pass.
var errValidationFailed = errors.New("validation failed")

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate the configuration and, optionally, transcripts",
	Long: `The validate command loads and checks the configuration file. Given
transcripts, it also parses each one and reports the parser warnings grouped
by kind. No exports are written and no directories are created.`,
	Annotations: map[string]string{readOnly: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		// The root command has already loaded and validated the configuration.
		fmt.Fprintf(out, "Configuration OK (%s)\n", cfgFile)
		fmt.Fprintf(out, "  Input:    %s\n", mainConfig.InputDir)
		fmt.Fprintf(out, "  Output:   %s\n", mainConfig.OutputDir)
		fmt.Fprintf(out, "  Formats:  %s\n", strings.Join(mainConfig.OutputFormats, ", "))
		fmt.Fprintf(out, "  Encoding: %s\n", mainConfig.Extraction.Encoding)

		options := validation.Options{
			TreatWarningsAsErrors: strict || mainConfig.Warnings.TreatWarningsAsErrors,
		}

		failed := 0
		for _, path := range args {
			fmt.Fprintf(out, "\n%s\n", filepath.Base(path))

			doc, _, err := converter.New(path, mainConfig, converter.WithLogger(loggerFor(cmd))).Parse(cmd.Context())
			if err != nil {
				failed++
				fmt.Fprintf(out, "  ✗ %v\n", err)
				continue
			}

			audit := validation.Audit(doc.Raw.Warnings, options)
			fmt.Fprintf(out, "  %d terms, %d courses\n", len(doc.Terms), doc.CourseCount())
			for _, kind := range validation.AllKinds() {
				if n := audit.Counts[kind]; n > 0 {
					fmt.Fprintf(out, "  %-18s %d\n", kind, n)
				}
			}
			fmt.Fprintln(out, indent(validation.FormatIssues(audit.Issues), "  "))

			if !audit.IsValid {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%w: %d of %d files", errValidationFailed, failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(
		&strict,
		"strict",
		false,
		"Fail on any parser warning",
	)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
