// =============================================================================
// Transcript Parser - Show Command
// =============================================================================
//
// This file defines the 'show' command, which prints the parsed record of a
// transcript to the terminal without writing any files.
//
// COMMAND USAGE:
//   transcript-parser show <file> [--view summary,courses,terms,career,warnings]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/transcript-parser/internal/converter"
	"github.com/ginjaninja78/transcript-parser/internal/report"
	"github.com/spf13/cobra"
)

// views selects the sections printed by show.
var views []string

// showCmd represents the 'show' command.
var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the parsed record of a transcript",
	Long: `The show command parses a single transcript and prints the student, the
courses, the term and career totals and the parser warnings as tables.

Nothing is written to disk apart from the log file, if one is configured.
The input, output and archive directories are not created.`,
	Annotations: map[string]string{readOnly: "true"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selected := make([]report.View, 0, len(views))
		for _, v := range views {
			view, err := report.ParseView(v)
			if err != nil {
				return err
			}
			selected = append(selected, view)
		}
		if len(selected) == 0 {
			selected = report.AllViews()
		}

		doc, _, err := converter.New(args[0], mainConfig, converter.WithLogger(loggerFor(cmd))).Parse(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		return report.Render(cmd.OutOrStdout(), doc, selected)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringSliceVar(
		&views,
		"view",
		nil,
		"Sections to print: summary, courses, terms, career, warnings (default all)",
	)
}
