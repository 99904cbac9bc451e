// =============================================================================
// Transcript Parser - Schema Command
// =============================================================================
//
// This file defines the 'schema' command, which prints the XML Schema that
// the xml export conforms to.
//
// COMMAND USAGE:
//   transcript-parser schema [--output transcript.xsd]
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/transcript-parser/internal/xmlwriter"
	"github.com/spf13/cobra"
)

// schemaOutput is the file to write the schema to. Empty means stdout.
var schemaOutput string

// schemaCmd represents the 'schema' command.
var schemaCmd = &cobra.Command{
	Use:         "schema",
	Short:       "Print the XML Schema of the xml export",
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		xsd := xmlwriter.GenerateXSD()

		if schemaOutput == "" {
			_, err := cmd.OutOrStdout().Write(xsd)
			return err
		}

		if err := os.WriteFile(schemaOutput, xsd, 0644); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", schemaOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Write the schema to a file instead of stdout")
}
