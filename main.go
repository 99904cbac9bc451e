// =============================================================================
// Transcript Parser - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Transcript Parser CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   transcript-parser parse       - Parse transcripts and write the exports
//   transcript-parser show        - Print a parsed transcript
//   transcript-parser validate    - Validate configuration and transcripts
//   transcript-parser schema      - Print the XML Schema of the xml export
//   transcript-parser version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, extraction and export logic
//   - pkg/           : Shared file utilities
//   - testdata/      : Sample transcripts used by the tests
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/transcript-parser/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
