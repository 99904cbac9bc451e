// =============================================================================
// Transcript Parser - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (transcript-parser)
//   ├── parseCmd    (transcript-parser parse)
//   ├── showCmd     (transcript-parser show)
//   ├── validateCmd (transcript-parser validate)
//   ├── schemaCmd   (transcript-parser schema)
//   └── versionCmd  (transcript-parser version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging and placing the logger on the command context
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/transcript-parser/internal/config"
	"github.com/ginjaninja78/transcript-parser/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug logging regardless of the configured level.
var verbose bool

// mainConfig is loaded once per invocation by loadRuntime.
var mainConfig *config.MainConfig

// logCloser closes the log file, if one was opened.
var logCloser io.Closer

// skipConfig marks commands that run without a configuration file.
const skipConfig = "skip-config"

// readOnly marks commands that must not create the configured directories.
const readOnly = "read-only"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "transcript-parser",
	Short: "Transcript Parser - Turn registrar transcripts into structured records",
	Long: `Transcript Parser reads academic transcripts (PDF or text exports) and
rebuilds the academic record they describe: the student, each term with its
program, plan, courses and totals, and the career totals.

Parsing never stops at a malformed line. Anything the parser cannot place is
reported as a warning on the document instead.

Key Features:
  - PDF and plain-text input, with legacy text encodings
  - JSON, YAML, XML, XLSX and CSV exports
  - Warning audit with an optional warnings-as-errors policy
  - Concurrent batch processing with archival

Example Usage:
  transcript-parser parse                       # Parse every file in the input directory
  transcript-parser parse jane.pdf -f json,xlsx # Parse one file to two formats
  transcript-parser show jane.pdf               # Print the parsed record
  transcript-parser validate                    # Check the configuration`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] == "true" {
			return nil
		}
		return loadRuntime(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()
	if logCloser != nil {
		logCloser.Close()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// RUNTIME SETUP
// =============================================================================

// loadRuntime loads the configuration and builds the logger.
//
// RETURNS:
//   - An error if the configuration is invalid or the log file cannot be opened.
func loadRuntime(cmd *cobra.Command) error {
	var opts []config.LoadOption
	if cmd.Annotations[readOnly] == "true" {
		opts = append(opts, config.WithoutDirectories())
	}

	cfg, err := config.LoadOrDefault(cfgFile, opts...)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	log, closer, err := logger.NewWithFile(level, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}

	mainConfig = cfg
	logCloser = closer

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx, log))

	log.Debug().Str("config", cfgFile).Msg("configuration loaded")
	return nil
}

// loggerFor returns the logger placed on the command context.
func loggerFor(cmd *cobra.Command) zerolog.Logger {
	if ctx := cmd.Context(); ctx != nil {
		return logger.FromContext(ctx)
	}
	return zerolog.Nop()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init is called automatically when the package is loaded.
// It sets up the global flags.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	// --config flag: YAML or TOML, chosen by extension.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigPath,
		"Path to the main configuration file (.yaml or .toml)",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
