// Package cli implements the cobra-based CLI commands for storybook-runner.
//
// Each subcommand (run, resolve, command, setup, stories) is defined in its
// own file within this package. This file defines the root command that
// serves as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/storybook-runner/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, results are printed as indented JSON for editor
	// integrations and scripts. When false (default), output is plain text.
	jsonOutput bool

	// verbose enables debug logging on stderr.
	// When true, the slog handler is set to debug level, which also makes
	// the informational setup notifications visible.
	verbose bool
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action. It provides help
// text, global flags, and the logger setup shared by every subcommand.
// Actual functionality is provided by subcommands (run, resolve, command,
// setup, stories).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "storybook-runner",
		Short: "Run Storybook for a single story file or folder",
		Long: `storybook-runner launches Storybook restricted to the stories below a
selected file or folder.

The selection is passed to Storybook through the STORYBOOK_STORY_GLOB
environment variable. On first use the project's .storybook/main.ts is
patched to read that variable, falling back to the original stories list
when it is unset.`,

		// SilenceUsage prevents cobra from printing usage on every error,
		// which would bury the actual message.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute formats them as text or JSON based on --json.
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// PersistentPreRunE runs after flag parsing for every subcommand, so
		// the logger sees the final value of --verbose.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(cmd.ErrOrStderr())
			return nil
		},
	}

	// PersistentFlags are inherited by all subcommands without
	// re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Register subcommands. Each subcommand is defined in its own file
	// (run.go, resolve.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewResolveCommand())
	rootCmd.AddCommand(NewCommandCommand())
	rootCmd.AddCommand(NewSetupCommand())
	rootCmd.AddCommand(NewStoriesCommand())

	return rootCmd
}

// setupLogger installs the process-wide slog logger once flags are parsed.
//
// Logs always go to w (stderr in production) so stdout carries only command
// results, which keeps --json output parseable. Info-level setup
// notifications are emitted at debug level by notify.LogNotifier and are
// therefore only shown with --verbose.
func setupLogger(w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them into
// OS exit codes. CLIError values carry their own exit codes (for example 2
// for a path that is not a story target); other errors exit with 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// A type assertion is enough here: commands return CLIError values
		// directly rather than wrapping them.
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error (flag parsing, unknown command): exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		// Text format: "Error: <message>" on stderr.
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// printJSON writes v to w as indented JSON. Subcommands pass
// cmd.OutOrStdout() so tests can capture the output.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode JSON output", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// VerboseLog logs a debug message through slog. It is only visible with
// --verbose and is used throughout the CLI for trace output that helps users
// understand which workspace, settings and shell were picked.
func VerboseLog(format string, args ...interface{}) {
	slog.Debug(fmt.Sprintf(format, args...))
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
