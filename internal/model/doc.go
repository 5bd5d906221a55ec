// Package model defines the domain types and value objects for the
// storybook-runner CLI.
//
// This package contains pure data structures with no external dependencies.
// A StoryGlob is computed per invocation from the selected path, a
// SetupOutcome is produced by the config patcher and consumed immediately by
// the notification step, and neither is ever persisted.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
