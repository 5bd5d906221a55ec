// Package model defines the domain types for the storybook-runner CLI.
//
// These types are passed between the resolver, the config patcher, the
// command builder and the CLI layer. All of them are transient: they are
// built for one invocation and discarded afterwards.
package model

import (
	"fmt"
	"strings"
)

const (
	// StoriesSuffix is the filename suffix that marks a story file.
	StoriesSuffix = ".stories.ts"

	// GlobPrefix is prepended to every story glob. Storybook evaluates the
	// `stories` globs relative to the .storybook directory, which sits one
	// level below the workspace root.
	GlobPrefix = "../"

	// StoryGlobEnvVar is read by the launched Storybook process to override
	// the configured story glob.
	StoryGlobEnvVar = "STORYBOOK_STORY_GLOB"

	// RunScriptCommand is the command that starts the Storybook dev server.
	RunScriptCommand = "npm run storybook"

	// RunScriptName is the package.json script invoked by RunScriptCommand.
	RunScriptName = "storybook"

	// DefaultFallbackGlob is the TypeScript string literal used as the
	// fallback when the original `stories` array is empty.
	DefaultFallbackGlob = "'../src/**/*.stories.ts'"

	// StorybookDir and MainConfigFile form the conventional config location.
	StorybookDir   = ".storybook"
	MainConfigFile = "main.ts"
)

// StoryGlob is a glob pattern relative to the .storybook directory.
// Every value produced by the resolver begins with GlobPrefix.
type StoryGlob string

// String returns the glob as a plain string.
func (g StoryGlob) String() string {
	return string(g)
}

// Valid reports whether the glob carries the mandatory "../" prefix.
func (g StoryGlob) Valid() bool {
	return strings.HasPrefix(string(g), GlobPrefix)
}

// IsStoryFile reports whether a file name follows the story naming convention.
func IsStoryFile(name string) bool {
	return strings.HasSuffix(name, StoriesSuffix)
}

// SetupStatus is the result category of an attempt to install the glob
// override into the Storybook configuration file.
type SetupStatus string

const (
	// SetupSuccess means the config file now reads STORYBOOK_STORY_GLOB.
	// The file may or may not have been written (see SetupOutcome.Changed).
	SetupSuccess SetupStatus = "success"

	// SetupConfigMissing means the config file does not exist.
	SetupConfigMissing SetupStatus = "config-missing"

	// SetupNoStoriesBlock means the config file has no `stories: [...]`
	// assignment in a shape the patcher understands.
	SetupNoStoriesBlock SetupStatus = "no-stories-block"

	// SetupFailed means reading, patching or writing the file failed.
	SetupFailed SetupStatus = "failed"
)

// String returns the string representation of SetupStatus.
func (s SetupStatus) String() string {
	return string(s)
}

// SetupOutcome describes what happened to the Storybook configuration file
// during one invocation.
type SetupOutcome struct {
	// Status is the result category.
	Status SetupStatus `json:"status"`

	// Reason carries the underlying error message for SetupFailed.
	Reason string `json:"reason,omitempty"`

	// ConfigPath is the path of the configuration file that was inspected.
	ConfigPath string `json:"configPath"`

	// Changed is true when the file contents were rewritten.
	Changed bool `json:"changed"`
}

// SetupSucceeded builds a success outcome.
func SetupSucceeded(path string, changed bool) SetupOutcome {
	return SetupOutcome{Status: SetupSuccess, ConfigPath: path, Changed: changed}
}

// SetupMissing builds an outcome for a config file that does not exist.
func SetupMissing(path string) SetupOutcome {
	return SetupOutcome{Status: SetupConfigMissing, ConfigPath: path}
}

// SetupWithoutStories builds an outcome for a config file that has no
// recognizable stories block.
func SetupWithoutStories(path string) SetupOutcome {
	return SetupOutcome{Status: SetupNoStoriesBlock, ConfigPath: path}
}

// SetupFailedWith builds a failure outcome carrying err's message.
func SetupFailedWith(path string, err error) SetupOutcome {
	reason := "unknown error"
	if err != nil && err.Error() != "" {
		reason = err.Error()
	}
	return SetupOutcome{Status: SetupFailed, ConfigPath: path, Reason: reason}
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// editor integrations to tell the outcome of a command apart.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidTarget indicates the selected path is neither a story file
	// nor a directory containing story files. Editor integrations use this
	// code to hide the "Run Storybook" action.
	ExitInvalidTarget ExitCode = 2

	// ExitConfigError indicates a configuration problem: the runner settings
	// or environment could not be loaded, or the setup command could not
	// update the Storybook config file.
	ExitConfigError ExitCode = 3

	// ExitLaunchFailed indicates the terminal process could not be started.
	ExitLaunchFailed ExitCode = 4
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
