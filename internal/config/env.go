// Package config loads storybook-runner's configuration from the process
// environment and from an optional per-project settings file.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DefaultSettingsFile is the settings file name looked up in the workspace root.
const DefaultSettingsFile = ".storybook-runner.yaml"

// Env holds the environment variables storybook-runner reads.
type Env struct {
	// Shell is the user's login shell (POSIX, Git Bash, MSYS).
	Shell string `env:"SHELL"`

	// ComSpec is the command interpreter on Windows.
	ComSpec string `env:"ComSpec"`

	// SettingsFile is the settings file path, relative to the workspace root
	// unless absolute.
	SettingsFile string `env:"STORYBOOK_RUNNER_SETTINGS" envDefault:".storybook-runner.yaml"`
}

// LoadEnv parses the environment into an Env.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
