package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/storybook-runner/internal/model"
)

// SetupMode controls whether the Storybook config file is patched.
type SetupMode string

const (
	// SetupAuto patches the config file before every launch (idempotent).
	SetupAuto SetupMode = "auto"

	// SetupSkip never touches the config file.
	SetupSkip SetupMode = "skip"
)

// Settings is the per-project configuration read from .storybook-runner.yaml.
//
// Example:
//
//	configFile: .storybook/main.ts
//	setup: auto
//	shell: /bin/zsh
type Settings struct {
	// ConfigFile is the Storybook config path relative to the workspace root.
	// It must sit exactly one directory below the root, because story globs
	// are written relative to that directory with a "../" prefix.
	ConfigFile string `yaml:"configFile"`

	// Setup selects whether the config file is patched.
	Setup SetupMode `yaml:"setup"`

	// Shell overrides the shell hint taken from SHELL/ComSpec.
	Shell string `yaml:"shell"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		ConfigFile: path.Join(model.StorybookDir, model.MainConfigFile),
		Setup:      SetupAuto,
	}
}

// LoadSettings reads the settings file at settingsPath. A missing file
// yields DefaultSettings. Unknown keys are rejected so typos surface early.
func LoadSettings(settingsPath string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("failed to parse settings at %s: %w", settingsPath, err)
	}

	settings.applyDefaults()
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings at %s: %w", settingsPath, err)
	}
	return settings, nil
}

// applyDefaults fills fields left empty in the file.
func (s *Settings) applyDefaults() {
	defaults := DefaultSettings()
	if s.ConfigFile == "" {
		s.ConfigFile = defaults.ConfigFile
	}
	if s.Setup == "" {
		s.Setup = defaults.Setup
	}
}

// Validate checks the field values.
func (s Settings) Validate() error {
	switch s.Setup {
	case SetupAuto, SetupSkip:
	default:
		return fmt.Errorf("setup: invalid value %q (valid: auto, skip)", s.Setup)
	}

	cf := filepath.ToSlash(s.ConfigFile)
	if path.IsAbs(cf) || filepath.IsAbs(s.ConfigFile) {
		return fmt.Errorf("configFile: %q must be relative to the workspace root", s.ConfigFile)
	}
	parts := strings.Split(path.Clean(cf), "/")
	if len(parts) != 2 || parts[0] == ".." || parts[0] == "." {
		return fmt.Errorf("configFile: %q must be exactly one directory below the workspace root", s.ConfigFile)
	}
	return nil
}

// SettingsPath resolves the settings file for a workspace root.
func SettingsPath(root, settingsFile string) string {
	if settingsFile == "" {
		settingsFile = DefaultSettingsFile
	}
	if filepath.IsAbs(settingsFile) {
		return settingsFile
	}
	return filepath.Join(root, settingsFile)
}
