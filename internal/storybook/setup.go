package storybook

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/shinji-kodama/storybook-runner/internal/model"
	"github.com/shinji-kodama/storybook-runner/internal/workspace"
)

// DefaultConfigFile is the conventional config location relative to the
// workspace root, in forward-slash form.
var DefaultConfigFile = path.Join(model.StorybookDir, model.MainConfigFile)

// Setup installs the glob override into a workspace's Storybook config file.
type Setup struct {
	fs workspace.FileSystem

	// configFile is the forward-slash config path relative to the root.
	configFile string
}

// NewSetup creates a Setup for the config file at configFile (relative to
// the workspace root, forward slashes). An empty configFile selects
// DefaultConfigFile.
func NewSetup(fsys workspace.FileSystem, configFile string) *Setup {
	if configFile == "" {
		configFile = DefaultConfigFile
	}
	return &Setup{fs: fsys, configFile: configFile}
}

// ConfigFile returns the forward-slash config path relative to the root.
func (s *Setup) ConfigFile() string {
	return s.configFile
}

// ConfigPath returns the absolute config path for root.
func (s *Setup) ConfigPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(s.configFile))
}

// Ensure patches the config file below root and writes it back only when
// the patch changed it. Every failure is reported through the returned
// outcome; Ensure never returns an error and never panics.
func (s *Setup) Ensure(root string) (outcome model.SetupOutcome) {
	display := s.ConfigFile()
	configPath := s.ConfigPath(root)

	defer func() {
		if r := recover(); r != nil {
			outcome = model.SetupFailedWith(display, fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	exists, err := workspace.Exists(s.fs, configPath)
	if err != nil {
		return model.SetupFailedWith(display, err)
	}
	if !exists {
		return model.SetupMissing(display)
	}

	original, err := s.fs.ReadFile(configPath)
	if err != nil {
		return model.SetupFailedWith(display, err)
	}

	status, updated := EnsureGlobOverride(original)
	if status == model.SetupNoStoriesBlock {
		return model.SetupWithoutStories(display)
	}

	if updated == original {
		slog.Debug("Storybook config already reads the story glob override", "config", display)
		return model.SetupSucceeded(display, false)
	}

	if err := s.fs.WriteFile(configPath, updated); err != nil {
		return model.SetupFailedWith(display, err)
	}
	slog.Debug("Patched Storybook config", "config", display)
	return model.SetupSucceeded(display, true)
}
