package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/storybook-runner/internal/config"
	"github.com/shinji-kodama/storybook-runner/internal/model"
	"github.com/shinji-kodama/storybook-runner/internal/shell"
	"github.com/shinji-kodama/storybook-runner/internal/storybook"
	"github.com/shinji-kodama/storybook-runner/internal/workspace"
)

// projectFlags are the flags every command that works on a workspace shares.
type projectFlags struct {
	// root overrides the workspace root detection.
	root string
}

// register binds the flags to cmd.
func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "",
		"Workspace root (default: Git top-level directory of the path)")
}

// project is the workspace a command operates on.
type project struct {
	// Root is the absolute workspace root.
	Root string

	// Target is the selected file or directory.
	Target workspace.Entry

	FS       workspace.FileSystem
	Env      config.Env
	Settings config.Settings
}

// loadProject resolves the target path, the workspace root, and the
// configuration for a command.
func loadProject(targetPath string, flags *projectFlags) (*project, error) {
	fsys := workspace.NewOSFileSystem()

	target, err := fsys.Stat(targetPath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidTarget,
			fmt.Sprintf("cannot access %s", targetPath), err)
	}
	target.Path = realPath(target.Path)

	var root string
	if flags.root != "" {
		rootEntry, statErr := fsys.Stat(flags.root)
		if statErr != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("cannot access workspace root %s", flags.root), statErr)
		}
		if !rootEntry.IsDir {
			return nil, model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("workspace root %s is not a directory", flags.root))
		}
		root = rootEntry.Path
	} else {
		root, err = workspace.NewLocator().FindRoot(target.Path)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError,
				"failed to determine the workspace root", err)
		}
	}
	root = realPath(root)
	VerboseLog("Workspace root: %s", root)

	env, err := config.LoadEnv()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to read the environment", err)
	}

	settingsPath := config.SettingsPath(root, env.SettingsFile)
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to load settings", err)
	}
	VerboseLog("Settings: configFile=%s setup=%s", settings.ConfigFile, settings.Setup)

	return &project{
		Root:     root,
		Target:   target,
		FS:       fsys,
		Env:      env,
		Settings: settings,
	}, nil
}

// realPath resolves symlinks so the target and the root Git reports are
// comparable. It returns path unchanged when resolution fails.
func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// NewSetup returns the config patcher for the project's settings.
func (p *project) NewSetup() *storybook.Setup {
	return storybook.NewSetup(p.FS, filepath.ToSlash(p.Settings.ConfigFile))
}

// ShellHint picks the shell hint. Precedence: flag, settings file, SHELL,
// ComSpec.
func (p *project) ShellHint(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if strings.TrimSpace(p.Settings.Shell) != "" {
		return p.Settings.Shell
	}
	return shell.HintFromEnv(p.Env.Shell, p.Env.ComSpec)
}

// platformFlag parses the --platform value. Empty selects the host platform.
func platformFlag(value string) (shell.Platform, error) {
	if value == "" {
		return shell.CurrentPlatform(), nil
	}
	p, err := shell.ParsePlatform(value)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "invalid --platform value", err)
	}
	return p, nil
}

// targetArg returns the first positional argument, or "." when there is none.
func targetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
