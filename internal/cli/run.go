package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/storybook-runner/internal/config"
	"github.com/shinji-kodama/storybook-runner/internal/model"
	"github.com/shinji-kodama/storybook-runner/internal/notify"
	"github.com/shinji-kodama/storybook-runner/internal/port"
	"github.com/shinji-kodama/storybook-runner/internal/runner"
	"github.com/shinji-kodama/storybook-runner/internal/shell"
	"github.com/shinji-kodama/storybook-runner/internal/story"
	"github.com/shinji-kodama/storybook-runner/internal/storybook"
	"github.com/shinji-kodama/storybook-runner/internal/terminal"
)

// runFlags holds the flag values for the run command.
type runFlags struct {
	project projectFlags

	// dryRun prints the command line instead of launching it.
	dryRun bool

	// noSetup skips patching the Storybook config file.
	noSetup bool

	// shell overrides the shell hint taken from settings and environment.
	shell string

	// platform overrides the detected platform ("posix" or "windows").
	platform string
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run Storybook for a story file or folder",
		Long: `Run Storybook restricted to the stories below path (default: the
current directory).

path must be a *.stories.ts file or a directory containing at least one.
Before launching, the Storybook config file is patched to read
STORYBOOK_STORY_GLOB. Problems with the config are reported but never stop
the launch.

Examples:
  storybook-runner run src/app/button/button.stories.ts
  storybook-runner run src/app --dry-run
  storybook-runner run src/app --shell pwsh --platform windows --dry-run`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), cmd.OutOrStdout(), targetArg(args), flags)
		},
	}

	flags.project.register(cmd)
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the command line instead of launching it")
	cmd.Flags().BoolVar(&flags.noSetup, "no-setup", false, "Do not patch the Storybook config file")
	cmd.Flags().StringVar(&flags.shell, "shell", "", "Shell used to pick the command quoting (default: $SHELL or %ComSpec%)")
	cmd.Flags().StringVar(&flags.platform, "platform", "", "Target platform: posix, windows (default: host)")

	return cmd
}

// runResultJSON is the JSON output of the run command.
type runResultJSON struct {
	runner.Result

	Root          string                `json:"root"`
	DryRun        bool                  `json:"dryRun"`
	Notifications []notify.Notification `json:"notifications"`
	Port          *port.PortStatus      `json:"port,omitempty"`
}

// runRun is the main logic function for the run command.
func runRun(ctx context.Context, out io.Writer, targetPath string, flags *runFlags) error {
	p, err := loadProject(targetPath, &flags.project)
	if err != nil {
		return err
	}

	platform, err := platformFlag(flags.platform)
	if err != nil {
		return err
	}
	hint := p.ShellHint(flags.shell)
	strategy := shell.Classify(platform, hint)
	VerboseLog("Platform %s, shell hint %q, strategy %s", platform, hint, strategy)

	r := &runner.Runner{
		Resolver:  story.NewResolver(p.FS),
		Platform:  platform,
		ShellHint: hint,
	}
	if !flags.noSetup && p.Settings.Setup != config.SetupSkip {
		r.Setup = p.NewSetup()
	}

	// JSON mode collects notifications into the result; text mode logs them.
	recorder := &notify.Recorder{}
	if IsJSONOutput() {
		r.Notifier = recorder
	} else {
		r.Notifier = notify.NewLogNotifier(nil)
	}

	var portStatus *port.PortStatus
	switch {
	case flags.dryRun && IsJSONOutput():
		// The command line is part of the JSON result.
		r.Terminal = terminal.DryRun{Out: io.Discard}
	case flags.dryRun:
		r.Terminal = terminal.DryRun{Out: out}
	default:
		r.Terminal = terminal.NewExec(strategy, hint)
	}

	// Pre-launch checks only run for targets that will actually launch.
	if _, ok := r.Resolver.Resolve(p.Root, p.Target); ok {
		warnMissingRunScript(p)
		if !flags.dryRun {
			status := port.NewScanner().CheckStorybookPort(port.DefaultStorybookPort)
			warnPortInUse(status)
			portStatus = &status
		}
	}

	res := r.Run(ctx, p.Root, p.Target)
	if !res.Valid {
		return model.NewCLIError(model.ExitInvalidTarget,
			fmt.Sprintf("%s is not a story file or a folder containing stories", targetPath))
	}
	if res.LaunchErr != nil {
		return model.WrapCLIError(model.ExitLaunchFailed, "failed to launch Storybook", res.LaunchErr)
	}

	if IsJSONOutput() {
		notifications := recorder.Notifications
		if notifications == nil {
			notifications = []notify.Notification{}
		}
		return printJSON(out, runResultJSON{
			Result:        res,
			Root:          p.Root,
			DryRun:        flags.dryRun,
			Notifications: notifications,
			Port:          portStatus,
		})
	}
	return nil
}

// warnMissingRunScript logs a warning when package.json cannot run
// `npm run storybook`. The launch still happens.
func warnMissingRunScript(p *project) {
	info, err := storybook.InspectPackage(p.FS, p.Root)
	switch {
	case err != nil:
		slog.Warn("Could not inspect package.json", "path", info.Path, "error", err)
	case !info.Exists:
		slog.Warn("No package.json in the workspace root; `npm run storybook` will fail", "root", p.Root)
	case !info.HasRunScript:
		slog.Warn("package.json has no \"storybook\" script; `npm run storybook` will fail", "path", info.Path)
	}
}

// warnPortInUse logs a warning when Storybook's port is already taken.
func warnPortInUse(status port.PortStatus) {
	if status.Available {
		return
	}
	if status.Next != 0 {
		slog.Warn("Storybook port is in use; Storybook will offer another port",
			"port", status.Port, "next", status.Next)
		return
	}
	slog.Warn("Storybook port is in use", "port", status.Port)
}
