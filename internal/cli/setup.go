package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/storybook-runner/internal/model"
	"github.com/shinji-kodama/storybook-runner/internal/notify"
)

// NewSetupCommand creates the "setup" cobra command.
func NewSetupCommand() *cobra.Command {
	flags := &projectFlags{}

	cmd := &cobra.Command{
		Use:   "setup [path]",
		Short: "Patch the Storybook config to read STORYBOOK_STORY_GLOB",
		Long: `Patch the workspace's Storybook config file (default .storybook/main.ts)
so its stories list reads STORYBOOK_STORY_GLOB, falling back to the current
list when the variable is unset. Running it again changes nothing.

The workspace is located from path (default: the current directory). The
"setup: skip" setting only affects run; this command always patches.
Exits with code 3 when the config file cannot be updated.

Examples:
  storybook-runner setup
  storybook-runner setup --root ./frontend --json`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.OutOrStdout(), targetArg(args), flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// setupResultJSON is the JSON output of the setup command.
type setupResultJSON struct {
	model.SetupOutcome

	Notification notify.Notification `json:"notification"`
}

func runSetup(out io.Writer, targetPath string, flags *projectFlags) error {
	p, err := loadProject(targetPath, flags)
	if err != nil {
		return err
	}

	outcome := p.NewSetup().Ensure(p.Root)
	n := notify.FromOutcome(outcome)
	VerboseLog("Setup finished with status %s", outcome.Status)

	if IsJSONOutput() {
		if err := printJSON(out, setupResultJSON{SetupOutcome: outcome, Notification: n}); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(out, "%s: %s\n", n.Level, n.Message); err != nil {
			return err
		}
	}

	if outcome.Status == model.SetupFailed {
		return model.NewCLIError(model.ExitConfigError, n.Message)
	}
	return nil
}
