package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/storybook-runner/internal/model"
	"github.com/shinji-kodama/storybook-runner/internal/shell"
	"github.com/shinji-kodama/storybook-runner/internal/story"
)

// NewResolveCommand creates the "resolve" cobra command.
//
// resolve answers "would run offer an action for this path?" without side
// effects. Editors and scripts use its exit code to decide whether to show
// a Run Storybook entry.
func NewResolveCommand() *cobra.Command {
	flags := &projectFlags{}

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Print the story glob and action label for a path",
		Long: `Print the story glob and action label for path.

Exits with code 2 when path is neither a *.stories.ts file nor a folder
containing one. Nothing is written to disk.

Examples:
  storybook-runner resolve src/app/button
  storybook-runner resolve src/app/button/button.stories.ts --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.OutOrStdout(), args[0], flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// resolveResultJSON is the JSON output of the resolve command.
type resolveResultJSON struct {
	Root  string          `json:"root"`
	Label string          `json:"label"`
	Glob  model.StoryGlob `json:"glob"`
}

func runResolve(out io.Writer, targetPath string, flags *projectFlags) error {
	p, err := loadProject(targetPath, flags)
	if err != nil {
		return err
	}

	glob, ok := story.NewResolver(p.FS).Resolve(p.Root, p.Target)
	if !ok {
		return model.NewCLIError(model.ExitInvalidTarget,
			fmt.Sprintf("%s is not a story file or a folder containing stories", targetPath))
	}

	label := story.Label(p.Target)
	if IsJSONOutput() {
		return printJSON(out, resolveResultJSON{Root: p.Root, Label: label, Glob: glob})
	}
	_, err = fmt.Fprintf(out, "%s\n%s\n", label, glob)
	return err
}

// commandFlags holds the flag values for the command command.
type commandFlags struct {
	project  projectFlags
	shell    string
	platform string
}

// NewCommandCommand creates the "command" cobra command.
func NewCommandCommand() *cobra.Command {
	flags := &commandFlags{}

	cmd := &cobra.Command{
		Use:   "command <path>",
		Short: "Print the shell command line that runs Storybook for a path",
		Long: `Print the command line that sets STORYBOOK_STORY_GLOB for path and runs
npm run storybook, quoted for the selected shell.

Examples:
  storybook-runner command src/app/button
  storybook-runner command src/app/button --platform windows --shell cmd.exe`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.OutOrStdout(), args[0], flags)
		},
	}

	flags.project.register(cmd)
	cmd.Flags().StringVar(&flags.shell, "shell", "", "Shell used to pick the command quoting (default: $SHELL or %ComSpec%)")
	cmd.Flags().StringVar(&flags.platform, "platform", "", "Target platform: posix, windows (default: host)")

	return cmd
}

// commandResultJSON is the JSON output of the command command.
type commandResultJSON struct {
	Glob     model.StoryGlob `json:"glob"`
	Platform shell.Platform  `json:"platform"`
	Strategy shell.Strategy  `json:"strategy"`
	Command  string          `json:"command"`
}

func runCommand(out io.Writer, targetPath string, flags *commandFlags) error {
	p, err := loadProject(targetPath, &flags.project)
	if err != nil {
		return err
	}

	platform, err := platformFlag(flags.platform)
	if err != nil {
		return err
	}

	glob, ok := story.NewResolver(p.FS).Resolve(p.Root, p.Target)
	if !ok {
		return model.NewCLIError(model.ExitInvalidTarget,
			fmt.Sprintf("%s is not a story file or a folder containing stories", targetPath))
	}

	strategy := shell.Classify(platform, p.ShellHint(flags.shell))
	line := strategy.Command(glob)

	if IsJSONOutput() {
		return printJSON(out, commandResultJSON{
			Glob:     glob,
			Platform: platform,
			Strategy: strategy,
			Command:  line,
		})
	}
	_, err = fmt.Fprintln(out, line)
	return err
}
