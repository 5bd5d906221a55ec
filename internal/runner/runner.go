// Package runner executes one "Run Storybook" invocation: resolve the story
// glob for the selected path, install the glob override into the Storybook
// config, build the shell command and hand it to the terminal.
//
// An invocation never fails as a whole. An invalid target is a silent no-op,
// setup problems are reported through the notifier and Storybook is launched
// anyway, and a terminal that cannot start is recorded in the result.
package runner

import (
	"context"

	"github.com/shinji-kodama/storybook-runner/internal/model"
	"github.com/shinji-kodama/storybook-runner/internal/notify"
	"github.com/shinji-kodama/storybook-runner/internal/shell"
	"github.com/shinji-kodama/storybook-runner/internal/story"
	"github.com/shinji-kodama/storybook-runner/internal/storybook"
	"github.com/shinji-kodama/storybook-runner/internal/terminal"
	"github.com/shinji-kodama/storybook-runner/internal/workspace"
)

// Runner wires the invocation steps together.
type Runner struct {
	Resolver *story.Resolver

	// Setup patches the config file. A nil Setup skips the step.
	Setup *storybook.Setup

	Notifier notify.Notifier
	Terminal terminal.Terminal

	// Platform and ShellHint select the command quoting.
	Platform  shell.Platform
	ShellHint string
}

// Result reports what one invocation did.
type Result struct {
	// Valid is false when the target was not runnable; nothing else happened.
	Valid bool `json:"valid"`

	Label string          `json:"label,omitempty"`
	Glob  model.StoryGlob `json:"glob,omitempty"`

	// Setup is nil when the setup step was skipped.
	Setup *model.SetupOutcome `json:"setup,omitempty"`

	Strategy shell.Strategy `json:"strategy,omitempty"`
	Command  string         `json:"command,omitempty"`

	// LaunchErr is set when the terminal could not start the process.
	LaunchErr error `json:"-"`
}

// Run performs the invocation for target within root.
func (r *Runner) Run(ctx context.Context, root string, target workspace.Entry) Result {
	glob, ok := r.Resolver.Resolve(root, target)
	if !ok || !glob.Valid() {
		return Result{Valid: false}
	}

	res := Result{Valid: true, Label: story.Label(target), Glob: glob}

	if r.Setup != nil {
		outcome := r.Setup.Ensure(root)
		res.Setup = &outcome
		if r.Notifier != nil {
			r.Notifier.Notify(ctx, notify.FromOutcome(outcome))
		}
	}

	res.Strategy = shell.Classify(r.Platform, r.ShellHint)
	res.Command = res.Strategy.Command(glob)

	if r.Terminal != nil {
		res.LaunchErr = r.Terminal.Launch(ctx, root, res.Command)
	}
	return res
}
