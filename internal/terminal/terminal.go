// Package terminal runs the Storybook command line.
//
// A Terminal receives a working directory and a single command-line string.
// It is responsible for spawning and displaying the process; callers never
// look at its output or exit status.
package terminal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/shinji-kodama/storybook-runner/internal/shell"
)

// Terminal launches a command line in a working directory.
type Terminal interface {
	// Launch runs command in dir. It returns an error only when the process
	// could not be started.
	Launch(ctx context.Context, dir, command string) error
}

// Exec runs the command line through the user's shell, attached to the
// given standard streams. The shell is derived from the quoting strategy so
// the command is interpreted by the shell it was quoted for.
type Exec struct {
	// Strategy is the quoting strategy the command line was built with.
	Strategy shell.Strategy

	// ShellPath is the shell hint; it is used as the executable when it
	// names a shell of the strategy's family.
	ShellPath string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExec creates an Exec attached to the process's standard streams.
func NewExec(strategy shell.Strategy, shellPath string) *Exec {
	return &Exec{
		Strategy:  strategy,
		ShellPath: shellPath,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Invocation returns the executable and arguments that interpret command.
func (e *Exec) Invocation(command string) (string, []string) {
	name := shell.ExecutableName(e.ShellPath)

	switch e.Strategy {
	case shell.StrategyWindowsCmd:
		exe := "cmd.exe"
		if name == "cmd" {
			exe = e.ShellPath
		}
		return exe, []string{"/C", command}
	case shell.StrategyWindowsPowerShell:
		exe := "powershell.exe"
		if name == "pwsh" || name == "powershell" {
			exe = e.ShellPath
		}
		return exe, []string{"-NoProfile", "-Command", command}
	default:
		exe := "sh"
		if shell.Classify(shell.PlatformWindows, e.ShellPath) == shell.StrategyWindowsPOSIXShell {
			exe = e.ShellPath
		}
		return exe, []string{"-c", command}
	}
}

// Launch starts the shell in dir and waits for it so the terminal stays
// attached. The exit status is logged at debug level and otherwise ignored:
// stopping Storybook with Ctrl-C is the normal way to end a session.
func (e *Exec) Launch(ctx context.Context, dir, command string) error {
	name, args := e.Invocation(command)

	// #nosec G204: the command line is built by the shell package
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	slog.Debug("Launching Storybook", "dir", dir, "shell", name, "command", command)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	if err := cmd.Wait(); err != nil {
		slog.Debug("Storybook process ended", "error", err)
	}
	return nil
}

// DryRun prints the command line instead of running it.
type DryRun struct {
	Out io.Writer
}

// Launch writes command to Out.
func (d DryRun) Launch(_ context.Context, _ string, command string) error {
	_, err := fmt.Fprintln(d.Out, command)
	return err
}
