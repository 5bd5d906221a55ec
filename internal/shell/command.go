// Package shell builds the command line that launches Storybook with the
// story glob override, quoted for the user's shell.
//
// The shell is chosen by a pure classification of the platform and a shell
// hint (usually $SHELL, falling back to %ComSpec%). Callers inject the hint;
// nothing in this package reads the environment.
package shell

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/shinji-kodama/storybook-runner/internal/model"
)

// Platform is the host operating system family.
type Platform string

const (
	// PlatformPOSIX covers Linux, macOS and the BSDs.
	PlatformPOSIX Platform = "posix"

	// PlatformWindows is Microsoft Windows.
	PlatformWindows Platform = "windows"
)

// String returns the string representation of Platform.
func (p Platform) String() string {
	return string(p)
}

// CurrentPlatform returns the platform the binary runs on.
func CurrentPlatform() Platform {
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformPOSIX
}

// ParsePlatform converts a flag value to a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(s))
	switch p {
	case PlatformPOSIX, PlatformWindows:
		return p, nil
	default:
		return "", fmt.Errorf("invalid platform: %q (valid: posix, windows)", s)
	}
}

// Strategy is the quoting convention used for the command line.
type Strategy string

const (
	// StrategyPOSIX is a POSIX shell on a POSIX platform.
	StrategyPOSIX Strategy = "posix"

	// StrategyWindowsCmd is cmd.exe.
	StrategyWindowsCmd Strategy = "windows-cmd"

	// StrategyWindowsPOSIXShell is a POSIX-compatible shell on Windows,
	// such as Git Bash or an MSYS2 zsh.
	StrategyWindowsPOSIXShell Strategy = "windows-posix-shell"

	// StrategyWindowsPowerShell is Windows PowerShell or PowerShell 7. It is
	// the default on Windows when the hint names no other known shell.
	StrategyWindowsPowerShell Strategy = "windows-powershell"
)

// String returns the string representation of Strategy.
func (s Strategy) String() string {
	return string(s)
}

// posixShells are the executable base names treated as POSIX-compatible.
var posixShells = map[string]bool{
	"sh":   true,
	"bash": true,
	"zsh":  true,
	"fish": true,
	"dash": true,
	"ksh":  true,
	"ash":  true,
}

// Classify selects the strategy for platform and shellHint.
//
// On Windows the hint's executable base name decides: "cmd" selects
// cmd.exe, a known POSIX shell name selects the POSIX form, anything else
// (pwsh, powershell, empty) selects PowerShell. Matching the base name rather
// than a substring keeps "powershell.exe" from being taken for "sh".
func Classify(platform Platform, shellHint string) Strategy {
	if platform != PlatformWindows {
		return StrategyPOSIX
	}

	name := ExecutableName(shellHint)
	switch {
	case name == "cmd":
		return StrategyWindowsCmd
	case posixShells[name]:
		return StrategyWindowsPOSIXShell
	default:
		return StrategyWindowsPowerShell
	}
}

// ExecutableName returns the lowercased base name of a shell path without
// a .exe suffix. Both / and \ are treated as separators regardless of the
// host platform, so Windows paths classify the same everywhere.
func ExecutableName(shellPath string) string {
	name := strings.ToLower(strings.TrimSpace(shellPath))
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".exe")
}

// Build returns the command line that sets STORYBOOK_STORY_GLOB to glob and
// runs the Storybook script, for the given platform and shell hint.
func Build(glob model.StoryGlob, platform Platform, shellHint string) string {
	return Classify(platform, shellHint).Command(glob)
}

// cmdQuoteReplacer removes the quote characters cmd.exe cannot carry
// inside a set "NAME=value" assignment.
var cmdQuoteReplacer = strings.NewReplacer(`"`, "", `'`, "")

// Command renders the command line for glob using strategy s.
func (s Strategy) Command(glob model.StoryGlob) string {
	g := glob.String()
	switch s {
	case StrategyWindowsCmd:
		// Quotes cannot be escaped inside set "...", so they are dropped.
		return fmt.Sprintf(`set "%s=%s" && %s`, model.StoryGlobEnvVar, cmdQuoteReplacer.Replace(g), model.RunScriptCommand)
	case StrategyWindowsPowerShell:
		return fmt.Sprintf(`$env:%s='%s'; %s`, model.StoryGlobEnvVar, strings.ReplaceAll(g, `'`, `''`), model.RunScriptCommand)
	default:
		return fmt.Sprintf(`env %s='%s' %s`, model.StoryGlobEnvVar, strings.ReplaceAll(g, `'`, `'\''`), model.RunScriptCommand)
	}
}

// HintFromEnv picks the shell hint from the values of SHELL and ComSpec.
// SHELL wins when set, matching how Git Bash and MSYS export it on Windows.
func HintFromEnv(shellVar, comSpec string) string {
	if strings.TrimSpace(shellVar) != "" {
		return shellVar
	}
	return comSpec
}
