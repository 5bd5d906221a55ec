package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/storybook-runner/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		hint     string
		want     Strategy
	}{
		{"posix ignores hint", PlatformPOSIX, `C:\Windows\System32\cmd.exe`, StrategyPOSIX},
		{"posix without hint", PlatformPOSIX, "", StrategyPOSIX},
		{"cmd via ComSpec", PlatformWindows, `C:\Windows\system32\cmd.exe`, StrategyWindowsCmd},
		{"cmd upper case", PlatformWindows, `C:\WINDOWS\SYSTEM32\CMD.EXE`, StrategyWindowsCmd},
		{"git bash", PlatformWindows, `C:\Program Files\Git\bin\bash.exe`, StrategyWindowsPOSIXShell},
		{"msys style path", PlatformWindows, "/usr/bin/bash", StrategyWindowsPOSIXShell},
		{"zsh", PlatformWindows, "/usr/bin/zsh", StrategyWindowsPOSIXShell},
		{"fish", PlatformWindows, "fish", StrategyWindowsPOSIXShell},
		{"plain sh", PlatformWindows, "/bin/sh", StrategyWindowsPOSIXShell},
		{"windows powershell is not sh", PlatformWindows, `C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`, StrategyWindowsPowerShell},
		{"pwsh", PlatformWindows, `C:\Program Files\PowerShell\7\pwsh.exe`, StrategyWindowsPowerShell},
		{"no hint defaults to powershell", PlatformWindows, "", StrategyWindowsPowerShell},
		{"unknown shell defaults to powershell", PlatformWindows, "nu.exe", StrategyWindowsPowerShell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.platform, tt.hint))
		})
	}
}

func TestExecutableName(t *testing.T) {
	assert.Equal(t, "cmd", ExecutableName(`C:\Windows\system32\cmd.exe`))
	assert.Equal(t, "bash", ExecutableName("/usr/local/bin/bash"))
	assert.Equal(t, "pwsh", ExecutableName(" PWSH.EXE "))
	assert.Equal(t, "", ExecutableName(""))
}

func TestBuild(t *testing.T) {
	glob := model.StoryGlob("../src/Button.stories.ts")

	tests := []struct {
		name     string
		platform Platform
		hint     string
		want     string
	}{
		{
			name:     "posix",
			platform: PlatformPOSIX,
			hint:     "/bin/zsh",
			want:     "env STORYBOOK_STORY_GLOB='../src/Button.stories.ts' npm run storybook",
		},
		{
			name:     "windows cmd",
			platform: PlatformWindows,
			hint:     `C:\Windows\system32\cmd.exe`,
			want:     `set "STORYBOOK_STORY_GLOB=../src/Button.stories.ts" && npm run storybook`,
		},
		{
			name:     "windows git bash",
			platform: PlatformWindows,
			hint:     `C:\Program Files\Git\bin\bash.exe`,
			want:     "env STORYBOOK_STORY_GLOB='../src/Button.stories.ts' npm run storybook",
		},
		{
			name:     "windows powershell",
			platform: PlatformWindows,
			hint:     "",
			want:     "$env:STORYBOOK_STORY_GLOB='../src/Button.stories.ts'; npm run storybook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(glob, tt.platform, tt.hint))
		})
	}
}

func TestBuild_QuoteHandling(t *testing.T) {
	glob := model.StoryGlob(`../it's "odd"/**/*.stories.ts`)

	t.Run("posix closes and reopens the quote", func(t *testing.T) {
		got := Build(glob, PlatformPOSIX, "")
		assert.Equal(t, `env STORYBOOK_STORY_GLOB='../it'\''s "odd"/**/*.stories.ts' npm run storybook`, got)
		assert.True(t, strings.HasPrefix(got, "env STORYBOOK_STORY_GLOB='"))
	})

	t.Run("powershell doubles single quotes", func(t *testing.T) {
		got := Build(glob, PlatformWindows, "pwsh")
		assert.Equal(t, `$env:STORYBOOK_STORY_GLOB='../it''s "odd"/**/*.stories.ts'; npm run storybook`, got)
	})

	t.Run("cmd drops both quote characters", func(t *testing.T) {
		got := Build(glob, PlatformWindows, "cmd.exe")
		assert.Equal(t, `set "STORYBOOK_STORY_GLOB=../its odd/**/*.stories.ts" && npm run storybook`, got)
	})
}

// TestBuild_Properties checks invariants over a set of realistic globs.
func TestBuild_Properties(t *testing.T) {
	globs := []model.StoryGlob{
		"../**/*.stories.ts",
		"../src/**/*.stories.ts",
		"../src/components/Button.stories.ts",
		"../apps/my app/src/**/*.stories.ts",
		"../it's/**/*.stories.ts",
		`../"quoted"/Button.stories.ts`,
	}

	for _, g := range globs {
		posix := Build(g, PlatformPOSIX, "/bin/bash")
		assert.True(t, strings.HasPrefix(posix, "env STORYBOOK_STORY_GLOB='"), posix)
		assert.True(t, strings.HasSuffix(posix, " npm run storybook"), posix)

		cmd := Build(g, PlatformWindows, `C:\Windows\system32\cmd.exe`)
		assert.NotContains(t, cmd, "'")
		assert.True(t, strings.HasPrefix(cmd, `set "STORYBOOK_STORY_GLOB=`), cmd)
		assert.Equal(t, 2, strings.Count(cmd, `"`), "only the set quotes remain: %s", cmd)

		// Deterministic for the same input tuple.
		assert.Equal(t, posix, Build(g, PlatformPOSIX, "/bin/bash"))
	}
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform("Windows")
	require.NoError(t, err)
	assert.Equal(t, PlatformWindows, p)

	p, err = ParsePlatform("posix")
	require.NoError(t, err)
	assert.Equal(t, PlatformPOSIX, p)

	_, err = ParsePlatform("darwin")
	assert.Error(t, err)
}

func TestHintFromEnv(t *testing.T) {
	assert.Equal(t, "/bin/bash", HintFromEnv("/bin/bash", `C:\Windows\system32\cmd.exe`))
	assert.Equal(t, `C:\Windows\system32\cmd.exe`, HintFromEnv("", `C:\Windows\system32\cmd.exe`))
	assert.Equal(t, `C:\Windows\system32\cmd.exe`, HintFromEnv("  ", `C:\Windows\system32\cmd.exe`))
	assert.Equal(t, "", HintFromEnv("", ""))
}
