package storybook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/storybook-runner/internal/workspace"
)

func TestInspectPackage(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		hasScript bool
	}{
		{
			name:      "storybook script present",
			content:   `{"name": "app", "scripts": {"storybook": "storybook dev -p 6006"}}`,
			hasScript: true,
		},
		{
			name:      "other scripts only",
			content:   `{"scripts": {"build": "ng build"}}`,
			hasScript: false,
		},
		{
			name:      "empty storybook script",
			content:   `{"scripts": {"storybook": ""}}`,
			hasScript: false,
		},
		{
			name: "comments and trailing commas are tolerated",
			content: `{
				// generated by hand
				"scripts": {
					"storybook": "storybook dev",
				},
			}`,
			hasScript: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(tt.content), 0o644))

			info, err := InspectPackage(workspace.NewOSFileSystem(), root)
			require.NoError(t, err)
			assert.True(t, info.Exists)
			assert.Equal(t, tt.hasScript, info.HasRunScript)
		})
	}
}

func TestInspectPackage_Missing(t *testing.T) {
	root := t.TempDir()

	info, err := InspectPackage(workspace.NewOSFileSystem(), root)
	require.NoError(t, err)
	assert.False(t, info.Exists)
	assert.False(t, info.HasRunScript)
	assert.Equal(t, filepath.Join(root, "package.json"), info.Path)
}

func TestInspectPackage_Invalid(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"scripts": `), 0o644))

	_, err := InspectPackage(workspace.NewOSFileSystem(), root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse package.json")
}
