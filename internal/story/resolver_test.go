package story

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/storybook-runner/internal/model"
	"github.com/shinji-kodama/storybook-runner/internal/workspace"
)

// newProject creates a temporary workspace root containing the given files
// (forward-slash relative paths mapped to contents).
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// entry stats rel below root and fails the test if it does not exist.
func entry(t *testing.T, root, rel string) workspace.Entry {
	t.Helper()

	e, err := workspace.NewOSFileSystem().Stat(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return e
}

func TestResolve_File(t *testing.T) {
	root := newProject(t, map[string]string{
		"src/Button.stories.ts":  "export default {}",
		"src/Button.ts":          "",
		"src/Button.stories.tsx": "",
	})
	r := NewResolver(workspace.NewOSFileSystem())

	t.Run("story file yields its relative path", func(t *testing.T) {
		glob, ok := r.Resolve(root, entry(t, root, "src/Button.stories.ts"))
		require.True(t, ok)
		assert.Equal(t, model.StoryGlob("../src/Button.stories.ts"), glob)
		assert.True(t, glob.Valid())
	})

	t.Run("plain source file is not a target", func(t *testing.T) {
		_, ok := r.Resolve(root, entry(t, root, "src/Button.ts"))
		assert.False(t, ok)
	})

	t.Run("tsx story is not a target", func(t *testing.T) {
		_, ok := r.Resolve(root, entry(t, root, "src/Button.stories.tsx"))
		assert.False(t, ok)
	})
}

func TestResolve_Directory(t *testing.T) {
	root := newProject(t, map[string]string{
		"src/components/forms/Input.stories.ts": "",
		"src/utils/strings.ts":                  "",
		"docs/readme.md":                        "",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	r := NewResolver(workspace.NewOSFileSystem())

	tests := []struct {
		name string
		rel  string
		want model.StoryGlob
		ok   bool
	}{
		{"root with stories", ".", "../**/*.stories.ts", true},
		{"directory with nested stories", "src", "../src/**/*.stories.ts", true},
		{"directory with direct stories", "src/components/forms", "../src/components/forms/**/*.stories.ts", true},
		{"directory without stories", "src/utils", "", false},
		{"unrelated directory", "docs", "", false},
		{"empty directory", "empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glob, ok := r.Resolve(root, entry(t, root, tt.rel))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, glob)
		})
	}
}

func TestResolve_RootWithoutStories(t *testing.T) {
	root := newProject(t, map[string]string{"src/index.ts": ""})
	r := NewResolver(workspace.NewOSFileSystem())

	_, ok := r.Resolve(root, entry(t, root, "."))
	assert.False(t, ok)
}

func TestResolve_OutsideRoot(t *testing.T) {
	root := newProject(t, map[string]string{"app/src/Button.stories.ts": ""})
	r := NewResolver(workspace.NewOSFileSystem())

	// The story file exists but the workspace root is a sibling directory.
	_, ok := r.Resolve(filepath.Join(root, "other"), entry(t, root, "app/src/Button.stories.ts"))
	assert.False(t, ok)
}

// failingWalkFS fails every Walk call.
type failingWalkFS struct {
	workspace.OSFileSystem
}

func (failingWalkFS) Walk(string, func(workspace.Entry) bool) error {
	return errors.New("walk failed")
}

func TestResolve_WalkErrorMeansNoTarget(t *testing.T) {
	root := newProject(t, map[string]string{"src/Button.stories.ts": ""})
	r := NewResolver(failingWalkFS{})

	_, ok := r.Resolve(root, entry(t, root, "src"))
	assert.False(t, ok)
}

func TestResolve_IsRepeatable(t *testing.T) {
	root := newProject(t, map[string]string{"src/Button.stories.ts": ""})
	r := NewResolver(workspace.NewOSFileSystem())
	target := entry(t, root, "src")

	first, ok1 := r.Resolve(root, target)
	second, ok2 := r.Resolve(root, target)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, LabelFolder, Label(workspace.Entry{IsDir: true}))
	assert.Equal(t, LabelFile, Label(workspace.Entry{Name: "Button.stories.ts"}))
}

func TestList(t *testing.T) {
	root := newProject(t, map[string]string{
		"src/b/Card.stories.ts":   "import x from 'y';\n\nexport default { title: 'Card' };\n",
		"src/a/Button.stories.ts": "export default {};\n",
		"src/a/NoMeta.stories.ts": "export const Primary = {};\n",
		"src/a/Button.ts":         "export default {};\n",
	})
	r := NewResolver(workspace.NewOSFileSystem())

	files, err := r.List(root)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "src/a/Button.stories.ts", files[0].RelPath)
	assert.Equal(t, model.StoryGlob("../src/a/Button.stories.ts"), files[0].Glob)
	require.NotNil(t, files[0].Marker)
	assert.Equal(t, 1, files[0].Marker.Line)

	assert.Equal(t, "src/a/NoMeta.stories.ts", files[1].RelPath)
	assert.Nil(t, files[1].Marker, "files without export default have no marker")

	assert.Equal(t, "src/b/Card.stories.ts", files[2].RelPath)
	require.NotNil(t, files[2].Marker)
	assert.Equal(t, 3, files[2].Marker.Line)
	assert.Equal(t, 1, files[2].Marker.Column)
}
