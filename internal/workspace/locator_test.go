package workspace

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runTestGit runs a git command in dir and fails the test on a non-zero exit.
func runTestGit(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
}

// realPath resolves symlinks so paths reported by git (which resolves them)
// compare equal to t.TempDir() paths on macOS, where /var is a symlink.
func realPath(t *testing.T, path string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

func TestFindRoot_GitRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	repo := realPath(t, t.TempDir())
	runTestGit(t, repo, "init")
	file := writeFile(t, repo, "src/components/Button.stories.ts", "export default {}")

	l := NewLocator()

	t.Run("from a nested directory", func(t *testing.T) {
		root, err := l.FindRoot(filepath.Join(repo, "src", "components"))
		require.NoError(t, err)
		assert.Equal(t, repo, realPath(t, root))
	})

	t.Run("from a file", func(t *testing.T) {
		root, err := l.FindRoot(file)
		require.NoError(t, err)
		assert.Equal(t, repo, realPath(t, root))
	})
}

func TestFindRoot_NestedProjectInRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	repo := realPath(t, t.TempDir())
	runTestGit(t, repo, "init")
	writeFile(t, repo, "package.json", `{"private": true}`)
	writeFile(t, repo, "frontend/package.json", `{"scripts": {"storybook": "storybook dev"}}`)
	writeFile(t, repo, "frontend/.storybook/main.ts", "export default {};")
	story := writeFile(t, repo, "frontend/src/a.stories.ts", "export default {}")
	writeFile(t, repo, "frontend/libs/ui/package.json", "{}")
	libStory := writeFile(t, repo, "frontend/libs/ui/src/b.stories.ts", "export default {}")
	writeFile(t, repo, "tools/package.json", "{}")
	writeFile(t, repo, "tools/gen/x.ts", "")
	writeFile(t, repo, "docs/readme.md", "")

	l := NewLocator()
	frontend := filepath.Join(repo, "frontend")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"story file in the Storybook project", story, frontend},
		{"the project directory itself", frontend, frontend},
		{".storybook wins over a nearer package.json", libStory, frontend},
		{"package.json without .storybook", filepath.Join(repo, "tools", "gen"), filepath.Join(repo, "tools")},
		{"no project below the top-level", filepath.Join(repo, "docs"), repo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := l.FindRoot(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, root)
		})
	}
}

func TestFindRoot_FallbackWithoutGit(t *testing.T) {
	dir := realPath(t, t.TempDir())
	file := writeFile(t, dir, "src/Button.stories.ts", "")

	l := &Locator{gitBinary: filepath.Join(dir, "no-such-git")}

	root, err := l.FindRoot(filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), root, "a directory is its own root")

	root, err = l.FindRoot(file)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), root, "a file's root is its parent")
}

func TestFindRoot_ProjectWithoutGit(t *testing.T) {
	dir := realPath(t, t.TempDir())
	writeFile(t, dir, "app/.storybook/main.ts", "export default {};")
	file := writeFile(t, dir, "app/src/Button.stories.ts", "")

	l := &Locator{gitBinary: filepath.Join(dir, "no-such-git")}

	root, err := l.FindRoot(file)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app"), root)
}

func TestFindRoot_MissingPath(t *testing.T) {
	l := NewLocator()
	_, err := l.FindRoot(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
