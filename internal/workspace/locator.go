package workspace

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Locator determines the workspace root for a selected path.
//
// The workspace root is the Storybook project containing the path: the
// nearest ancestor with a .storybook directory, or failing that the nearest
// ancestor with a package.json. The search stops at the Git top-level
// directory, which is also the fallback, so a monorepo package resolves to
// the package rather than the repository. Outside a repository (or when git
// is not installed) the search runs up to the file system root and falls
// back to the selected directory itself; for a selected file, its parent.
type Locator struct {
	// gitBinary is the git executable. It is a field so tests can point
	// it at a missing binary to exercise the fallback.
	gitBinary string
}

// Project markers, in order of preference.
const (
	storybookDirMarker = ".storybook"
	packageJSONMarker  = "package.json"
)

// NewLocator creates a Locator that uses the git binary found on PATH.
func NewLocator() *Locator {
	return &Locator{gitBinary: "git"}
}

// FindRoot returns the absolute workspace root for path.
func (l *Locator) FindRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	dir := abs
	if !info.IsDir() {
		dir = filepath.Dir(abs)
	}
	// git reports resolved paths; the walk must compare like with like.
	dir = resolveSymlinks(dir)

	top := ""
	if t, gitErr := l.gitTopLevel(dir); gitErr == nil && t != "" {
		top = resolveSymlinks(filepath.Clean(t))
	}

	if project := nearestProject(dir, top); project != "" {
		return project, nil
	}
	if top != "" {
		return top, nil
	}
	return dir, nil
}

// resolveSymlinks returns path with symlinks resolved, or path unchanged
// when resolution fails.
func resolveSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// nearestProject walks from dir towards boundary (inclusive) and returns
// the nearest directory holding a .storybook directory, else the nearest
// holding a package.json, else "". An empty boundary walks to the file
// system root.
func nearestProject(dir, boundary string) string {
	firstPackage := ""
	for cur := dir; ; {
		if info, err := os.Stat(filepath.Join(cur, storybookDirMarker)); err == nil && info.IsDir() {
			return cur
		}
		if firstPackage == "" {
			if info, err := os.Stat(filepath.Join(cur, packageJSONMarker)); err == nil && !info.IsDir() {
				firstPackage = cur
			}
		}

		parent := filepath.Dir(cur)
		if cur == boundary || parent == cur {
			break
		}
		cur = parent
	}
	return firstPackage
}

// gitTopLevel runs `git rev-parse --show-toplevel` in dir.
//
// The -C flag makes git change to dir before doing anything else, so the
// process working directory is never touched.
func (l *Locator) gitTopLevel(dir string) (string, error) {
	// #nosec G204: arguments are constructed internally
	cmd := exec.Command(l.gitBinary, "-C", dir, "rev-parse", "--show-toplevel")

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := "git rev-parse --show-toplevel failed"
		if s := strings.TrimSpace(stderr.String()); s != "" {
			message = fmt.Sprintf("%s: %s", message, s)
		}
		return "", fmt.Errorf("%s: %w", message, err)
	}

	// git prints forward slashes on Windows; FromSlash normalizes them.
	return filepath.FromSlash(strings.TrimSpace(stdout.String())), nil
}
