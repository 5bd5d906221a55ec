// Package workspace provides the file-system view used by storybook-runner.
//
// It offers a small FileSystem interface (stat, recursive walk with early
// exit, whole-file read/write) backed by the operating system, computes
// forward-slash relative paths between a workspace root and a selected entry,
// and locates the workspace root: the nearest Storybook project below the Git
// top-level directory.
package workspace
