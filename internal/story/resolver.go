// Package story decides which paths can be run in Storybook and computes the
// story glob for them.
//
// A target is runnable when it is a story file (name ends in .stories.ts) or
// a directory whose subtree contains at least one story file. The resulting
// glob is relative to the .storybook directory, hence the "../" prefix.
package story

import (
	"sort"

	"github.com/shinji-kodama/storybook-runner/internal/model"
	"github.com/shinji-kodama/storybook-runner/internal/workspace"
)

const (
	// LabelFolder and LabelFile are the action labels shown for a
	// directory target and a file target.
	LabelFolder = "Run Storybook for stories in folder"
	LabelFile   = "Run Storybook for this story"

	// recursiveSuffix is appended to directory globs.
	recursiveSuffix = "/**/*" + model.StoriesSuffix
)

// Resolver computes story globs. It only reads from the file system, so it
// is safe to call repeatedly for visibility checks.
type Resolver struct {
	fs workspace.FileSystem
}

// NewResolver creates a Resolver reading through fsys.
func NewResolver(fsys workspace.FileSystem) *Resolver {
	return &Resolver{fs: fsys}
}

// Resolve returns the story glob for target within root. The boolean is
// false when target is not a runnable story file or story folder, or lies
// outside root; callers treat that as "no action".
func (r *Resolver) Resolve(root string, target workspace.Entry) (model.StoryGlob, bool) {
	rel, ok := workspace.RelativePath(root, target.Path)
	if !ok {
		return "", false
	}

	if !target.IsDir {
		if !model.IsStoryFile(target.Name) || rel == "" {
			return "", false
		}
		return model.StoryGlob(model.GlobPrefix + rel), true
	}

	if !r.ContainsStories(target.Path) {
		return "", false
	}
	if rel == "" {
		return model.StoryGlob(model.GlobPrefix + "**/*" + model.StoriesSuffix), true
	}
	return model.StoryGlob(model.GlobPrefix + rel + recursiveSuffix), true
}

// ContainsStories reports whether dir's subtree holds at least one story
// file. The walk stops at the first match. A walk error counts as "no
// stories" because the result only drives whether an action is offered.
func (r *Resolver) ContainsStories(dir string) bool {
	found := false
	err := r.fs.Walk(dir, func(e workspace.Entry) bool {
		if !e.IsDir && model.IsStoryFile(e.Name) {
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return false
	}
	return found
}

// Label returns the action label for target.
func Label(target workspace.Entry) string {
	if target.IsDir {
		return LabelFolder
	}
	return LabelFile
}

// File is a story file found below the workspace root.
type File struct {
	// RelPath is the forward-slash path relative to the workspace root.
	RelPath string `json:"path"`

	// Glob is the story glob that runs just this file.
	Glob model.StoryGlob `json:"glob"`

	// Marker is the position of the `export default` anchor, if present.
	Marker *Marker `json:"marker,omitempty"`
}

// List returns every story file below root, sorted by relative path. Each
// file is read to locate its `export default` anchor; unreadable files are
// still listed, without a marker.
func (r *Resolver) List(root string) ([]File, error) {
	var files []File
	err := r.fs.Walk(root, func(e workspace.Entry) bool {
		if e.IsDir || !model.IsStoryFile(e.Name) {
			return true
		}
		rel, ok := workspace.RelativePath(root, e.Path)
		if !ok {
			return true
		}
		f := File{RelPath: rel, Glob: model.StoryGlob(model.GlobPrefix + rel)}
		if content, readErr := r.fs.ReadFile(e.Path); readErr == nil {
			if m, found := FindMarker(content); found {
				f.Marker = &m
			}
		}
		files = append(files, f)
		return true
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})
	return files, nil
}
