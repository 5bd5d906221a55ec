package storybook

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/storybook-runner/internal/model"
	"github.com/shinji-kodama/storybook-runner/internal/workspace"
)

// PackageInfo describes the workspace's package.json as far as launching
// Storybook is concerned.
type PackageInfo struct {
	// Path is the absolute path of package.json.
	Path string `json:"path"`

	// Exists is false when the workspace has no package.json.
	Exists bool `json:"exists"`

	// HasRunScript is true when scripts.storybook is defined and non-empty.
	HasRunScript bool `json:"hasRunScript"`
}

// packageManifest captures only the scripts section; encoding/json ignores
// every other field.
type packageManifest struct {
	Scripts map[string]string `json:"scripts"`
}

// InspectPackage reads <root>/package.json and reports whether
// `npm run storybook` has a script to run.
//
// Comments and trailing commas are stripped with github.com/tidwall/jsonc
// before parsing, since some tooling writes package.json by hand. A missing
// file is not an error; a file that cannot be read or parsed is.
func InspectPackage(fsys workspace.FileSystem, root string) (PackageInfo, error) {
	info := PackageInfo{Path: filepath.Join(root, "package.json")}

	exists, err := workspace.Exists(fsys, info.Path)
	if err != nil {
		return info, err
	}
	if !exists {
		return info, nil
	}
	info.Exists = true

	raw, err := fsys.ReadFile(info.Path)
	if err != nil {
		return info, fmt.Errorf("failed to read package.json: %w", err)
	}

	var manifest packageManifest
	if err := json.Unmarshal(jsonc.ToJSON([]byte(raw)), &manifest); err != nil {
		return info, fmt.Errorf("failed to parse package.json at %s: %w", info.Path, err)
	}

	info.HasRunScript = manifest.Scripts[model.RunScriptName] != ""
	return info, nil
}
