package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/storybook-runner/internal/model"
	"github.com/shinji-kodama/storybook-runner/internal/story"
	"github.com/shinji-kodama/storybook-runner/internal/workspace"
)

// NewStoriesCommand creates the "stories" cobra command.
func NewStoriesCommand() *cobra.Command {
	flags := &projectFlags{}

	cmd := &cobra.Command{
		Use:   "stories [path]",
		Short: "List story files and their run markers",
		Long: `List every *.stories.ts file below path (default: the workspace root)
with the story glob that runs it and the line of its "export default",
where an editor would place a run marker.

Examples:
  storybook-runner stories
  storybook-runner stories src/app --json`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStories(cmd.OutOrStdout(), targetArg(args), flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runStories(out io.Writer, targetPath string, flags *projectFlags) error {
	p, err := loadProject(targetPath, flags)
	if err != nil {
		return err
	}

	// A directory argument narrows the listing; paths stay root-relative
	// so the globs remain valid.
	files, err := story.NewResolver(p.FS).List(p.Root)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to list story files", err)
	}
	files = filterStories(files, p)
	VerboseLog("Found %d story files", len(files))

	if IsJSONOutput() {
		type resultJSON struct {
			Root    string       `json:"root"`
			Stories []story.File `json:"stories"`
		}
		if files == nil {
			files = []story.File{}
		}
		return printJSON(out, resultJSON{Root: p.Root, Stories: files})
	}
	return printStoriesText(out, files)
}

// filterStories keeps the files inside the project's target. A target equal
// to the root keeps everything; a target outside the root keeps nothing.
func filterStories(files []story.File, p *project) []story.File {
	prefix, ok := workspace.RelativePath(p.Root, p.Target.Path)
	if !ok {
		return nil
	}
	if prefix == "" {
		return files
	}

	var kept []story.File
	for _, f := range files {
		if f.RelPath == prefix || (p.Target.IsDir && strings.HasPrefix(f.RelPath, prefix+"/")) {
			kept = append(kept, f)
		}
	}
	return kept
}

// printStoriesText outputs the story list as a text table.
//
//	LINE  GLOB
//	3     ../src/app/button/button.stories.ts
//	-     ../src/app/empty.stories.ts
func printStoriesText(out io.Writer, files []story.File) error {
	if len(files) == 0 {
		_, err := fmt.Fprintln(out, "No story files found.")
		return err
	}

	if _, err := fmt.Fprintf(out, "%-6s %s\n", "LINE", "GLOB"); err != nil {
		return err
	}
	for _, f := range files {
		if _, err := fmt.Fprintf(out, "%-6s %s\n", FormatMarkerLine(f.Marker), f.Glob); err != nil {
			return err
		}
	}
	return nil
}

// FormatMarkerLine renders a marker's line number, or "-" when the file has
// no `export default`.
func FormatMarkerLine(m *story.Marker) string {
	if m == nil {
		return "-"
	}
	return strconv.Itoa(m.Line)
}
