package storybook

import (
	"regexp"
	"strings"

	"github.com/shinji-kodama/storybook-runner/internal/model"
)

const (
	// overrideVariable is the identifier the patched config uses for the glob.
	overrideVariable = "storyGlob"

	// storiesReplacement is the stories block written by the patch.
	storiesReplacement = "stories: [" + overrideVariable + "],"
)

var (
	// storiesHeadPattern matches the start of the stories assignment up to
	// and including its opening bracket.
	storiesHeadPattern = regexp.MustCompile(`\bstories\s*:\s*\[`)

	// configAnchorPattern matches the typed configuration object assignment,
	// e.g. `const config: StorybookConfig =`.
	configAnchorPattern = regexp.MustCompile(`\bconst\s+config\s*:\s*[A-Za-z_$][\w$.]*\s*=`)
)

// storiesBlock is the location of the stories assignment within a config text.
type storiesBlock struct {
	// start and end delimit the text to replace: from the `stories` key up to
	// and including the closing bracket and an optional trailing comma.
	start, end int

	// inner is the raw text between the brackets.
	inner string
}

// EnsureGlobOverride patches a Storybook configuration text so the story
// glob is read from STORYBOOK_STORY_GLOB, falling back to the original
// `stories` value.
//
// It returns model.SetupNoStoriesBlock and the unchanged text when no
// `stories: [...]` block is found. Otherwise the status is
// model.SetupSuccess; the caller compares the returned text with the input
// to decide whether a write is needed. Applying EnsureGlobOverride to its own
// output returns that output unchanged.
func EnsureGlobOverride(configText string) (model.SetupStatus, string) {
	block, ok := findStoriesBlock(configText)
	if !ok {
		return model.SetupNoStoriesBlock, configText
	}

	// The array already reads the variable itself.
	if strings.Contains(block.inner, model.StoryGlobEnvVar) {
		return model.SetupSuccess, configText
	}

	fallback := FallbackExpression(StoriesValue(block.inner))

	updated := configText[:block.start] + storiesReplacement + configText[block.end:]

	if !strings.Contains(configText, model.StoryGlobEnvVar) {
		updated = insertDeclaration(updated, declaration(fallback))
	}

	return model.SetupSuccess, updated
}

// StoriesValue normalizes the raw text between the stories brackets: it
// trims whitespace and removes a single trailing comma.
func StoriesValue(inner string) string {
	value := strings.TrimSpace(inner)
	value = strings.TrimSuffix(value, ",")
	return strings.TrimSpace(value)
}

// FallbackExpression converts the original stories value into the
// expression used when STORYBOOK_STORY_GLOB is unset.
//
//   - empty: the default glob literal
//   - several entries (contains a comma): the entries wrapped back into an array
//   - otherwise: the single expression verbatim
func FallbackExpression(value string) string {
	switch {
	case strings.TrimSpace(value) == "":
		return model.DefaultFallbackGlob
	case strings.Contains(value, ","):
		return "[" + value + "]"
	default:
		return value
	}
}

// declaration returns the statement inserted into the config.
func declaration(fallback string) string {
	return "const " + overrideVariable + " = process.env['" + model.StoryGlobEnvVar + "'] ?? " + fallback + ";\n\n"
}

// insertDeclaration places decl immediately before the config assignment,
// keeping the assignment text byte-for-byte, or at the top of the file when
// there is no such assignment.
func insertDeclaration(text, decl string) string {
	loc := configAnchorPattern.FindStringIndex(text)
	if loc == nil {
		return decl + text
	}
	return text[:loc[0]] + decl + text[loc[0]:]
}

// findStoriesBlock locates the first `stories: [` outside comments and
// string literals, and its matching `]`. A comma directly after the closing
// bracket (spaces and tabs allowed in between) belongs to the block so the
// replacement, which ends in a comma, does not double it.
func findStoriesBlock(text string) (storiesBlock, bool) {
	loc := findStoriesHead(text)
	if loc == nil {
		return storiesBlock{}, false
	}

	open := loc[1] - 1
	closing := matchingBracket(text, open)
	if closing < 0 {
		return storiesBlock{}, false
	}

	end := closing + 1
	i := end
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i < len(text) && text[i] == ',' {
		end = i + 1
	}

	return storiesBlock{start: loc[0], end: end, inner: text[open+1 : closing]}, true
}

// findStoriesHead returns the location of the first storiesHeadPattern
// match that starts in code, or nil.
func findStoriesHead(text string) []int {
	matches := storiesHeadPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	next := 0
	for i := 0; i < len(text) && next < len(matches); i++ {
		for next < len(matches) && matches[next][0] < i {
			next++
		}
		if next == len(matches) {
			break
		}
		if matches[next][0] == i {
			return matches[next]
		}

		skipped := skipNonCode(text, i)
		if skipped < 0 {
			return nil
		}
		i = skipped
	}
	return nil
}

// skipNonCode returns the last index of the comment or string literal
// starting at i, i itself when none starts there, or -1 when it is
// unterminated. A line comment ends before its newline.
func skipNonCode(text string, i int) int {
	switch text[i] {
	case '\'', '"', '`':
		return skipString(text, i)
	case '/':
		if i+1 < len(text) && text[i+1] == '/' {
			nl := strings.IndexByte(text[i:], '\n')
			if nl < 0 {
				return len(text) - 1
			}
			return i + nl - 1
		}
		if i+1 < len(text) && text[i+1] == '*' {
			endComment := strings.Index(text[i+2:], "*/")
			if endComment < 0 {
				return -1
			}
			return i + 2 + endComment + 1
		}
	}
	return i
}

// matchingBracket returns the index of the `]` closing the `[` at open, or
// -1. Brackets inside string literals and comments are ignored.
func matchingBracket(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		default:
			skipped := skipNonCode(text, i)
			if skipped < 0 {
				return -1
			}
			i = skipped
		}
	}
	return -1
}

// skipString returns the index of the quote closing the string literal that
// starts at start, or -1 when the literal is unterminated.
func skipString(text string, start int) int {
	quote := text[start]
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}
