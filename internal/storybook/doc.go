// Package storybook reads and rewrites the Storybook configuration of a
// workspace.
//
// The main job is a one-time, idempotent text patch of .storybook/main.ts:
//
//   - a `const storyGlob = process.env['STORYBOOK_STORY_GLOB'] ?? <fallback>;`
//     declaration is inserted before the `const config: StorybookConfig =`
//     statement (or at the top of the file), where the fallback is the
//     original `stories` value;
//   - the original `stories: [...]` block is replaced by `stories: [storyGlob],`.
//
// The patch is textual, not a TypeScript parse. Re-applying it to an already
// patched file produces identical bytes, so the file is written at most once.
//
// The package also inspects package.json (JSONC tolerant, via
// github.com/tidwall/jsonc) to check that the `storybook` run script exists.
package storybook
