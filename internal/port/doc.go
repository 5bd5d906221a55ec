// Package port checks whether the Storybook dev server port is free before
// a launch.
//
// Storybook listens on 6006 by default and prompts for another port when it
// is taken. The run command uses the Scanner to warn about that up front and
// to name the next free port, which is informational only: the launch goes
// ahead either way.
package port
