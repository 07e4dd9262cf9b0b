// Package reviewer runs the external AI review tool.
//
// [Reviewer] is the single capability the review pipeline depends on: hand
// it a prompt, get back plain text. [CLI] implements it by spawning an
// interactive command-line tool (Amazon Q's `q chat` by default), piping the
// prompt to its standard input and collecting its standard output. Color is
// disabled through NO_COLOR/FORCE_COLOR and any remaining SGR sequences are
// removed with [StripANSI].
//
// Failures are reported as [*ToolNotFoundError] (nothing was spawned) or
// [*ProcessError] (the process failed to start, could not be fed, or exited
// non-zero). Nothing is retried.
package reviewer
