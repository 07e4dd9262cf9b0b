// Package cli wires together the Cobra command tree for the qreview binary.
//
// It defines the root command and all subcommands (full, staged, config,
// cache, hook, show, version), binds flags, reads configuration, runs the
// review pipeline, and maps outcomes to exit codes: 0 on success or an empty
// diff, 1 when the review fails, 2 for usage and configuration errors.
package cli
