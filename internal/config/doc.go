// Package config loads and merges qreview configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (QREVIEW_PROJECT_ROOT, QREVIEW_REPORT_PATH,
//     QREVIEW_COMMAND, QREVIEW_CONTEXT_LINES, QREVIEW_TIMEOUT, QREVIEW_STREAM)
//  3. Config file ($XDG_CONFIG_HOME/qreview/config.toml)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write a config file,
// [SetField] to update a single dotted key, and [Config.Layout] to resolve
// the project root and report path for a run.
package config
