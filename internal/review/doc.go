// Package review turns a git diff into a review report.
//
// [BuildPrompt] assembles the natural-language review request: a numbered
// checklist of review aspects (staged runs add a project-conventions
// aspect), the comma-joined list of changed files, the diff in a fenced
// block, and the required response layout. [LoadConventions] reads the
// optional .review-conventions.yaml file whose framework, focus areas and
// rules are appended to the prompt.
//
// [Pipeline] drives a single run: change into the project root, collect the
// diff and file list, short-circuit to a placeholder report when nothing
// changed, redact secrets, ask the external review tool (or the cache), and
// write the report. Any failure stops the run before the report is written.
package review
