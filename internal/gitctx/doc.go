// Package gitctx collects the diff and changed-file list that qreview sends
// to the review tool.
//
// Two modes are supported, [ModeFull] (working tree vs index, `git diff`) and
// [ModeStaged] (index vs HEAD, `git diff --cached`). Both the diff and the
// file list for a run are always queried with the same mode. [Git] is the
// production [Collector]; tests substitute their own.
//
// [Exclude] drops diff sections and file-list entries matching doublestar
// globs, keeping the two in agreement.
package gitctx
