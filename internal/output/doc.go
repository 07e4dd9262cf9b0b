// Package output renders the markdown review report.
//
// A [MarkdownWriter] produces two documents: the full report (title,
// generation timestamp, changed-file bullets, the review text between
// horizontal rules, and an attribution footer) and a placeholder used when
// there is nothing to review. Each write replaces the report file in a single
// call; failures surface as [*WriteError].
package output
