// Qreview asks an AI review CLI to review your uncommitted git changes and
// writes its answer to a markdown report.
//
// The diff is collected from the project root, secrets are redacted, and the
// prompt is piped to the review tool (Amazon Q's "q chat" by default). The
// tool's color-stripped answer lands in review-result.md next to the qreview
// executable unless --out or report_path says otherwise.
//
// Usage:
//
//	qreview full                  # review all working-tree changes
//	qreview staged                # review only staged changes
//	qreview show                  # print the last report
//	qreview hook install          # review staged changes on every commit
//	qreview config init           # write a default config file
//
// Exit codes: 0 on success or when there is nothing to review, 1 when the
// review fails, 2 for usage or configuration errors.
package main
