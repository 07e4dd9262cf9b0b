// Package redact removes secrets from a diff before it is handed to the
// external review tool.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, database URLs with inline credentials, and provider-specific
// tokens (Anthropic, OpenAI, GitHub, Slack).
//
// Path-based redaction is also supported: diff sections for files matching
// configured doublestar globs lose their whole body instead of being
// scanned line by line.
package redact
