// Package cache keeps review outputs on disk so an unchanged prompt does not
// have to be sent to the review tool again.
//
// Entries are keyed by [BuildKey], a SHA-256 over the review command line
// and the full prompt, and expire after a TTL. The default directory is
// $XDG_CACHE_HOME/qreview (or the OS-appropriate equivalent). Prompts are
// redacted before they are keyed, so secrets never reach the cache.
package cache
