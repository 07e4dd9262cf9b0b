package redact

import (
	"regexp"
	"strings"

	"github.com/dshills/qreview/internal/gitctx"
)

const placeholder = "[REDACTED]"

// pathPolicyNote replaces the body of a diff section redacted by path.
const pathPolicyNote = placeholder + " (file content redacted by path policy)\n"

// secretPatterns are regex heuristics for common secret types.
var secretPatterns = []*regexp.Regexp{
	// Generic API keys (long hex/base64 strings after common key patterns)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// AWS secret access keys
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	// Generic secrets/tokens/passwords in assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Private key blocks
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`),
	// Database URLs with inline credentials
	regexp.MustCompile(`(?i)\b(postgres(ql)?|mysql|mongodb(\+srv)?|redis|amqp)://[^\s:/@]+:[^\s@]+@`),
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Slack tokens
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	// OpenAI API keys
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
	// Generic long hex strings in an assignment
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// Secrets replaces detected secrets in text with [REDACTED] and reports how
// many replacements were made.
func Secrets(text string) (string, int) {
	result := text
	count := 0
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllStringFunc(result, func(string) string {
			count++
			return placeholder
		})
	}
	return result, count
}

// ShouldRedactPath reports whether path matches any redaction glob.
func ShouldRedactPath(path string, patterns []string) bool {
	return gitctx.MatchesAny(path, patterns)
}

// Stats summarizes what Diff removed.
type Stats struct {
	Secrets int
	Files   []string
}

// Diff redacts a unified diff section by section. Sections whose path
// matches redactPaths keep only their "diff --git" header; all other
// sections are scanned for secrets.
func Diff(diff string, redactPaths []string) (string, Stats) {
	var stats Stats
	var b strings.Builder
	for _, section := range gitctx.SplitSections(diff) {
		path := gitctx.SectionPath(section)
		if path != "" && ShouldRedactPath(path, redactPaths) {
			header, _, _ := strings.Cut(section, "\n")
			b.WriteString(header)
			b.WriteString("\n")
			b.WriteString(pathPolicyNote)
			stats.Files = append(stats.Files, path)
			continue
		}
		redacted, n := Secrets(section)
		stats.Secrets += n
		b.WriteString(redacted)
	}
	return b.String(), stats
}
