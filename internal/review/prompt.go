package review

import (
	"fmt"
	"strings"

	"github.com/dshills/qreview/internal/gitctx"
)

// aspect is one numbered section of the review checklist.
type aspect struct {
	title string
	items []string
}

var baseAspects = []aspect{
	{"Potential bugs", []string{
		"Mismatched or misspelled variable names",
		"Missing null/undefined/nil checks",
		"Logic errors in conditionals",
		"Out-of-range array or missing-key map access",
	}},
	{"Coding standards", []string{
		"Consistent naming conventions",
		"Comment style",
		"Indentation and formatting",
		"Language-specific best practices",
	}},
	{"Framework conventions", []string{
		"Adherence to the conventions of the framework in use",
		"Application of architectural patterns",
		"How configuration files are written",
	}},
	{"Frontend (if applicable)", []string{
		"CSS/SCSS naming conventions",
		"JavaScript implementation",
		"Responsive design",
	}},
	{"Security", []string{
		"XSS protection (output escaping)",
		"Handling of personal data",
		"SQL injection protection",
	}},
	{"Performance", []string{
		"Duplicated or unnecessary work",
		"Database query efficiency",
		"Appropriate use of caching",
	}},
	{"Readability and maintainability", []string{
		"Simplifying complex conditionals",
		"Replacing magic numbers with named constants",
		"Separation of function responsibilities",
		"Descriptive variable and function names",
	}},
}

// stagedAspect is only checked for staged changes, which are about to be
// committed and should follow the project's own rules.
var stagedAspect = aspect{"Project conventions", []string{
	"Consistency with the existing code in this repository",
	"Project-specific rules and patterns",
	"Commit readiness: no debug output, leftover TODOs, or commented-out code",
}}

const responseFormat = `**Write the review result as plain text (no coloring) in the following format:**

## Review Result

### Good points
- [Well-implemented changes or improvements, if any]

### Critical issues (must fix)
- [Bugs or serious problems, if any]

### Recommended improvements
- [Things that would be better changed, if any]

### Suggestions and comments
- [Any other suggestions or comments]

### Example fixes
- [Concrete example fixes, if any]

If there are no problems, write "No issues found".
Important: do not include ANSI color codes in the output.`

// BuildPrompt returns the review request for diff. It is pure: the same
// inputs always produce the same prompt.
func BuildPrompt(diff string, files []string, mode gitctx.Mode) string {
	return BuildPromptWithConventions(diff, files, mode, nil)
}

// BuildPromptWithConventions is BuildPrompt plus a section describing the
// project's conventions. A nil conv adds nothing.
func BuildPromptWithConventions(diff string, files []string, mode gitctx.Mode, conv *Conventions) string {
	var b strings.Builder

	if mode == gitctx.ModeStaged {
		b.WriteString("Please review the following staged git diff (changes about to be committed). ")
	} else {
		b.WriteString("Please review the following git diff. ")
	}
	b.WriteString("As a code review for this project, check it from the following perspectives:\n\n")
	b.WriteString("## Review aspects\n")

	aspects := baseAspects
	if mode == gitctx.ModeStaged {
		aspects = append(aspects[:len(aspects):len(aspects)], stagedAspect)
	}
	for i, a := range aspects {
		fmt.Fprintf(&b, "\n### %d. **%s**\n", i+1, a.title)
		for _, item := range a.items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}

	if section := conventionsSection(conv); section != "" {
		b.WriteString("\n")
		b.WriteString(section)
	}

	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "**Changed files:** %s\n\n", strings.Join(files, ", "))
	b.WriteString("**Git diff:**\n```diff\n")
	b.WriteString(diff)
	b.WriteString("\n```\n\n---\n\n")
	b.WriteString(responseFormat)

	return b.String()
}
