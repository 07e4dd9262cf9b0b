package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/qreview/internal/gitctx"
)

const sampleDiff = "diff --git a/a.go b/a.go\n--- a/a.go\n+++ b/a.go\n@@ -1 +1 @@\n-x := 1\n+x := 2\n"

func TestBuildPrompt_EmbedsFilesAndDiff(t *testing.T) {
	p := BuildPrompt(sampleDiff, []string{"a.go", "b/c.php"}, gitctx.ModeFull)

	assert.Contains(t, p, "**Changed files:** a.go, b/c.php\n")
	assert.Contains(t, p, "```diff\n"+sampleDiff+"\n```\n")
	assert.Contains(t, p, "do not include ANSI color codes")
	assert.Contains(t, p, "plain text (no coloring)")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	files := []string{"a.go"}
	for _, mode := range []gitctx.Mode{gitctx.ModeFull, gitctx.ModeStaged} {
		assert.Equal(t, BuildPrompt(sampleDiff, files, mode), BuildPrompt(sampleDiff, files, mode))
	}
}

func TestBuildPrompt_StagedAddsConventionsAspect(t *testing.T) {
	full := BuildPrompt(sampleDiff, []string{"a.go"}, gitctx.ModeFull)
	staged := BuildPrompt(sampleDiff, []string{"a.go"}, gitctx.ModeStaged)

	assert.NotContains(t, full, "**Project conventions**")
	assert.Contains(t, staged, "### 8. **Project conventions**")
	assert.Contains(t, full, "### 7. **Readability and maintainability**")
	assert.NotContains(t, full, "### 8.")
	assert.Contains(t, staged, "staged git diff")

	// The staged aspect must not leak into the shared list.
	again := BuildPrompt(sampleDiff, []string{"a.go"}, gitctx.ModeFull)
	assert.Equal(t, full, again)
}

func TestBuildPrompt_DiffVerbatim(t *testing.T) {
	diff := "+ tricky ``` fence and \t tab\n+ unicode: héllo\n"
	p := BuildPrompt(diff, nil, gitctx.ModeFull)
	assert.Contains(t, p, diff)
	assert.Contains(t, p, "**Changed files:** \n")
}

func TestBuildPromptWithConventions(t *testing.T) {
	conv := &Conventions{
		Framework: "Laravel",
		Focus:     []string{"naming", "security"},
		Rules: []Rule{
			{ID: "N1", Text: "Controllers end with Controller"},
			{Text: "No raw SQL"},
		},
		Notes: "Prefer Eloquent scopes.",
	}
	p := BuildPromptWithConventions(sampleDiff, []string{"a.go"}, gitctx.ModeStaged, conv)

	assert.Contains(t, p, "## Project conventions\n")
	assert.Contains(t, p, "Framework: Laravel.")
	assert.Contains(t, p, "Focus areas: naming, security.")
	assert.Contains(t, p, "- [N1] Controllers end with Controller\n")
	assert.Contains(t, p, "- No raw SQL\n")
	assert.Contains(t, p, "Prefer Eloquent scopes.")

	// The conventions section comes before the diff.
	assert.Less(t, strings.Index(p, "## Project conventions"), strings.Index(p, "```diff"))
}

func TestBuildPromptWithConventions_NilOrEmpty(t *testing.T) {
	base := BuildPrompt(sampleDiff, []string{"a.go"}, gitctx.ModeFull)
	assert.Equal(t, base, BuildPromptWithConventions(sampleDiff, []string{"a.go"}, gitctx.ModeFull, nil))
	assert.Equal(t, base, BuildPromptWithConventions(sampleDiff, []string{"a.go"}, gitctx.ModeFull, &Conventions{}))
}
