package output

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/qreview/internal/gitctx"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 3, 1, 12, 30, 45, 123_000_000, time.FixedZone("JST", 9*60*60))
}

func TestMarkdownWriter_Render(t *testing.T) {
	w := &MarkdownWriter{ReviewerName: "Amazon Q", Now: fixedNow}

	var buf bytes.Buffer
	err := w.Render(&buf, "Looks good", []string{"x"}, gitctx.ModeFull)
	require.NoError(t, err)

	want := "# Git Diff Review\n\n" +
		"**Generated:** 2026-03-01T03:30:45.123Z\n\n" +
		"## Changed files\n\n" +
		"- `x`\n" +
		"\n---\n\n" +
		"Looks good\n\n" +
		"---\n" +
		"*Automated review by Amazon Q*\n"
	assert.Equal(t, want, buf.String())
}

func TestMarkdownWriter_FileBulletsInOrder(t *testing.T) {
	files := []string{"z/last.go", "a/first.go", "with space.txt", "m.go"}
	w := &MarkdownWriter{Now: fixedNow}

	var buf bytes.Buffer
	require.NoError(t, w.Render(&buf, "review", files, gitctx.ModeStaged))
	out := buf.String()

	prev := -1
	for _, f := range files {
		bullet := "- `" + f + "`\n"
		idx := strings.Index(out, bullet)
		require.GreaterOrEqual(t, idx, 0, "missing bullet for %s", f)
		assert.Greater(t, idx, prev, "bullet for %s out of order", f)
		prev = idx
	}
	assert.Equal(t, len(files), strings.Count(out, "\n- `"))
	assert.Contains(t, out, "(staged changes)")
}

func TestMarkdownWriter_ReviewVerbatim(t *testing.T) {
	review := "## Findings\n\n- **bug** in `x`\n\n```go\nfmt.Println()\n```"
	w := &MarkdownWriter{Now: fixedNow}

	var buf bytes.Buffer
	require.NoError(t, w.Render(&buf, review, []string{"x"}, gitctx.ModeFull))
	assert.Contains(t, buf.String(), "\n---\n\n"+review+"\n\n---\n")
}

func TestMarkdownWriter_DefaultReviewerName(t *testing.T) {
	w := &MarkdownWriter{Now: fixedNow}

	var buf bytes.Buffer
	require.NoError(t, w.Render(&buf, "ok", nil, gitctx.ModeFull))
	assert.Contains(t, buf.String(), "*Automated review by Amazon Q*")
	assert.Contains(t, buf.String(), "_No file list reported by git._")
}

func TestMarkdownWriter_RenderEmpty(t *testing.T) {
	w := &MarkdownWriter{Now: fixedNow}

	var full bytes.Buffer
	require.NoError(t, w.RenderEmpty(&full, gitctx.ModeFull))
	assert.Contains(t, full.String(), "No changes are pending review.")
	assert.NotContains(t, full.String(), "git add")
	assert.Contains(t, full.String(), "*Last updated: 2026-03-01T03:30:45.123Z*")

	var staged bytes.Buffer
	require.NoError(t, w.RenderEmpty(&staged, gitctx.ModeStaged))
	assert.Contains(t, staged.String(), "No staged changes are pending review.")
	assert.Contains(t, staged.String(), "git add <path>")
	assert.Contains(t, staged.String(), "qreview staged")
}

func TestMarkdownWriter_WriteEmptyTimestampIsISO8601(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review-result.md")
	w := &MarkdownWriter{Path: path}

	require.NoError(t, w.WriteEmpty(gitctx.ModeFull))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	m := regexp.MustCompile(`\*Last updated: ([^*]+)\*`).FindStringSubmatch(string(data))
	require.Len(t, m, 2)
	_, err = time.Parse(time.RFC3339Nano, m[1])
	assert.NoError(t, err)
}

func TestMarkdownWriter_WriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review-result.md")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("old report\n", 500)), 0o644))

	w := &MarkdownWriter{Path: path, Now: fixedNow}
	require.NoError(t, w.Write("new", []string{"a.go"}, gitctx.ModeFull))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old report")

	var want bytes.Buffer
	require.NoError(t, w.Render(&want, "new", []string{"a.go"}, gitctx.ModeFull))
	assert.Equal(t, want.String(), string(data))
}

func TestMarkdownWriter_RepeatedWritesDifferOnlyInTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review-result.md")
	tick := fixedNow()
	w := &MarkdownWriter{Path: path, Now: func() time.Time {
		tick = tick.Add(1500 * time.Millisecond)
		return tick
	}}

	require.NoError(t, w.Write("Looks good", []string{"x", "y"}, gitctx.ModeStaged))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, w.Write("Looks good", []string{"x", "y"}, gitctx.ModeStaged))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotEqual(t, string(first), string(second))
	ts := regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z`)
	assert.Equal(t, ts.ReplaceAllString(string(first), "TS"), ts.ReplaceAllString(string(second), "TS"))
}

func TestMarkdownWriter_WriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "review-result.md")
	w := &MarkdownWriter{Path: path}

	err := w.Write("x", nil, gitctx.ModeFull)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, path, we.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
