package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dshills/qreview/internal/gitctx"
)

// TimestampFormat is the ISO-8601 layout used in reports (UTC, milliseconds).
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// DefaultReviewerName is credited in the footer when no name is configured.
const DefaultReviewerName = "Amazon Q"

// WriteError is returned when the report file cannot be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// MarkdownWriter renders review reports and writes them to Path, replacing
// whatever the file held before.
type MarkdownWriter struct {
	Path         string
	ReviewerName string
	Now          func() time.Time
}

// Write renders a full report and writes it to Path.
func (m *MarkdownWriter) Write(review string, files []string, mode gitctx.Mode) error {
	var buf bytes.Buffer
	if err := m.Render(&buf, review, files, mode); err != nil {
		return err
	}
	return m.writeFile(buf.Bytes())
}

// WriteEmpty writes the placeholder report used when nothing is pending review.
func (m *MarkdownWriter) WriteEmpty(mode gitctx.Mode) error {
	var buf bytes.Buffer
	if err := m.RenderEmpty(&buf, mode); err != nil {
		return err
	}
	return m.writeFile(buf.Bytes())
}

// Render writes a full report to w.
func (m *MarkdownWriter) Render(w io.Writer, review string, files []string, mode gitctx.Mode) error {
	var b bytes.Buffer

	fmt.Fprintf(&b, "%s\n\n", title(mode))
	fmt.Fprintf(&b, "**Generated:** %s\n\n", m.timestamp())

	fmt.Fprintf(&b, "## Changed files\n\n")
	if len(files) == 0 {
		fmt.Fprintf(&b, "_No file list reported by git._\n")
	}
	for _, f := range files {
		fmt.Fprintf(&b, "- `%s`\n", f)
	}

	fmt.Fprintf(&b, "\n---\n\n")
	fmt.Fprintf(&b, "%s\n\n", review)
	fmt.Fprintf(&b, "---\n")
	fmt.Fprintf(&b, "*Automated review by %s*\n", m.reviewerName())

	_, err := w.Write(b.Bytes())
	return err
}

// RenderEmpty writes the placeholder report to w.
func (m *MarkdownWriter) RenderEmpty(w io.Writer, mode gitctx.Mode) error {
	var b bytes.Buffer

	fmt.Fprintf(&b, "%s\n\n", title(mode))
	if mode == gitctx.ModeStaged {
		fmt.Fprintf(&b, "No staged changes are pending review.\n\n")
		fmt.Fprintf(&b, "Stage the files you want reviewed, then run the review again:\n\n")
		fmt.Fprintf(&b, "```sh\ngit add <path>...\nqreview staged\n```\n\n")
	} else {
		fmt.Fprintf(&b, "No changes are pending review.\n\n")
	}
	fmt.Fprintf(&b, "---\n")
	fmt.Fprintf(&b, "*Last updated: %s*\n", m.timestamp())

	_, err := w.Write(b.Bytes())
	return err
}

func (m *MarkdownWriter) writeFile(data []byte) error {
	if err := os.WriteFile(m.Path, data, 0o644); err != nil {
		return &WriteError{Path: m.Path, Err: err}
	}
	return nil
}

func (m *MarkdownWriter) timestamp() string {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return now().UTC().Format(TimestampFormat)
}

func (m *MarkdownWriter) reviewerName() string {
	if m.ReviewerName != "" {
		return m.ReviewerName
	}
	return DefaultReviewerName
}

func title(mode gitctx.Mode) string {
	if mode == gitctx.ModeStaged {
		return "# Git Diff Review (staged changes)"
	}
	return "# Git Diff Review"
}
