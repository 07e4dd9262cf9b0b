package cli

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/dshills/qreview/internal/console"
	"github.com/dshills/qreview/internal/gitctx"
	"github.com/dshills/qreview/internal/output"
	"github.com/dshills/qreview/internal/reviewer"
)

// reportFailure prints err with any captured stderr and the remediation
// hints for its kind.
func reportFailure(log *console.Logger, err error) {
	headline, rest, _ := strings.Cut(err.Error(), "\n")
	log.Error("review failed: %s", headline)
	log.Detail(rest)
	for _, h := range hints(err) {
		log.Hint("%s", h)
	}
}

// hints returns remediation advice keyed on the error's type.
func hints(err error) []string {
	var (
		diffErr     *gitctx.DiffError
		notFoundErr *reviewer.ToolNotFoundError
		processErr  *reviewer.ProcessError
		writeErr    *output.WriteError
	)
	switch {
	case errors.As(err, &diffErr):
		return []string{"make sure qreview runs inside a git repository (check --root or project_root)"}
	case errors.As(err, &notFoundErr):
		return []string{
			"make sure the review CLI is installed and on your PATH",
			"check with: " + notFoundErr.Command + " --version",
		}
	case errors.As(err, &processErr):
		if errors.Is(err, context.DeadlineExceeded) {
			return []string{"the review timed out; raise --timeout or reviewer.timeout_seconds"}
		}
		if errors.Is(err, context.Canceled) {
			return []string{"the review was interrupted"}
		}
		return []string{"make sure the review CLI works: " + processErr.Command + " --version"}
	case errors.As(err, &writeErr):
		return []string{"make sure " + filepath.Dir(writeErr.Path) + " exists and is writable (or pass --out)"}
	}
	return nil
}
