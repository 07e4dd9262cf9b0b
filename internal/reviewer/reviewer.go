package reviewer

import (
	"context"
	"fmt"
	"strings"
)

// Reviewer is the review tool abstraction.
type Reviewer interface {
	Run(ctx context.Context, prompt string) (string, error)
	Name() string
}

// ToolNotFoundError means the review command is not resolvable on PATH.
type ToolNotFoundError struct {
	Command string
	Err     error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("review tool %q not found on PATH", e.Command)
}

func (e *ToolNotFoundError) Unwrap() error { return e.Err }

// ProcessError means the review process could not be started, could not be
// fed its prompt, or exited with a non-zero status. ExitCode is -1 when the
// process never produced an exit status.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "review process %q", e.Command)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with code %d", e.ExitCode)
	} else {
		b.WriteString(" failed")
	}
	if e.Err != nil && e.ExitCode < 0 {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", s)
	}
	return b.String()
}

func (e *ProcessError) Unwrap() error { return e.Err }
