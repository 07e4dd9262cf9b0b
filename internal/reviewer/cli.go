package reviewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// DefaultCommand and DefaultArgs launch Amazon Q's chat mode.
const DefaultCommand = "q"

var DefaultArgs = []string{"chat"}

// colorEnv disables colored output in the review tool.
var colorEnv = []string{"NO_COLOR=1", "FORCE_COLOR=0"}

// Option configures a CLI.
type Option func(*CLI)

// WithName sets the human-readable tool name used in reports.
func WithName(name string) Option {
	return func(c *CLI) {
		c.name = name
	}
}

// WithStream copies the tool's raw standard output to w while it runs.
func WithStream(w io.Writer) Option {
	return func(c *CLI) {
		c.stream = w
	}
}

// WithEnv adds KEY=VALUE entries to the tool's environment.
func WithEnv(env ...string) Option {
	return func(c *CLI) {
		c.env = append(c.env, env...)
	}
}

// CLI runs an external review command, feeding the prompt on stdin.
type CLI struct {
	command string
	args    []string
	name    string
	env     []string
	stream  io.Writer

	lookPath func(string) (string, error)
}

var _ Reviewer = (*CLI)(nil)

// NewCLI creates a CLI reviewer for command and args. An empty command
// selects DefaultCommand with DefaultArgs.
func NewCLI(command string, args []string, opts ...Option) *CLI {
	if command == "" {
		command = DefaultCommand
		if args == nil {
			args = DefaultArgs
		}
	}
	c := &CLI{
		command:  command,
		args:     append([]string(nil), args...),
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the configured tool name, or the command.
func (c *CLI) Name() string {
	if c.name != "" {
		return c.name
	}
	return c.command
}

// Command returns the command line the reviewer runs.
func (c *CLI) Command() []string {
	return append([]string{c.command}, c.args...)
}

// Run spawns the review command, writes prompt to its stdin, closes it, and
// collects stdout and stderr until the process exits. On success the
// stdout text is returned with color sequences removed.
func (c *CLI) Run(ctx context.Context, prompt string) (string, error) {
	path, err := c.lookPath(c.command)
	if err != nil {
		return "", &ToolNotFoundError{Command: c.command, Err: err}
	}

	cmd := exec.CommandContext(ctx, path, c.args...)
	cmd.Env = append(append(os.Environ(), colorEnv...), c.env...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", c.startError(err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", c.startError(err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", c.startError(err)
	}
	if err := cmd.Start(); err != nil {
		return "", c.startError(err)
	}

	var outBuf, errBuf bytes.Buffer
	var out io.Writer = &outBuf
	if c.stream != nil {
		out = io.MultiWriter(&outBuf, c.stream)
	}

	// Killing the process does not end the copies while a descendant still
	// holds the pipes open, so cancellation closes our ends too.
	stop := context.AfterFunc(ctx, func() {
		stdin.Close()
		stdout.Close()
		stderr.Close()
	})
	defer stop()

	var writeErr error
	var g errgroup.Group
	g.Go(func() error {
		_, writeErr = io.WriteString(stdin, prompt)
		if cerr := stdin.Close(); writeErr == nil {
			writeErr = cerr
		}
		return nil
	})
	g.Go(func() error {
		_, err := io.Copy(out, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	readErr := g.Wait()
	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", &ProcessError{Command: c.command, ExitCode: -1, Stderr: errBuf.String(), Err: ctxErr}
	}
	if waitErr != nil {
		pe := &ProcessError{Command: c.command, ExitCode: -1, Stderr: errBuf.String(), Err: waitErr}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			pe.ExitCode = exitErr.ExitCode()
		}
		return "", pe
	}
	if writeErr != nil {
		return "", &ProcessError{Command: c.command, ExitCode: -1, Stderr: errBuf.String(),
			Err: fmt.Errorf("writing prompt: %w", writeErr)}
	}
	if readErr != nil {
		return "", &ProcessError{Command: c.command, ExitCode: -1, Stderr: errBuf.String(),
			Err: fmt.Errorf("reading output: %w", readErr)}
	}

	return StripANSI(outBuf.String()), nil
}

func (c *CLI) startError(err error) error {
	return &ProcessError{Command: c.command, ExitCode: -1, Err: fmt.Errorf("starting: %w", err)}
}
