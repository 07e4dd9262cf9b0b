package reviewer

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shell returns a CLI that runs script with sh -c.
func shell(t *testing.T, script string, opts ...Option) *CLI {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	return NewCLI("sh", []string{"-c", script}, opts...)
}

func TestNewCLI_Defaults(t *testing.T) {
	c := NewCLI("", nil)
	assert.Equal(t, []string{"q", "chat"}, c.Command())
	assert.Equal(t, "q", c.Name())

	named := NewCLI("claude", []string{"-p"}, WithName("Claude"))
	assert.Equal(t, []string{"claude", "-p"}, named.Command())
	assert.Equal(t, "Claude", named.Name())
}

func TestCLI_Run_StripsColor(t *testing.T) {
	c := shell(t, `cat >/dev/null; printf '\033[32mLooks good\033[0m'`)

	out, err := c.Run(context.Background(), "review this")
	require.NoError(t, err)
	assert.Equal(t, "Looks good", out)
}

func TestCLI_Run_PromptOnStdin(t *testing.T) {
	c := shell(t, `cat`)

	prompt := "line one\nline two with `code`\n"
	out, err := c.Run(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, prompt, out)
}

func TestCLI_Run_LargePromptDoesNotDeadlock(t *testing.T) {
	// tee echoes stdin to stdout and stderr, so both pipes
	// must be drained while the prompt is still being written.
	c := shell(t, `tee /dev/stderr`)

	prompt := strings.Repeat("0123456789abcdef\n", 64*1024)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := c.Run(ctx, prompt)
	require.NoError(t, err)
	assert.Equal(t, len(prompt), len(out))
}

func TestCLI_Run_ColorEnvironment(t *testing.T) {
	c := shell(t, `cat >/dev/null; printf '%s:%s' "$NO_COLOR" "$FORCE_COLOR"`)

	out, err := c.Run(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "1:0", out)
}

func TestCLI_Run_ExtraEnv(t *testing.T) {
	c := shell(t, `cat >/dev/null; printf '%s' "$QREVIEW_TEST_VALUE"`, WithEnv("QREVIEW_TEST_VALUE=hello"))

	out, err := c.Run(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestCLI_Run_NonZeroExit(t *testing.T) {
	c := shell(t, `cat >/dev/null; echo partial; echo boom >&2; exit 2`)

	out, err := c.Run(context.Background(), "x")
	assert.Empty(t, out)

	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.ExitCode)
	assert.Equal(t, "boom\n", pe.Stderr)
	assert.Contains(t, err.Error(), "exited with code 2")
	assert.Contains(t, err.Error(), "boom")
}

func TestCLI_Run_ToolNotFound(t *testing.T) {
	var looked []string
	c := NewCLI("qreview-no-such-tool", []string{"chat"})
	c.lookPath = func(file string) (string, error) {
		looked = append(looked, file)
		return "", exec.ErrNotFound
	}

	_, err := c.Run(context.Background(), "x")

	var nf *ToolNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "qreview-no-such-tool", nf.Command)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
	assert.Equal(t, []string{"qreview-no-such-tool"}, looked)
}

func TestCLI_Run_ToolNotFoundOnPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	c := NewCLI("q", []string{"chat"})

	_, err := c.Run(context.Background(), "x")

	var nf *ToolNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, err.Error(), `"q" not found`)
}

func TestCLI_Run_Stream(t *testing.T) {
	var live bytes.Buffer
	c := shell(t, `cat >/dev/null; printf '\033[1mhi\033[0m'`, WithStream(&live))

	out, err := c.Run(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
	assert.Equal(t, "\x1b[1mhi\x1b[0m", live.String())
}

func TestCLI_Run_ContextCancel(t *testing.T) {
	c := shell(t, `exec sleep 5`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Run(ctx, "x")
	assert.Less(t, time.Since(start), 4*time.Second)

	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, -1, pe.ExitCode)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCLI_Run_ContextCancelWithDescendantHoldingPipes(t *testing.T) {
	// The background sleep inherits stdout and stderr and outlives sh.
	c := shell(t, `sleep 5 & wait`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Run(ctx, "x")
	assert.Less(t, time.Since(start), 3*time.Second)

	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcessError_Message(t *testing.T) {
	started := &ProcessError{Command: "q", ExitCode: -1, Err: errors.New("permission denied")}
	assert.Equal(t, `review process "q" failed: permission denied`, started.Error())

	exited := &ProcessError{Command: "q", ExitCode: 3, Stderr: "  not logged in\n", Err: errors.New("exit status 3")}
	assert.Equal(t, `review process "q" exited with code 3: not logged in`, exited.Error())
}
