// Package console prints qreview's progress and error messages.
//
// Styling goes through a lipgloss renderer bound to the destination writer,
// so colors only appear on terminals that support them and NO_COLOR is
// honored.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Logger writes styled, line-oriented messages.
type Logger struct {
	w io.Writer

	step    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	hint    lipgloss.Style
	faint   lipgloss.Style
}

// New returns a Logger writing to w.
func New(w io.Writer) *Logger {
	r := lipgloss.NewRenderer(w)
	return &Logger{
		w:       w,
		step:    r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("11")),
		err:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		hint:    r.NewStyle().Foreground(lipgloss.Color("14")),
		faint:   r.NewStyle().Faint(true),
	}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

// Step announces a pipeline stage.
func (l *Logger) Step(format string, args ...any) {
	l.line(l.step.Render("==>") + " " + fmt.Sprintf(format, args...))
}

// Info prints a plain indented message.
func (l *Logger) Info(format string, args ...any) {
	l.line("    " + fmt.Sprintf(format, args...))
}

// Success reports a completed run.
func (l *Logger) Success(format string, args ...any) {
	l.line(l.success.Render("ok") + "  " + fmt.Sprintf(format, args...))
}

// Warn reports a non-fatal problem.
func (l *Logger) Warn(format string, args ...any) {
	l.line(l.warn.Render("warning:") + " " + fmt.Sprintf(format, args...))
}

// Error reports a fatal problem.
func (l *Logger) Error(format string, args ...any) {
	l.line(l.err.Render("error:") + " " + fmt.Sprintf(format, args...))
}

// Hint prints a remediation hint.
func (l *Logger) Hint(format string, args ...any) {
	l.line(l.hint.Render("hint:") + " " + fmt.Sprintf(format, args...))
}

// Detail prints multi-line diagnostic text, indented and dimmed.
func (l *Logger) Detail(text string) {
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		l.line(l.faint.Render("    | " + line))
	}
}

// Files lists file paths as bullets.
func (l *Logger) Files(files []string) {
	for _, f := range files {
		l.line("    - " + f)
	}
}

func (l *Logger) line(s string) {
	fmt.Fprintln(l.w, s)
}
