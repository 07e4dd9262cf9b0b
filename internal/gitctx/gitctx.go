package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Mode selects which delta of the repository is reviewed.
type Mode string

const (
	ModeFull   Mode = "full"
	ModeStaged Mode = "staged"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFull:
		return ModeFull, nil
	case ModeStaged:
		return ModeStaged, nil
	default:
		return "", fmt.Errorf("unknown review mode: %q (want %q or %q)", s, ModeFull, ModeStaged)
	}
}

// DiffSet holds the collected diff and the files it touches.
type DiffSet struct {
	Diff  string
	Files []string
	Mode  Mode
}

// Empty reports whether there is nothing to review.
func (d DiffSet) Empty() bool {
	return strings.TrimSpace(d.Diff) == ""
}

// Collector queries the version-control tool.
type Collector interface {
	Diff(ctx context.Context, mode Mode) (string, error)
	ChangedFiles(ctx context.Context, mode Mode) ([]string, error)
}

// DiffError is returned when a git query fails or git cannot be run.
type DiffError struct {
	Mode   Mode
	Op     string
	Stderr string
	Err    error
}

func (e *DiffError) Error() string {
	msg := fmt.Sprintf("git %s (%s): %v", e.Op, e.Mode, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *DiffError) Unwrap() error { return e.Err }

// Git is the Collector backed by the git binary. An empty Dir runs git in
// the current working directory.
type Git struct {
	Dir          string
	ContextLines int
}

var _ Collector = (*Git)(nil)

// Diff returns the unified diff for mode verbatim. No changes yields "".
func (g *Git) Diff(ctx context.Context, mode Mode) (string, error) {
	args, err := g.diffArgs(mode)
	if err != nil {
		return "", err
	}
	out, err := g.output(ctx, args...)
	if err != nil {
		return "", wrapDiffError(mode, strings.Join(args, " "), err)
	}
	return out, nil
}

// ChangedFiles returns the paths touched by mode, in the order git reports them.
func (g *Git) ChangedFiles(ctx context.Context, mode Mode) ([]string, error) {
	args, err := g.diffArgs(mode)
	if err != nil {
		return nil, err
	}
	args = append(args, "--name-only")
	out, err := g.output(ctx, args...)
	if err != nil {
		return nil, wrapDiffError(mode, strings.Join(args, " "), err)
	}
	return splitLines(out), nil
}

// Collect runs both queries for mode and assembles a DiffSet.
func Collect(ctx context.Context, c Collector, mode Mode) (DiffSet, error) {
	diff, err := c.Diff(ctx, mode)
	if err != nil {
		return DiffSet{}, err
	}
	files, err := c.ChangedFiles(ctx, mode)
	if err != nil {
		return DiffSet{}, err
	}
	return DiffSet{Diff: diff, Files: files, Mode: mode}, nil
}

func (g *Git) diffArgs(mode Mode) ([]string, error) {
	args := []string{"diff"}
	switch mode {
	case ModeFull:
	case ModeStaged:
		args = append(args, "--cached")
	default:
		return nil, &DiffError{Mode: mode, Op: "diff", Err: fmt.Errorf("unknown mode %q", mode)}
	}
	if g.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-U%d", g.ContextLines))
	}
	return args, nil
}

func (g *Git) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	out, err := cmd.Output()
	return string(out), err
}

func wrapDiffError(mode Mode, op string, err error) error {
	de := &DiffError{Mode: mode, Op: op, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		de.Stderr = strings.TrimSpace(string(exitErr.Stderr))
	}
	return de
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// GetRepoMeta collects repository metadata for the repository containing dir.
func GetRepoMeta(ctx context.Context, dir string) (RepoMeta, error) {
	root, err := gitOutput(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}
	head, err := gitOutput(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		head = "" // new repo with no commits
	}
	branch, err := gitOutput(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// GitDir returns the .git directory of the repository containing dir.
func GitDir(ctx context.Context, dir string) (string, error) {
	out, err := gitOutput(ctx, dir, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Exclude removes diff sections and file-list entries whose path matches
// any of the doublestar patterns.
func Exclude(set DiffSet, patterns []string) DiffSet {
	if len(patterns) == 0 {
		return set
	}
	return DiffSet{
		Diff:  filterExcluded(set.Diff, patterns),
		Files: filterFileList(set.Files, patterns),
		Mode:  set.Mode,
	}
}

func filterExcluded(diff string, excludes []string) string {
	sections := SplitSections(diff)
	var kept []string
	for _, section := range sections {
		path := SectionPath(section)
		if path == "" || !MatchesAny(path, excludes) {
			kept = append(kept, section)
		}
	}
	return strings.Join(kept, "")
}

// SplitSections splits a unified diff into per-file sections, each starting
// at a "diff --git" header. Text before the first header forms its own
// section. Concatenating the result yields the input.
func SplitSections(diff string) []string {
	if diff == "" {
		return nil
	}
	var sections []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "diff --git ") && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}

// SectionPath returns the path a diff section applies to: the "+++ b/" path,
// or the "--- a/" path for deletions, or the header's b/ path for sections
// without content lines (binary files, mode changes).
func SectionPath(section string) string {
	var header, oldPath string
	for _, line := range strings.Split(section, "\n") {
		switch {
		case strings.HasPrefix(line, "+++ b/"):
			return strings.TrimPrefix(line, "+++ b/")
		case strings.HasPrefix(line, "--- a/"):
			oldPath = strings.TrimPrefix(line, "--- a/")
		case strings.HasPrefix(line, "diff --git ") && header == "":
			header = line
		}
	}
	if oldPath != "" {
		return oldPath
	}
	if i := strings.LastIndex(header, " b/"); i >= 0 {
		return header[i+len(" b/"):]
	}
	return ""
}

func filterFileList(files []string, excludes []string) []string {
	var result []string
	for _, f := range files {
		if !MatchesAny(f, excludes) {
			result = append(result, f)
		}
	}
	return result
}

// MatchesAny returns true if the path matches any of the given glob patterns.
// Invalid patterns never match.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
