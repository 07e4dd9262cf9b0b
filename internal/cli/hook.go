package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/qreview/internal/config"
	"github.com/dshills/qreview/internal/gitctx"
	"github.com/spf13/cobra"
)

const (
	hookMarkerStart = "# >>> qreview pre-commit hook >>>"
	hookMarkerEnd   = "# <<< qreview pre-commit hook <<<"
)

var (
	hookBinary string
	hookRoot   string
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage git pre-commit hook",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Review staged changes before every commit",
	Long: `Install a pre-commit hook section that runs "qreview staged".

The hook reviews the repository being committed to and writes the report to
review-result.md inside its git directory. It never blocks a commit: review
failures and a missing binary only print a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, meta, err := getHookPath(cmd)
		if err != nil {
			return err
		}

		section := generateHookScript(hookBinary)

		existing, err := os.ReadFile(hookPath)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reading hook file: %w", err)
		}

		var content string
		if os.IsNotExist(err) || len(existing) == 0 {
			content = "#!/bin/sh\n" + section
		} else {
			content = replaceHookSection(string(existing), section)
		}

		if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
			return fmt.Errorf("creating hooks directory: %w", err)
		}
		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			return fmt.Errorf("writing hook file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed qreview pre-commit hook at %s\n", hookPath)
		report := filepath.Join(filepath.Dir(filepath.Dir(hookPath)), config.DefaultReportName)
		fmt.Fprintf(cmd.OutOrStdout(), "Reports are written to %s (view with: qreview show --out %s)\n", report, shellQuote(report))
		if meta.Branch != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Repository %s (branch %s)\n", meta.Root, meta.Branch)
		}
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove qreview pre-commit hook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, _, err := getHookPath(cmd)
		if err != nil {
			return err
		}

		existing, err := os.ReadFile(hookPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No pre-commit hook found.")
				return nil
			}
			return fmt.Errorf("reading hook file: %w", err)
		}

		content := removeHookSection(string(existing))

		// If only shebang (and whitespace) remains, delete the file entirely
		trimmed := strings.TrimSpace(content)
		if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
			if err := os.Remove(hookPath); err != nil {
				return fmt.Errorf("removing hook file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed qreview pre-commit hook at %s\n", hookPath)
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			return fmt.Errorf("writing hook file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed qreview section from %s\n", hookPath)
		return nil
	},
}

func getHookPath(cmd *cobra.Command) (string, gitctx.RepoMeta, error) {
	ctx := cmd.Context()
	meta, err := gitctx.GetRepoMeta(ctx, hookRoot)
	if err != nil {
		return "", gitctx.RepoMeta{}, err
	}
	gitDir, err := gitctx.GitDir(ctx, meta.Root)
	if err != nil {
		return "", gitctx.RepoMeta{}, err
	}
	return filepath.Join(gitDir, "hooks", "pre-commit"), meta, nil
}

func generateHookScript(binary string) string {
	if binary == "" {
		binary = "qreview"
	}
	q := shellQuote(binary)

	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	fmt.Fprintf(&b, "if command -v %s >/dev/null 2>&1; then\n", q)
	b.WriteString("  qreview_root=$(git rev-parse --show-toplevel) &&\n")
	b.WriteString("  qreview_git_dir=$(git rev-parse --absolute-git-dir) &&\n")
	fmt.Fprintf(&b, "  %s staged --root \"$qreview_root\" --out \"$qreview_git_dir/%s\" ||\n", q, config.DefaultReportName)
	b.WriteString("    echo \"qreview: review failed (exit $?), allowing commit\" >&2\n")
	b.WriteString("else\n")
	fmt.Fprintf(&b, "  echo \"qreview: %s not found, skipping review\" >&2\n", strings.ReplaceAll(binary, `"`, `\"`))
	b.WriteString("fi\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

// shellQuote returns s unchanged when it is safe as a bare shell word.
func shellQuote(s string) string {
	safe := s != "" && strings.IndexFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case strings.ContainsRune("/._-+:@", r):
			return false
		}
		return true
	}) == -1
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func replaceHookSection(existing, section string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		// No existing qreview section; append
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	// Trim leading newline from after to avoid double newlines
	after = strings.TrimPrefix(after, "\n")
	return before + section + after
}

func removeHookSection(existing string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		return existing
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	after = strings.TrimPrefix(after, "\n")

	return before + after
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookInstallCmd.Flags().StringVar(&hookBinary, "bin", "qreview", "qreview binary the hook runs (name on PATH or absolute path)")
	hookCmd.PersistentFlags().StringVar(&hookRoot, "root", "", "Repository to manage the hook in (default: current directory)")
}
