package cli

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dshills/qreview/internal/cache"
	"github.com/dshills/qreview/internal/config"
	"github.com/dshills/qreview/internal/console"
	"github.com/dshills/qreview/internal/gitctx"
	"github.com/dshills/qreview/internal/output"
	"github.com/dshills/qreview/internal/review"
	"github.com/dshills/qreview/internal/reviewer"
	"github.com/spf13/cobra"
)

// Shared review flags
var (
	flagRoot         string
	flagOut          string
	flagCommand      string
	flagArgs         string
	flagContextLines int
	flagExclude      string
	flagTimeout      int
	flagStream       bool
	flagNoRedact     bool
	flagNoCache      bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagRoot, "root", "", "Project root to collect the diff in (default: parent of the executable's directory)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Report file path (default: review-result.md next to the executable)")
	cmd.Flags().StringVar(&flagCommand, "command", "", "Review CLI to run (default: q)")
	cmd.Flags().StringVar(&flagArgs, "args", "", "Arguments for the review CLI (comma-separated; default: chat for q, none otherwise)")
	cmd.Flags().IntVar(&flagContextLines, "context-lines", 0, "Number of context lines in diff")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	cmd.Flags().IntVar(&flagTimeout, "timeout", 0, "Abort the review after this many seconds (0 waits indefinitely)")
	cmd.Flags().BoolVar(&flagStream, "stream", false, "Echo the review tool's output while it runs")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the review cache for this run")
}

// buildOverrides maps the flags the user actually set to config keys.
func buildOverrides(cmd *cobra.Command) map[string]string {
	m := make(map[string]string)
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("root") {
		m["project_root"] = flagRoot
	}
	if changed("out") {
		m["report_path"] = flagOut
	}
	if changed("command") {
		m["reviewer.command"] = flagCommand
	}
	if changed("args") {
		m["reviewer.args"] = flagArgs
	}
	if changed("context-lines") {
		m["context_lines"] = strconv.Itoa(flagContextLines)
	}
	if changed("timeout") {
		m["reviewer.timeout_seconds"] = strconv.Itoa(flagTimeout)
	}
	if changed("stream") {
		m["reviewer.stream"] = strconv.FormatBool(flagStream)
	}
	return m
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

const redactionNote = `Secrets detected in the diff are replaced with [REDACTED] before the prompt
is sent, and files matching privacy.redact_paths are withheld. Use --no-redact
or privacy.redact_secrets = false to send the diff verbatim.`

var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Review all uncommitted working-tree changes (git diff)",
	Long:  "Review all uncommitted working-tree changes (git diff).\n\n" + redactionNote,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, gitctx.ModeFull)
	},
}

var stagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Review changes staged for commit (git diff --cached)",
	Long:  "Review changes staged for commit (git diff --cached).\n\n" + redactionNote,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, gitctx.ModeStaged)
	},
}

// runReview returns an error only for configuration problems; pipeline
// failures are reported here and mapped to ExitFailure.
func runReview(cmd *cobra.Command, mode gitctx.Mode) error {
	cfg, err := config.Load(buildOverrides(cmd))
	if err != nil {
		return err
	}
	if flagExclude != "" {
		cfg.Exclude = append(cfg.Exclude, splitComma(flagExclude)...)
	}
	layout, err := cfg.Layout()
	if err != nil {
		return err
	}
	conv, err := review.LoadConventions(layout.ConventionsPath)
	if err != nil {
		return err
	}

	log := console.New(cmd.ErrOrStderr())

	redactSecrets := cfg.Privacy.RedactSecrets
	if flagNoRedact {
		redactSecrets = false
		log.Warn("secret redaction is disabled")
	}

	var opts []reviewer.Option
	if cfg.Reviewer.Name != "" {
		opts = append(opts, reviewer.WithName(cfg.Reviewer.Name))
	}
	if cfg.Reviewer.Stream {
		opts = append(opts, reviewer.WithStream(cmd.OutOrStdout()))
	}
	rev := reviewer.NewCLI(cfg.Reviewer.Command, cfg.Reviewer.Args, opts...)

	p := &review.Pipeline{
		Git:      &gitctx.Git{ContextLines: cfg.ContextLines},
		Reviewer: rev,
		Writer: &output.MarkdownWriter{
			Path:         layout.ReportPath,
			ReviewerName: cfg.Reviewer.Name,
		},
		Log:         log,
		Root:        layout.ProjectRoot,
		Exclude:     cfg.Exclude,
		Redact:      redactSecrets,
		RedactPaths: cfg.Privacy.RedactPaths,
		Conventions: conv,
	}
	if cfg.Cache.Enabled && !flagNoCache {
		c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			log.Warn("cache unavailable: %v", err)
		} else {
			p.Cache = c
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Reviewer.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Reviewer.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	log.Step("Starting %s review in %s", mode, layout.ProjectRoot)
	res, err := p.Run(ctx, mode)
	if err != nil {
		reportFailure(log, err)
		exitCode = ExitFailure
		return nil
	}

	if res.Empty {
		log.Success("Nothing to review; report cleared")
	} else {
		log.Success("Review complete in %s", res.Duration.Round(time.Millisecond))
	}
	log.Info("Report: %s", layout.ReportPath)
	return nil
}

func init() {
	addReviewFlags(fullCmd)
	addReviewFlags(stagedCmd)
}
