package review

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dshills/qreview/internal/cache"
	"github.com/dshills/qreview/internal/console"
	"github.com/dshills/qreview/internal/gitctx"
	"github.com/dshills/qreview/internal/redact"
	"github.com/dshills/qreview/internal/reviewer"
)

// ReportWriter persists the outcome of a run.
type ReportWriter interface {
	Write(review string, files []string, mode gitctx.Mode) error
	WriteEmpty(mode gitctx.Mode) error
}

// Pipeline runs one review: collect the diff, build the prompt, run the
// review tool, write the report. Stages run strictly in order and a failed
// stage stops the run before the report is touched.
type Pipeline struct {
	Git      gitctx.Collector
	Reviewer reviewer.Reviewer
	Writer   ReportWriter
	Log      *console.Logger

	// Root is the project root. When set, the process changes into it
	// once before the diff is collected.
	Root  string
	Chdir func(string) error

	Exclude     []string
	Redact      bool
	RedactPaths []string
	Conventions *Conventions

	// Cache, when non-nil and enabled, short-circuits the review tool for
	// a prompt it has already answered.
	Cache *cache.Cache
}

// Result summarizes a completed run.
type Result struct {
	Mode     gitctx.Mode
	Files    []string
	Empty    bool
	Cached   bool
	Redacted redact.Stats
	Duration time.Duration
}

// Run executes the pipeline for mode.
func (p *Pipeline) Run(ctx context.Context, mode gitctx.Mode) (Result, error) {
	start := time.Now()
	log := p.Log
	if log == nil {
		log = console.Discard()
	}
	res := Result{Mode: mode}

	if p.Root != "" {
		log.Step("Changing to project root %s", p.Root)
		chdir := p.Chdir
		if chdir == nil {
			chdir = os.Chdir
		}
		if err := chdir(p.Root); err != nil {
			return res, fmt.Errorf("changing to project root: %w", err)
		}
	}

	log.Step("Collecting %s diff", mode)
	set, err := gitctx.Collect(ctx, p.Git, mode)
	if err != nil {
		return res, err
	}
	if len(p.Exclude) > 0 {
		set = gitctx.Exclude(set, p.Exclude)
	}

	if set.Empty() {
		log.Info("No changes to review")
		if err := p.Writer.WriteEmpty(mode); err != nil {
			return res, err
		}
		res.Empty = true
		res.Duration = time.Since(start)
		return res, nil
	}

	res.Files = set.Files
	if len(set.Files) == 0 {
		log.Warn("git reported a diff but no changed file names")
	} else {
		log.Info("Changed files: %d", len(set.Files))
		log.Files(set.Files)
	}

	diff := set.Diff
	if p.Redact {
		var stats redact.Stats
		diff, stats = redact.Diff(diff, p.RedactPaths)
		res.Redacted = stats
		log.Info("Secret redaction on: %d secret(s) replaced with [REDACTED] (--no-redact sends the diff verbatim)", stats.Secrets)
		for _, f := range stats.Files {
			log.Info("Withheld contents of %s", f)
		}
	}

	prompt := BuildPromptWithConventions(diff, set.Files, mode, p.Conventions)

	key := cache.BuildKey(commandOf(p.Reviewer), prompt)
	output, hit := p.cached(key)
	if hit {
		log.Info("Using cached review from a previous run")
		res.Cached = true
	} else {
		log.Step("Running review with %s", p.Reviewer.Name())
		output, err = p.Reviewer.Run(ctx, prompt)
		if err != nil {
			return res, err
		}
		p.store(key, output, log)
	}

	log.Step("Writing report")
	if err := p.Writer.Write(output, set.Files, mode); err != nil {
		return res, err
	}
	res.Duration = time.Since(start)
	return res, nil
}

func (p *Pipeline) cached(key string) (string, bool) {
	if p.Cache == nil {
		return "", false
	}
	entry, ok := p.Cache.Get(key)
	if !ok {
		return "", false
	}
	return entry.Output, true
}

func (p *Pipeline) store(key, output string, log *console.Logger) {
	if p.Cache == nil {
		return
	}
	if err := p.Cache.Put(key, commandOf(p.Reviewer), output); err != nil {
		log.Warn("caching review: %v", err)
	}
}

// commandOf returns the reviewer's command line when it exposes one.
func commandOf(r reviewer.Reviewer) []string {
	if c, ok := r.(interface{ Command() []string }); ok {
		return c.Command()
	}
	return []string{r.Name()}
}
