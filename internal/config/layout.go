package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout holds the resolved filesystem locations for one review run.
type Layout struct {
	// ProjectRoot is the directory the diff is collected in.
	ProjectRoot string
	// ReportPath is where the markdown report is written.
	ReportPath string
	// ConventionsPath is the optional conventions file; empty disables it.
	ConventionsPath string
}

// executable is replaced in tests.
var executable = os.Executable

// Layout resolves cfg into absolute paths. Unset locations default to the
// tool's install layout: the report sits next to the executable and the
// project root is the executable directory's parent. Relative paths in
// cfg are resolved against the working directory, except the conventions
// file which is relative to the project root.
func (cfg Config) Layout() (Layout, error) {
	var l Layout

	needExe := cfg.ProjectRoot == "" || cfg.ReportPath == ""
	var exeDir string
	if needExe {
		dir, err := executableDir()
		if err != nil {
			return Layout{}, err
		}
		exeDir = dir
	}

	if cfg.ProjectRoot != "" {
		root, err := filepath.Abs(cfg.ProjectRoot)
		if err != nil {
			return Layout{}, fmt.Errorf("resolving project root: %w", err)
		}
		l.ProjectRoot = root
	} else {
		l.ProjectRoot = filepath.Dir(exeDir)
	}

	if cfg.ReportPath != "" {
		path, err := filepath.Abs(cfg.ReportPath)
		if err != nil {
			return Layout{}, fmt.Errorf("resolving report path: %w", err)
		}
		l.ReportPath = path
	} else {
		l.ReportPath = filepath.Join(exeDir, DefaultReportName)
	}

	if cfg.ConventionsFile != "" {
		if filepath.IsAbs(cfg.ConventionsFile) {
			l.ConventionsPath = cfg.ConventionsFile
		} else {
			l.ConventionsPath = filepath.Join(l.ProjectRoot, cfg.ConventionsFile)
		}
	}
	return l, nil
}

func executableDir() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
