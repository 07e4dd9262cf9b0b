package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultReportName is the report file written next to the executable.
const DefaultReportName = "review-result.md"

// DefaultConventionsFile is looked up relative to the project root.
const DefaultConventionsFile = ".review-conventions.yaml"

// Config represents the qreview configuration.
type Config struct {
	ProjectRoot     string         `toml:"project_root"`
	ReportPath      string         `toml:"report_path"`
	ContextLines    int            `toml:"context_lines"`
	Exclude         []string       `toml:"exclude"`
	ConventionsFile string         `toml:"conventions_file"`
	Reviewer        ReviewerConfig `toml:"reviewer"`
	Cache           CacheConfig    `toml:"cache"`
	Privacy         PrivacyConfig  `toml:"privacy"`
}

// ReviewerConfig describes the external review command.
type ReviewerConfig struct {
	Command        string   `toml:"command"`
	Args           []string `toml:"args"`
	Name           string   `toml:"name"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Stream         bool     `toml:"stream"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Dir        string `toml:"dir"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// PrivacyConfig controls privacy/redaction behavior.
type PrivacyConfig struct {
	RedactSecrets bool     `toml:"redact_secrets"`
	RedactPaths   []string `toml:"redact_paths"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		ConventionsFile: DefaultConventionsFile,
		Exclude:         []string{},
		Reviewer: ReviewerConfig{
			Command: "q",
			Args:    []string{"chat"},
			Name:    "Amazon Q",
		},
		Cache: CacheConfig{
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for qreview.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "qreview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "qreview"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "qreview"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "qreview"), nil
	default:
		return filepath.Join(home, ".config", "qreview"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadFile decodes the config file. A missing file yields a zero Config,
// empty metadata and a nil error.
func LoadFile() (Config, toml.MetaData, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, toml.MetaData{}, err
	}
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, toml.MetaData{}, nil
		}
		return Config{}, toml.MetaData{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, md, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, md, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes cfg as TOML.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return buf.Bytes(), nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only flags the user set should be present).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, md, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg, md)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFileWithDefaults returns the defaults overlaid with the config file,
// ignoring the environment and flags. Used when rewriting the file.
func LoadFileWithDefaults() (Config, error) {
	cfg := Default()
	fileCfg, md, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg, md)
	return cfg, nil
}

// mergeFile copies every key the file defines, so an explicit false or
// empty list in the file still overrides the default.
func mergeFile(dst *Config, src Config, md toml.MetaData) {
	if md.IsDefined("project_root") {
		dst.ProjectRoot = src.ProjectRoot
	}
	if md.IsDefined("report_path") {
		dst.ReportPath = src.ReportPath
	}
	if md.IsDefined("context_lines") {
		dst.ContextLines = src.ContextLines
	}
	if md.IsDefined("exclude") {
		dst.Exclude = src.Exclude
	}
	if md.IsDefined("conventions_file") {
		dst.ConventionsFile = src.ConventionsFile
	}
	if md.IsDefined("reviewer", "command") {
		setCommand(dst, src.Reviewer.Command)
	}
	if md.IsDefined("reviewer", "args") {
		dst.Reviewer.Args = src.Reviewer.Args
	}
	if md.IsDefined("reviewer", "name") {
		dst.Reviewer.Name = src.Reviewer.Name
	}
	if md.IsDefined("reviewer", "timeout_seconds") {
		dst.Reviewer.TimeoutSeconds = src.Reviewer.TimeoutSeconds
	}
	if md.IsDefined("reviewer", "stream") {
		dst.Reviewer.Stream = src.Reviewer.Stream
	}
	if md.IsDefined("cache", "enabled") {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if md.IsDefined("cache", "dir") {
		dst.Cache.Dir = src.Cache.Dir
	}
	if md.IsDefined("cache", "ttl_seconds") {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	if md.IsDefined("privacy", "redact_secrets") {
		dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets
	}
	if md.IsDefined("privacy", "redact_paths") {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("QREVIEW_PROJECT_ROOT"); v != "" {
		cfg.ProjectRoot = v
	}
	if v := os.Getenv("QREVIEW_REPORT_PATH"); v != "" {
		cfg.ReportPath = v
	}
	if v := os.Getenv("QREVIEW_COMMAND"); v != "" {
		setCommand(cfg, v)
	}
	if v := os.Getenv("QREVIEW_ARGS"); v != "" {
		cfg.Reviewer.Args = splitList(v)
	}
	if v := os.Getenv("QREVIEW_CONTEXT_LINES"); v != "" {
		n, err := parseNonNegative("QREVIEW_CONTEXT_LINES", v)
		if err != nil {
			return err
		}
		cfg.ContextLines = n
	}
	if v := os.Getenv("QREVIEW_TIMEOUT"); v != "" {
		n, err := parseNonNegative("QREVIEW_TIMEOUT", v)
		if err != nil {
			return err
		}
		cfg.Reviewer.TimeoutSeconds = n
	}
	if v := os.Getenv("QREVIEW_STREAM"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QREVIEW_STREAM must be a boolean: %w", err)
		}
		cfg.Reviewer.Stream = b
	}
	return nil
}

// mergeOverrides applies overrides in Keys order, so an explicit
// reviewer.args lands after a reviewer.command change resets them.
func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key := range overrides {
		if !slices.Contains(Keys, key) {
			return fmt.Errorf("unknown config key: %s", key)
		}
	}
	for _, key := range Keys {
		value, ok := overrides[key]
		if !ok {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// setCommand switches the review command. Arguments belong to the command
// they were configured for, so a different command starts with none.
func setCommand(cfg *Config, command string) {
	if command != cfg.Reviewer.Command {
		cfg.Reviewer.Args = nil
	}
	cfg.Reviewer.Command = command
}

// Keys lists the keys accepted by SetField.
var Keys = []string{
	"project_root",
	"report_path",
	"context_lines",
	"exclude",
	"conventions_file",
	"reviewer.command",
	"reviewer.args",
	"reviewer.name",
	"reviewer.timeout_seconds",
	"reviewer.stream",
	"cache.enabled",
	"cache.dir",
	"cache.ttl_seconds",
	"privacy.redact_secrets",
	"privacy.redact_paths",
}

// SetField sets a single config field by key name. List values are
// comma-separated. Returns error if key is unknown or the value is invalid.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "project_root":
		cfg.ProjectRoot = value
	case "report_path":
		cfg.ReportPath = value
	case "context_lines":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		cfg.ContextLines = n
	case "exclude":
		cfg.Exclude = splitList(value)
	case "conventions_file":
		cfg.ConventionsFile = value
	case "reviewer.command":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("reviewer.command must not be empty")
		}
		setCommand(cfg, value)
	case "reviewer.args":
		cfg.Reviewer.Args = splitList(value)
	case "reviewer.name":
		cfg.Reviewer.Name = value
	case "reviewer.timeout_seconds":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		cfg.Reviewer.TimeoutSeconds = n
	case "reviewer.stream":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		cfg.Reviewer.Stream = b
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		cfg.Cache.Enabled = b
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttl_seconds":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		cfg.Cache.TTLSeconds = n
	case "privacy.redact_secrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		cfg.Privacy.RedactSecrets = b
	case "privacy.redact_paths":
		cfg.Privacy.RedactPaths = splitList(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func parseNonNegative(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return n, nil
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
