package review

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Conventions describes project-specific review guidance loaded from a
// YAML file in the project root.
type Conventions struct {
	Framework string   `yaml:"framework"`
	Focus     []string `yaml:"focus"`
	Rules     []Rule   `yaml:"rules"`
	Notes     string   `yaml:"notes"`
}

// Rule is a single convention the reviewer should always check.
type Rule struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// LoadConventions reads a conventions file. An empty path or a missing file
// returns nil Conventions and a nil error.
func LoadConventions(path string) (*Conventions, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading conventions file: %w", err)
	}
	var conv Conventions
	if err := yaml.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("parsing conventions file %s: %w", path, err)
	}
	for i, r := range conv.Rules {
		if strings.TrimSpace(r.Text) == "" {
			return nil, fmt.Errorf("conventions file %s: rule %d has no text", path, i+1)
		}
	}
	return &conv, nil
}

// Empty reports whether c carries no guidance.
func (c *Conventions) Empty() bool {
	return c == nil || (c.Framework == "" && len(c.Focus) == 0 && len(c.Rules) == 0 && strings.TrimSpace(c.Notes) == "")
}

func conventionsSection(c *Conventions) string {
	if c.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Project conventions\n")

	if c.Framework != "" {
		fmt.Fprintf(&b, "\nFramework: %s. Check the changes against its conventions.\n", c.Framework)
	}
	if len(c.Focus) > 0 {
		fmt.Fprintf(&b, "\nFocus areas: %s. Prioritize findings in these areas.\n",
			strings.Join(c.Focus, ", "))
	}
	if len(c.Rules) > 0 {
		b.WriteString("\nRequired checks (always evaluate these):\n")
		for _, r := range c.Rules {
			if r.ID != "" {
				fmt.Fprintf(&b, "- [%s] %s\n", r.ID, r.Text)
			} else {
				fmt.Fprintf(&b, "- %s\n", r.Text)
			}
		}
	}
	if notes := strings.TrimSpace(c.Notes); notes != "" {
		fmt.Fprintf(&b, "\n%s\n", notes)
	}
	return b.String()
}
