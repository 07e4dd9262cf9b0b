package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dshills/qreview/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	showOut string
	showRaw bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the last review report",
	Long:  "Print the last review report. On a terminal the markdown is rendered; otherwise it is printed as-is.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]string{}
		if showOut != "" {
			overrides["report_path"] = showOut
		}
		cfg, err := config.Load(overrides)
		if err != nil {
			return err
		}
		layout, err := cfg.Layout()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(layout.ReportPath)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("no report at %s; run qreview full or qreview staged first", layout.ReportPath)
			}
			return fmt.Errorf("reading report: %w", err)
		}

		out := cmd.OutOrStdout()
		width, tty := terminalWidth(out)
		if showRaw || !tty {
			_, err := out.Write(data)
			return err
		}
		fmt.Fprintln(out, renderMarkdown(string(data), width))
		return nil
	},
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		width = 0
	}
	return width, true
}

// renderMarkdown styles md for the terminal, falling back to the raw text.
func renderMarkdown(md string, width int) string {
	if width < 40 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func init() {
	showCmd.Flags().StringVar(&showOut, "out", "", "Report file to show (default: the configured report path)")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the markdown source even on a terminal")
}
