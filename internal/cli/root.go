package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess    = 0
	ExitFailure    = 1
	ExitUsageError = 2
)

var rootCmd = &cobra.Command{
	Use:   "qreview",
	Short: "Review git changes with an AI review CLI",
	Long: `qreview collects a git diff, asks an external AI review tool (Amazon Q
by default) to review it, and writes the answer to a markdown report.

  qreview full     review all uncommitted working-tree changes
  qreview staged   review only the changes staged for commit`,
	SilenceUsage: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	return execute(nil)
}

// execute runs the command tree with args (nil means os.Args).
func execute(args []string) int {
	exitCode = ExitSuccess
	if args != nil {
		rootCmd.SetArgs(args)
	}
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print qreview version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "qreview version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(fullCmd)
	rootCmd.AddCommand(stagedCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)
}
