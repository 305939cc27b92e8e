// Package main provides the entry point for the gitseek CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/gitseek/cmd/gitseek/commands"
	"github.com/Sumatoshi-tech/gitseek/pkg/version"
)

func main() {
	version.Init()

	rootCmd := &cobra.Command{
		Use:   "gitseek",
		Short: "Gitseek - locate a string in a file's git history",
		Long: `Gitseek bisects one file's first-parent history to find the commit
range in which a literal string is present.

Commands:
  search    Find the first and last commits containing a string
  locate    Find where a file lives in the repository history
  mcp       Start an MCP server exposing search as a tool`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewSearchCommand())
	rootCmd.AddCommand(commands.NewLocateCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "gitseek %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
