// Package main provides the entry point for the notemd CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for notemd.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notemd",
		Short: "Export a Notion page graph as local Markdown files",
		Long: `notemd exports a Notion page graph as local Markdown files.

Starting from a root page or database, it follows page links breadth-first,
renders each reachable page to Markdown, and rewrites cross-page links to
point at the exported files.

An integration token is required; create one at notion.so/my-integrations
and share the root page with it.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
