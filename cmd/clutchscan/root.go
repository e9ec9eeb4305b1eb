// Package main provides the entry point for the clutchscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for clutchscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clutchscan",
		Short: "Crawler for the Clutch.co Development directory",
		Long: `clutchscan crawls the Clutch.co Development directory, collects company
profiles and their client reviews, and exports the results as JSON, CSV,
SQLite, Markdown, and a plain-text summary.

Crawling is polite by default: requests are paced with a random delay,
rate-limit responses are honored, and circuit breakers stop a run that
keeps failing.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewCategoriesCmd())
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
