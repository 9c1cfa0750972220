// Package cli implements the elkhorn command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/HartBrook/elkhorn/internal/config"
	"github.com/HartBrook/elkhorn/internal/engine"
	"github.com/HartBrook/elkhorn/internal/errors"
	"github.com/HartBrook/elkhorn/internal/github"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Output helpers.
	successIcon = color.New(color.FgGreen).Sprint("✓")
	warningIcon = color.New(color.FgYellow).Sprint("⚠")
	errorIcon   = color.New(color.FgRed).Sprint("✗")

	warning = color.New(color.FgYellow).SprintFunc()
	info    = color.New(color.FgCyan).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "elkhorn",
		Short: "A local filesystem cache for remote GitHub repositories",
		Long: `Elkhorn clones remote repositories to local disk and serves file reads,
searches, tree listings, and edits from the local copy instead of the
network API. Working copies are kept fresh within a configurable TTL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewSyncCmd())
	rootCmd.AddCommand(NewCatCmd())
	rootCmd.AddCommand(NewSearchCmd())
	rootCmd.AddCommand(NewTreeCmd())
	rootCmd.AddCommand(NewEditCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewStatsCmd())
	rootCmd.AddCommand(NewClearCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("elkhorn %s\n", Version)
		},
	}
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print error with hint if available
		fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, err.Error())
		if ee, ok := err.(*errors.ElkhornError); ok && ee.Hint != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", dim(ee.Hint))
		}
		return err
	}
	return nil
}

// newEngine builds the cache engine from config. The GitHub token is
// resolved best-effort; public repositories work without one.
func newEngine() (*engine.Engine, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, err
	}

	token, _ := github.GetToken()
	return engine.New(cfg, config.NewPaths(), engine.Options{Token: token})
}

// resolveBranch returns branch unchanged, or looks up the repository's
// default branch when empty. Falls back to "main" if the lookup fails
// (offline or unauthenticated).
func resolveBranch(ctx context.Context, owner, repo, branch string) string {
	if branch != "" {
		return branch
	}
	client, err := github.NewClient()
	if err == nil {
		if def, err := client.GetDefaultBranch(ctx, owner, repo); err == nil && def != "" {
			return def
		}
	}
	return "main"
}

// parseRepoArg parses the required owner/repo positional argument.
func parseRepoArg(arg string) (owner, repo string, err error) {
	return config.ParseRepo(arg)
}

// printSuccess prints a success message.
func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", successIcon, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", warningIcon, fmt.Sprintf(format, args...))
}

// printInfo prints an info line.
func printInfo(label, value string) {
	fmt.Printf("  %s: %s\n", dim(label), value)
}

// humanBytes formats a byte count for display.
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
