package cmd

import (
	"github.com/kyhsueh/codegrade/core"
	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/spf13/cobra"
)

// filesCmd ranks files by change frequency.
var filesCmd = &cobra.Command{
	Use:   "files [project-path]",
	Short: "Show the files that change most often.",
	Long: `Mine the Git history and rank files by how often they change.

Frequently changed files are where risk concentrates, helping you:
- Find churn hotspots that deserve refactoring attention
- Spot configuration or generated files polluting the history
- See how change volume distributes across low/medium/high tiers

Examples:
  # Show the 20 most changed files
  codegrade files --limit 20

  # Rank changes between two commits
  codegrade files --start-commit a1b2c3d --end-commit f9e8d7c

  # Ignore lockfiles and vendored paths
  codegrade files --exclude-git "package-lock.json,vendor/"

  # Export the ranking to CSV for tracking
  codegrade files --output csv --output-file churn.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFiles(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run file ranking", err)
		}
	},
}
