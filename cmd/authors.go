package cmd

import (
	"github.com/kyhsueh/codegrade/core"
	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/spf13/cobra"
)

// authorsCmd scores contributors from Git history.
var authorsCmd = &cobra.Command{
	Use:   "authors [project-path]",
	Short: "Score contributors by commit behavior, quality and activity.",
	Long: `Mine the Git history and grade every contributor.

Each author receives a total score out of 100 built from three categories:
- Commit behavior (volume, message quality, change size)
- Quality and scope (rework ratio, file reach)
- Activity (active days, contribution share)

Scores map to letter grades from S (exceptional) down to D (minimal),
so teams can spot both standout contributors and onboarding gaps.

Examples:
  # Grade everyone in the current repository
  codegrade authors

  # Grade a bounded commit range
  codegrade authors --start-commit a1b2c3d --end-commit f9e8d7c

  # Keep a history of runs in SQLite for trend tracking
  codegrade authors --history-backend sqlite

  # Export the scoreboard to CSV
  codegrade authors --output csv --output-file scores.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAuthors(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run author scoring", err)
		}
	},
}
