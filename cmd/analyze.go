package cmd

import (
	"github.com/kyhsueh/codegrade/core"
	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd performs the combined code and git analysis.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [project-path]",
	Short: "Run the full code and Git history analysis.",
	Long: `Scan the source tree and mine the Git history in one pass.

Combines two independent views of the project:
- Static code metrics (lines, functions, cyclomatic complexity)
- Git history metrics (churn, rework, activity, contributor scores)

When the project path is not a Git repository, the history stage is
skipped and the code analysis is reported on its own.

Examples:
  # Analyze the current directory
  codegrade analyze

  # Analyze another project with a commit cap
  codegrade analyze ~/src/backend --max-commits 5000

  # Restrict history mining to two authors
  codegrade analyze --authors "ada,grace@example.com"

  # Export the combined result as JSON
  codegrade analyze --output json --output-file report.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
