package historydb

import (
	"errors"
	"fmt"

	"github.com/kyhsueh/codegrade/internal/parquet"
)

// Export writes the store's runs and contributor verdicts to a pair of
// Parquet files derived from outputFile.
func (hs *HistoryStoreImpl) Export(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export")
	}

	status, err := hs.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total author scores: %d\n", status.TotalScores)

	runs, err := hs.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scores, err := hs.GetAllAuthorScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve author scores: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	scoresFile := outputFile + ".author_scores.parquet"
	if err := parquet.WriteAuthorScoresParquet(parquet.ConvertAuthorScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write author scores: %w", err)
	}
	fmt.Printf("Exported %d author scores to: %s\n", len(scores), scoresFile)

	return nil
}
