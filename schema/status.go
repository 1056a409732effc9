package schema

import "time"

// HistoryStatus describes the state of the run-history store.
type HistoryStatus struct {
	Backend     DatabaseBackend `json:"backend"`
	Connected   bool            `json:"connected"`
	TotalRuns   int64           `json:"total_runs"`
	TotalScores int64           `json:"total_scores"`
	LastRun     *time.Time      `json:"last_run,omitempty"`
	OldestRun   *time.Time      `json:"oldest_run,omitempty"`
}
