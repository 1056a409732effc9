package schema

import "time"

// RunRecord is one persisted analysis run row from the history store.
type RunRecord struct {
	RunID         int64      `json:"run_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	RunDurationMs *int64     `json:"run_duration_ms,omitempty"`
	TotalAuthors  *int64     `json:"total_authors,omitempty"`
	ConfigParams  *string    `json:"config_params,omitempty"`
}

// AuthorScoreRecord is one persisted contributor verdict row from the
// history store.
type AuthorScoreRecord struct {
	RunID           int64     `json:"run_id"`
	Author          string    `json:"author"`
	ScoredAt        time.Time `json:"scored_at"`
	TotalScore      float64   `json:"total_score"`
	Grade           string    `json:"grade"`
	CommitBehavior  float64   `json:"commit_behavior"`
	QualityAndScope float64   `json:"quality_and_scope"`
	Activity        float64   `json:"activity"`
	TotalCommits    int64     `json:"total_commits"`
	FilesModified   int64     `json:"files_modified"`
	ActiveDays      int64     `json:"active_days"`
	ReworkRatio     float64   `json:"rework_ratio"`
	ContributionPct float64   `json:"contribution_pct"`
}
