// Package schema has configs, models and shared constants for all parts of codegrade.
package schema

import "time"

// FileChange describes one file touched by a commit, with line-level churn.
type FileChange struct {
	Path       string `json:"path"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
}

// CommitRecord is one normalized commit from the log reader. Records are
// immutable once parsed; author identities are taken verbatim and never
// deduplicated across aliases.
type CommitRecord struct {
	Hash      string       `json:"hash"`
	Author    string       `json:"author"`
	Timestamp time.Time    `json:"timestamp"`
	Message   string       `json:"message"`
	Files     []FileChange `json:"files"`
}

// AuthorMetrics is the per-author accumulator produced by one forward pass
// over the filtered commit sequence. DaysSinceLastCommit is measured against
// the newest commit in the analyzed range, not wall-clock time, so repeated
// runs over the same history produce identical scores.
type AuthorMetrics struct {
	TotalCommits        int     `json:"total_commits"`
	FilesModified       int     `json:"files_modified"`
	TotalCodeChanges    int     `json:"total_code_changes"`
	ActiveDays          int     `json:"active_days"`
	DaysSinceLastCommit float64 `json:"days_since_last_commit"`
	AvgFilesPerCommit   float64 `json:"avg_files_per_commit"`
	AvgMessageLength    float64 `json:"avg_message_length"`
	AvgCommitInterval   float64 `json:"avg_commit_interval"`

	// Rework figures from the sliding-window detector.
	RapidReworkCount int     `json:"rapid_rework_count"`
	TotalFileTouches int     `json:"total_file_modifications"`
	RapidReworkRatio float64 `json:"rapid_rework_ratio"`

	// Display-only context metrics, not consulted by the scoring engine.
	FileConcentration    float64 `json:"file_concentration"`
	HotspotParticipation float64 `json:"hotspot_participation"`

	ContributionRatio float64 `json:"contribution_ratio"`
}

// CategoryScores holds the three independently capped scoring categories.
// Their sum is always the author's total score.
type CategoryScores struct {
	CommitBehavior  float64 `json:"commit_behavior"`
	QualityAndScope float64 `json:"quality_and_scope"`
	Activity        float64 `json:"activity"`
}

// TierBand is one row of a scoring policy table. A value matches when it is
// at least Min and, when Max is non-zero, at most Max. Bands are evaluated
// in order and the first match wins, which lets one ordered table express
// both monotonic threshold ladders and banded sweet-spot functions.
type TierBand struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max,omitempty"`
	Points float64 `json:"points"`
	Label  string  `json:"label"`
}

// TierMatch records which band a metric value landed in, together with the
// full band list, so consumers can explain every sub-score.
type TierMatch struct {
	Metric MetricID   `json:"metric"`
	Value  float64    `json:"value"`
	Points float64    `json:"points"`
	Label  string     `json:"label"`
	Bands  []TierBand `json:"bands"`
}

// AuthorScore is the final scoring verdict for one author. Immutable once
// computed; every run recomputes all scores from scratch.
type AuthorScore struct {
	Author     string         `json:"author"`
	TotalScore float64        `json:"total_score"`
	Grade      Grade          `json:"grade"`
	Scores     CategoryScores `json:"scores"`
	Metrics    AuthorMetrics  `json:"metrics"`
	Breakdown  []TierMatch    `json:"breakdown"`
}

// ProgressEvent is one update delivered to observers of an analysis session.
// Events are transient and never persisted.
type ProgressEvent struct {
	SessionID  string    `json:"session_id"`
	Stage      Stage     `json:"stage"`
	Percentage int       `json:"percentage"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}
