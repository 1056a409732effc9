// Package parquet provides data structures and functions for exporting
// codegrade run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kyhsueh/codegrade/schema"
)

// Run is one analysis run with metadata. This struct maps to the
// codegrade_runs database table.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int64     `parquet:"run_duration_ms,optional,snappy"`
	TotalAuthors  *int64     `parquet:"total_authors,optional,snappy"`
	ConfigParams  *string    `parquet:"config_params,optional,snappy"`
}

// AuthorScore is one contributor verdict for an analysis run. This struct
// maps to the codegrade_author_scores database table.
type AuthorScore struct {
	RunID           int64     `parquet:"run_id,snappy"`
	Author          string    `parquet:"author,snappy"`
	ScoredAt        time.Time `parquet:"scored_at,snappy"`
	TotalScore      float64   `parquet:"total_score,snappy"`
	Grade           string    `parquet:"grade,snappy"`
	CommitBehavior  float64   `parquet:"commit_behavior,snappy"`
	QualityAndScope float64   `parquet:"quality_and_scope,snappy"`
	Activity        float64   `parquet:"activity,snappy"`
	TotalCommits    int64     `parquet:"total_commits,snappy"`
	FilesModified   int64     `parquet:"files_modified,snappy"`
	ActiveDays      int64     `parquet:"active_days,snappy"`
	ReworkRatio     float64   `parquet:"rework_ratio,snappy"`
	ContributionPct float64   `parquet:"contribution_pct,snappy"`
}

// ConvertRunRecords maps history store run rows to their Parquet form.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	out := make([]Run, len(records))
	for i, r := range records {
		out[i] = Run{
			RunID:         r.RunID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			TotalAuthors:  r.TotalAuthors,
			ConfigParams:  r.ConfigParams,
		}
	}
	return out
}

// ConvertAuthorScoreRecords maps history store verdict rows to their Parquet form.
func ConvertAuthorScoreRecords(records []schema.AuthorScoreRecord) []AuthorScore {
	out := make([]AuthorScore, len(records))
	for i, r := range records {
		out[i] = AuthorScore{
			RunID:           r.RunID,
			Author:          r.Author,
			ScoredAt:        r.ScoredAt,
			TotalScore:      r.TotalScore,
			Grade:           r.Grade,
			CommitBehavior:  r.CommitBehavior,
			QualityAndScope: r.QualityAndScope,
			Activity:        r.Activity,
			TotalCommits:    r.TotalCommits,
			FilesModified:   r.FilesModified,
			ActiveDays:      r.ActiveDays,
			ReworkRatio:     r.ReworkRatio,
			ContributionPct: r.ContributionPct,
		}
	}
	return out
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteAuthorScoresParquet writes a slice of AuthorScore structs to a Parquet file.
func WriteAuthorScoresParquet(data []AuthorScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes any row type to a Parquet file using struct schema
// inference from the parquet tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
