package historydb

import (
	"fmt"
	"time"

	"github.com/kyhsueh/codegrade/schema"
)

// GetAllRuns retrieves all runs from the store, oldest first.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(
		"SELECT run_id, start_time, end_time, run_duration_ms, total_authors, config_params FROM %s ORDER BY run_id",
		quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		if hs.backend == schema.SQLiteBackend {
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.TotalAuthors, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		} else {
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.TotalAuthors, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}

		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllAuthorScores retrieves all persisted contributor verdicts, ordered
// by run then author.
func (hs *HistoryStoreImpl) GetAllAuthorScores() ([]schema.AuthorScoreRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, author, scored_at, total_score, grade,
    commit_behavior, quality_and_scope, activity,
    total_commits, files_modified, active_days, rework_ratio, contribution_pct
    FROM %s ORDER BY run_id, author`, quoteTableName(authorScoresTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query author scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AuthorScoreRecord
	for rows.Next() {
		var record schema.AuthorScoreRecord

		if hs.backend == schema.SQLiteBackend {
			var scoredAtStr string
			if err := rows.Scan(&record.RunID, &record.Author, &scoredAtStr, &record.TotalScore, &record.Grade,
				&record.CommitBehavior, &record.QualityAndScope, &record.Activity,
				&record.TotalCommits, &record.FilesModified, &record.ActiveDays,
				&record.ReworkRatio, &record.ContributionPct); err != nil {
				return nil, fmt.Errorf("failed to scan author score: %w", err)
			}
			scoredAt, err := time.Parse(time.RFC3339Nano, scoredAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse scored_at: %w", err)
			}
			record.ScoredAt = scoredAt
		} else {
			if err := rows.Scan(&record.RunID, &record.Author, &record.ScoredAt, &record.TotalScore, &record.Grade,
				&record.CommitBehavior, &record.QualityAndScope, &record.Activity,
				&record.TotalCommits, &record.FilesModified, &record.ActiveDays,
				&record.ReworkRatio, &record.ContributionPct); err != nil {
				return nil, fmt.Errorf("failed to scan author score: %w", err)
			}
		}

		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author scores: %w", err)
	}
	return results, nil
}
