package historydb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kyhsueh/codegrade/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteStore opens a store backed by a throwaway database file.
func newSQLiteStore(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleScore(author string, total float64) schema.AuthorScore {
	return schema.AuthorScore{
		Author:     author,
		TotalScore: total,
		Grade:      schema.GradeB,
		Scores: schema.CategoryScores{
			CommitBehavior:  30,
			QualityAndScope: 22,
			Activity:        total - 52,
		},
		Metrics: schema.AuthorMetrics{
			TotalCommits:      120,
			FilesModified:     34,
			ActiveDays:        40,
			RapidReworkRatio:  12.5,
			ContributionRatio: 25.0,
		},
	}
}

func TestNoneBackendIsNoOp(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordAuthorScore(runID, sampleScore("ada", 75)))
	assert.NoError(t, store.EndRun(runID, time.Now(), 1))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.NoneBackend, status.Backend)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestSQLiteRunRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, map[string]any{"project_path": "/tmp/x", "max_commits": 1000})
	require.NoError(t, err)
	assert.Positive(t, runID)

	require.NoError(t, store.RecordAuthorScore(runID, sampleScore("ada", 75)))
	require.NoError(t, store.RecordAuthorScore(runID, sampleScore("grace", 68)))
	require.NoError(t, store.EndRun(runID, start.Add(90*time.Second), 2))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(1), status.TotalRuns)
	assert.Equal(t, int64(2), status.TotalScores)
	require.NotNil(t, status.LastRun)
	assert.True(t, status.LastRun.Equal(start), "got %v", status.LastRun)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.True(t, run.StartTime.Equal(start))
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int64(90000), *run.RunDurationMs)
	require.NotNil(t, run.TotalAuthors)
	assert.Equal(t, int64(2), *run.TotalAuthors)
	require.NotNil(t, run.ConfigParams)
	assert.Contains(t, *run.ConfigParams, "project_path")

	scores, err := store.GetAllAuthorScores()
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "ada", scores[0].Author)
	assert.Equal(t, 75.0, scores[0].TotalScore)
	assert.Equal(t, string(schema.GradeB), scores[0].Grade)
	assert.Equal(t, int64(120), scores[0].TotalCommits)
	assert.Equal(t, 12.5, scores[0].ReworkRatio)
	assert.Equal(t, "grace", scores[1].Author)
}

func TestSQLiteMultipleRuns(t *testing.T) {
	store := newSQLiteStore(t)

	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	id1, err := store.BeginRun(first, nil)
	require.NoError(t, err)
	id2, err := store.BeginRun(second, nil)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.TotalRuns)
	require.NotNil(t, status.LastRun)
	require.NotNil(t, status.OldestRun)
	assert.True(t, status.LastRun.Equal(second))
	assert.True(t, status.OldestRun.Equal(first))
}

func TestSQLiteClear(t *testing.T) {
	store := newSQLiteStore(t)

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordAuthorScore(runID, sampleScore("ada", 75)))

	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.TotalRuns)
	assert.Equal(t, int64(0), status.TotalScores)
	assert.Nil(t, status.LastRun)
}

func TestSQLiteEndRunUnknownID(t *testing.T) {
	store := newSQLiteStore(t)
	err := store.EndRun(99999, time.Now(), 0)
	assert.Error(t, err)
}
