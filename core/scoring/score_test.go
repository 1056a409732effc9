package scoring

import (
	"testing"

	"github.com/kyhsueh/codegrade/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strongMetrics hits the top band of every policy table.
func strongMetrics() schema.AuthorMetrics {
	return schema.AuthorMetrics{
		TotalCommits:        240,
		FilesModified:       60,
		TotalCodeChanges:    20000,
		ActiveDays:          200,
		DaysSinceLastCommit: 10,
		AvgFilesPerCommit:   2,
		AvgMessageLength:    35,
		RapidReworkRatio:    5,
		ContributionRatio:   50,
	}
}

// weakMetrics lands on the floor band of every policy table.
func weakMetrics() schema.AuthorMetrics {
	return schema.AuthorMetrics{
		TotalCommits:        2,
		FilesModified:       2,
		TotalCodeChanges:    40,
		ActiveDays:          2,
		DaysSinceLastCommit: 400,
		AvgFilesPerCommit:   30,
		AvgMessageLength:    4,
		RapidReworkRatio:    60,
		ContributionRatio:   1,
	}
}

func TestScoreAuthorPerfectScore(t *testing.T) {
	verdict := ScoreAuthor("ada", strongMetrics(), 1)

	assert.Equal(t, 40.0, verdict.Scores.CommitBehavior)
	assert.Equal(t, 30.0, verdict.Scores.QualityAndScope)
	assert.Equal(t, 30.0, verdict.Scores.Activity)
	assert.Equal(t, 100.0, verdict.TotalScore)
	assert.Equal(t, schema.GradeS, verdict.Grade)
}

func TestScoreAuthorFloorScore(t *testing.T) {
	verdict := ScoreAuthor("newbie", weakMetrics(), 1)

	assert.Equal(t, 11.0, verdict.Scores.CommitBehavior)
	assert.Equal(t, 4.0, verdict.Scores.QualityAndScope)
	assert.Equal(t, 9.0, verdict.Scores.Activity)
	assert.Equal(t, 24.0, verdict.TotalScore)
	assert.Equal(t, schema.GradeD, verdict.Grade)
}

func TestScoreAuthorCategoriesSumToTotal(t *testing.T) {
	tests := []struct {
		name    string
		metrics schema.AuthorMetrics
	}{
		{"strong", strongMetrics()},
		{"weak", weakMetrics()},
		{"zero value", schema.AuthorMetrics{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := ScoreAuthor("x", tt.metrics, 2)
			sum := verdict.Scores.CommitBehavior + verdict.Scores.QualityAndScope + verdict.Scores.Activity
			assert.Equal(t, verdict.TotalScore, schema.Round(sum, 2))
		})
	}
}

func TestScoreAuthorCategoryCeilings(t *testing.T) {
	verdict := ScoreAuthor("ada", strongMetrics(), 1)
	assert.LessOrEqual(t, verdict.Scores.CommitBehavior, CommitBehaviorCeiling)
	assert.LessOrEqual(t, verdict.Scores.QualityAndScope, QualityAndScopeCeiling)
	assert.LessOrEqual(t, verdict.Scores.Activity, ActivityCeiling)
}

func TestScoreAuthorBreakdownProvenance(t *testing.T) {
	verdict := ScoreAuthor("ada", strongMetrics(), 1)

	// Every scored metric appears exactly once with its full band table.
	require.Len(t, verdict.Breakdown, 9)
	seen := make(map[schema.MetricID]bool)
	for _, match := range verdict.Breakdown {
		assert.False(t, seen[match.Metric], "duplicate metric %s", match.Metric)
		seen[match.Metric] = true
		assert.NotEmpty(t, match.Label)
		assert.Equal(t, PolicyTable(match.Metric), match.Bands)
	}
}

func TestScoreAuthorsOrdering(t *testing.T) {
	metrics := map[string]schema.AuthorMetrics{
		"weak":   weakMetrics(),
		"strong": strongMetrics(),
		"zed":    weakMetrics(),
		"ada":    weakMetrics(),
	}

	scores := ScoreAuthors(metrics, 1)
	require.Len(t, scores, 4)
	assert.Equal(t, "strong", scores[0].Author)
	// Equal totals rank alphabetically.
	assert.Equal(t, "ada", scores[1].Author)
	assert.Equal(t, "weak", scores[2].Author)
	assert.Equal(t, "zed", scores[3].Author)
}

func TestDetermineGrade(t *testing.T) {
	tests := []struct {
		total    float64
		expected schema.Grade
	}{
		{100, schema.GradeS},
		{90, schema.GradeS},
		{89.9, schema.GradeA},
		{80, schema.GradeA},
		{79.9, schema.GradeB},
		{70, schema.GradeB},
		{69.9, schema.GradeC},
		{60, schema.GradeC},
		{59.9, schema.GradeD},
		{0, schema.GradeD},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DetermineGrade(tt.total), "total %.1f", tt.total)
	}
}

func TestMatchTierBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		metric schema.MetricID
		value  float64
		points float64
		label  string
	}{
		{"files per commit optimal", schema.MetricFilesPerCommit, 2, 20, "optimal"},
		{"files per commit optimal upper edge", schema.MetricFilesPerCommit, 3, 20, "optimal"},
		{"files per commit scattered", schema.MetricFilesPerCommit, 25, 5, "scattered"},
		{"recency active edge", schema.MetricRecency, 30, 5, "active"},
		{"recency intermittent", schema.MetricRecency, 31, 3, "intermittent"},
		{"recency dormant", schema.MetricRecency, 91, 1, "dormant"},
		{"message descriptive", schema.MetricMessageLength, 20, 15, "descriptive"},
		{"message terse", schema.MetricMessageLength, 9, 5, "terse"},
		{"rework excellent edge", schema.MetricReworkRatio, 10, 15, "excellent"},
		{"rework severe", schema.MetricReworkRatio, 51, 2, "severe"},
		{"contribution core", schema.MetricContribution, 30, 10, "core"},
		{"contribution occasional", schema.MetricContribution, 4.9, 3, "occasional"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := MatchTier(tt.metric, tt.value)
			assert.Equal(t, tt.points, match.Points)
			assert.Equal(t, tt.label, match.Label)
			assert.Equal(t, tt.value, match.Value)
			assert.Equal(t, tt.metric, match.Metric)
		})
	}
}
