package gitmine

import (
	"testing"
	"time"

	"github.com/kyhsueh/codegrade/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTallyChanges(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []schema.CommitRecord{
		commitAt("aaa", "ada", base, "a.go", "b.go"),
		commitAt("bbb", "grace", base.Add(time.Hour), "a.go"),
		commitAt("ccc", "ada", base.Add(2*time.Hour), "a.go", "c.go"),
	}

	tally := TallyChanges(records)
	assert.Equal(t, 3, tally["a.go"])
	assert.Equal(t, 1, tally["b.go"])
	assert.Equal(t, 1, tally["c.go"])
	assert.Len(t, tally, 3)
}

func TestChangeDistributionTiers(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected schema.TierDistribution
	}{
		{"lower edge of low", 1, schema.TierDistribution{Low: 1}},
		{"upper edge of low", 5, schema.TierDistribution{Low: 1}},
		{"lower edge of medium", 6, schema.TierDistribution{Medium: 1}},
		{"upper edge of medium", 15, schema.TierDistribution{Medium: 1}},
		{"lower edge of high", 16, schema.TierDistribution{High: 1}},
		{"upper edge of high", 30, schema.TierDistribution{High: 1}},
		{"very high", 31, schema.TierDistribution{VeryHigh: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist := ChangeDistribution(map[string]int{"f": tt.count})
			assert.Equal(t, tt.expected, dist)
		})
	}
}

func TestChangeDistributionCoversEveryFile(t *testing.T) {
	tally := map[string]int{
		"a.go": 1, "b.go": 4, "c.go": 7, "d.go": 15,
		"e.go": 16, "f.go": 29, "g.go": 31, "h.go": 500,
	}

	dist := ChangeDistribution(tally)
	assert.Equal(t, len(tally), dist.Total())
}

func TestChangeDistributionEmpty(t *testing.T) {
	dist := ChangeDistribution(map[string]int{})
	assert.Equal(t, schema.TierDistribution{}, dist)
	assert.Equal(t, 0, dist.Total())
}

func TestTopChangedFilesRanking(t *testing.T) {
	tally := map[string]int{
		"core/engine.go": 12,
		"main.go":        3,
		"api/server.go":  12,
		"README.md":      1,
	}

	ranked := TopChangedFiles(tally, 0)
	require.Len(t, ranked, 4)
	// Equal counts break ties by lexical path order.
	assert.Equal(t, "api/server.go", ranked[0].Path)
	assert.Equal(t, "core/engine.go", ranked[1].Path)
	assert.Equal(t, "main.go", ranked[2].Path)
	assert.Equal(t, "README.md", ranked[3].Path)
}

func TestTopChangedFilesLimit(t *testing.T) {
	tally := map[string]int{"a": 5, "b": 4, "c": 3, "d": 2}

	ranked := TopChangedFiles(tally, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].Path)
	assert.Equal(t, 5, ranked[0].Changes)
	assert.Equal(t, "b", ranked[1].Path)
}
