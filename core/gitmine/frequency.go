package gitmine

import (
	"sort"

	"github.com/kyhsueh/codegrade/schema"
)

// Frequency tier bounds for per-file change counts (inclusive).
const (
	lowTierMax    = 5
	mediumTierMax = 15
	highTierMax   = 30
)

// TallyChanges counts how many commits touched each path. The tally is
// rebuilt per run and never persisted.
func TallyChanges(records []schema.CommitRecord) map[string]int {
	tally := make(map[string]int)
	for _, rec := range records {
		for _, fc := range rec.Files {
			tally[fc.Path]++
		}
	}
	return tally
}

// ChangeDistribution buckets per-file change counts into the four fixed
// frequency tiers. Empty input yields an all-zero distribution.
func ChangeDistribution(tally map[string]int) schema.TierDistribution {
	var dist schema.TierDistribution
	for _, count := range tally {
		switch {
		case count <= lowTierMax:
			dist.Low++
		case count <= mediumTierMax:
			dist.Medium++
		case count <= highTierMax:
			dist.High++
		default:
			dist.VeryHigh++
		}
	}
	return dist
}

// TopChangedFiles ranks files descending by change count, breaking ties by
// lexical path order for determinism, and returns the first n.
func TopChangedFiles(tally map[string]int, n int) []schema.ChangedFile {
	ranked := make([]schema.ChangedFile, 0, len(tally))
	for path, count := range tally {
		ranked = append(ranked, schema.ChangedFile{Path: path, Changes: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Changes == ranked[j].Changes {
			return ranked[i].Path < ranked[j].Path
		}
		return ranked[i].Changes > ranked[j].Changes
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
