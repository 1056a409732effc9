// Package gitmine has the history-mining passes over normalized commit records.
package gitmine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/schema"
)

// Filter narrows a raw commit sequence before any windowed computation.
// All fields are optional; the zero value passes everything through.
type Filter struct {
	Authors     []string
	StartCommit string
	EndCommit   string
	MaxCommits  int
	ExcludeGit  []string
}

// ApplyFilter returns a filtered, chronologically ascending commit sequence.
// Range bounds are inclusive and identified by full hash or hash prefix.
// MaxCommits keeps the newest N commits of the filtered range.
func ApplyFilter(records []schema.CommitRecord, f Filter) ([]schema.CommitRecord, error) {
	out := make([]schema.CommitRecord, len(records))
	copy(out, records)

	// Source ordering is not guaranteed; sort ascending before any
	// windowed computation. Hash breaks timestamp ties deterministically.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Hash < out[j].Hash
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	var err error
	if out, err = sliceCommitRange(out, f.StartCommit, f.EndCommit); err != nil {
		return nil, err
	}

	if len(f.Authors) > 0 {
		filtered := out[:0]
		for _, rec := range out {
			if contract.MatchesAuthorFilter(rec.Author, f.Authors) {
				filtered = append(filtered, rec)
			}
		}
		out = filtered
	}

	if len(f.ExcludeGit) > 0 {
		for i := range out {
			out[i].Files = stripExcludedFiles(out[i].Files, f.ExcludeGit)
		}
	}

	// Truncate from the most recent end, keeping the newest N.
	if f.MaxCommits > 0 && len(out) > f.MaxCommits {
		out = out[len(out)-f.MaxCommits:]
	}

	return out, nil
}

// sliceCommitRange narrows the ascending sequence to the inclusive range
// between the start and end bound identifiers.
func sliceCommitRange(records []schema.CommitRecord, start, end string) ([]schema.CommitRecord, error) {
	startIdx, endIdx := 0, len(records)-1

	if start != "" {
		idx := findCommitIndex(records, start)
		if idx < 0 {
			return nil, fmt.Errorf("start commit %q: %w", start, contract.ErrRangeNotFound)
		}
		startIdx = idx
	}
	if end != "" {
		idx := findCommitIndex(records, end)
		if idx < 0 {
			return nil, fmt.Errorf("end commit %q: %w", end, contract.ErrRangeNotFound)
		}
		endIdx = idx
	}

	if start != "" && end != "" && endIdx < startIdx {
		return nil, fmt.Errorf("%q..%q: %w", start, end, contract.ErrInvalidRange)
	}
	if len(records) == 0 {
		return records, nil
	}
	return records[startIdx : endIdx+1], nil
}

// findCommitIndex locates a commit by full hash or unique-enough prefix.
func findCommitIndex(records []schema.CommitRecord, id string) int {
	for i, rec := range records {
		if rec.Hash == id || strings.HasPrefix(rec.Hash, id) {
			return i
		}
	}
	return -1
}

// stripExcludedFiles drops file changes matching the git exclusion list.
// The input slice backs the caller's records and is never written to.
func stripExcludedFiles(files []schema.FileChange, excludes []string) []schema.FileChange {
	kept := make([]schema.FileChange, 0, len(files))
	for _, fc := range files {
		if !contract.ShouldIgnore(fc.Path, excludes) {
			kept = append(kept, fc)
		}
	}
	return kept
}
