package gitmine

import (
	"sort"
	"time"

	"github.com/kyhsueh/codegrade/schema"
)

// authorAccumulator is the per-author scratch state for one forward pass.
type authorAccumulator struct {
	commits        int
	filesInCommits int
	messageLength  int
	codeChanges    int
	activeDates    map[string]struct{}
	months         map[string]int
	fileChanges    map[string]int
	firstCommit    time.Time
	lastCommit     time.Time
}

// Result bundles everything one forward pass over the filtered sequence
// produces: per-author metrics, the shared-axis activity view, the tally
// and the repository-wide summary.
type Result struct {
	Metrics  map[string]schema.AuthorMetrics
	Activity schema.DeveloperActivity
	Tally    map[string]int
	Summary  schema.GitSummary
}

// Aggregate performs the single forward pass over chronologically ascending
// commit records, producing AuthorMetrics and month-bucketed timelines.
// Authors with zero commits never appear in the output, so no ratio can
// divide by zero.
func Aggregate(records []schema.CommitRecord, precision int) *Result {
	accs := make(map[string]*authorAccumulator)
	detector := NewReworkDetector()
	tally := make(map[string]int)

	var latest time.Time
	totalInsertions, totalDeletions := 0, 0

	for _, rec := range records {
		acc, ok := accs[rec.Author]
		if !ok {
			acc = &authorAccumulator{
				activeDates: make(map[string]struct{}),
				months:      make(map[string]int),
				fileChanges: make(map[string]int),
				firstCommit: rec.Timestamp,
			}
			accs[rec.Author] = acc
		}

		acc.commits++
		acc.filesInCommits += len(rec.Files)
		acc.messageLength += len(rec.Message)
		acc.activeDates[rec.Timestamp.Format("2006-01-02")] = struct{}{}
		acc.months[schema.MonthKey(rec.Timestamp)]++
		acc.lastCommit = rec.Timestamp
		if rec.Timestamp.After(latest) {
			latest = rec.Timestamp
		}

		for _, fc := range rec.Files {
			tally[fc.Path]++
			acc.fileChanges[fc.Path]++
			acc.codeChanges += fc.Insertions + fc.Deletions
			totalInsertions += fc.Insertions
			totalDeletions += fc.Deletions
			detector.Observe(rec.Author, fc.Path, rec.Timestamp)
		}
	}

	hotspots := topTallyShare(tally)

	metrics := make(map[string]schema.AuthorMetrics, len(accs))
	for author, acc := range accs {
		metrics[author] = acc.buildMetrics(author, detector, hotspots, latest, len(records), precision)
	}

	return &Result{
		Metrics:  metrics,
		Activity: buildActivity(accs),
		Tally:    tally,
		Summary: schema.GitSummary{
			TotalCommits:      len(records),
			TotalAuthors:      len(accs),
			TotalFilesChanged: len(tally),
			TotalInsertions:   totalInsertions,
			TotalDeletions:    totalDeletions,
			Authors:           sortedAuthors(accs),
		},
	}
}

// buildMetrics converts scratch state into the final per-author snapshot.
// Recency is measured against the newest commit in the analyzed range, not
// wall-clock time, so historical analyses stay reproducible.
func (acc *authorAccumulator) buildMetrics(author string, detector *ReworkDetector, hotspots map[string]struct{}, latest time.Time, totalCommits, precision int) schema.AuthorMetrics {
	commits := float64(acc.commits)

	spanDays := acc.lastCommit.Sub(acc.firstCommit).Hours() / 24
	if spanDays < 1 {
		spanDays = 1
	}
	interval := spanDays
	if acc.commits > 1 {
		interval = spanDays / commits
	}

	rapid, touches := detector.Counts(author)

	contribution := 0.0
	if totalCommits > 0 {
		contribution = commits / float64(totalCommits) * 100
	}

	return schema.AuthorMetrics{
		TotalCommits:         acc.commits,
		FilesModified:        len(acc.fileChanges),
		TotalCodeChanges:     acc.codeChanges,
		ActiveDays:           len(acc.activeDates),
		DaysSinceLastCommit:  schema.Round(latest.Sub(acc.lastCommit).Hours()/24, precision),
		AvgFilesPerCommit:    schema.Round(float64(acc.filesInCommits)/commits, 2),
		AvgMessageLength:     schema.Round(float64(acc.messageLength)/commits, precision),
		AvgCommitInterval:    schema.Round(interval, 2),
		RapidReworkCount:     rapid,
		TotalFileTouches:     touches,
		RapidReworkRatio:     detector.Ratio(author, precision),
		FileConcentration:    schema.Round(acc.fileConcentration(), precision),
		HotspotParticipation: schema.Round(acc.hotspotParticipation(hotspots), precision),
		ContributionRatio:    schema.Round(contribution, precision),
	}
}

// fileConcentration is the share of the author's file touches that land in
// their ten most-touched files, as a percentage.
func (acc *authorAccumulator) fileConcentration() float64 {
	if len(acc.fileChanges) == 0 {
		return 0
	}
	counts := make([]int, 0, len(acc.fileChanges))
	total := 0
	for _, c := range acc.fileChanges {
		counts = append(counts, c)
		total += c
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	top := 0
	for i, c := range counts {
		if i >= 10 {
			break
		}
		top += c
	}
	if total == 0 {
		return 0
	}
	return float64(top) / float64(total) * 100
}

// hotspotParticipation is the share of the author's touched files that sit
// in the repository's top-20% most-changed files, as a percentage.
func (acc *authorAccumulator) hotspotParticipation(hotspots map[string]struct{}) float64 {
	if len(acc.fileChanges) == 0 {
		return 0
	}
	hits := 0
	for path := range acc.fileChanges {
		if _, ok := hotspots[path]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(acc.fileChanges)) * 100
}

// topTallyShare returns the set of paths in the top 20% of the change tally.
func topTallyShare(tally map[string]int) map[string]struct{} {
	if len(tally) == 0 {
		return nil
	}
	ranked := TopChangedFiles(tally, 0)
	cutoff := len(ranked) / 5
	if cutoff < 1 {
		cutoff = 1
	}
	hotspots := make(map[string]struct{}, cutoff)
	for _, cf := range ranked[:cutoff] {
		hotspots[cf.Path] = struct{}{}
	}
	return hotspots
}

// buildActivity assembles the month-bucketed view. Every author's timeline
// is zero-filled over the same ordered month keys so all series share one
// x-axis domain.
func buildActivity(accs map[string]*authorAccumulator) schema.DeveloperActivity {
	monthSet := make(map[string]struct{})
	for _, acc := range accs {
		for month := range acc.months {
			monthSet[month] = struct{}{}
		}
	}
	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	authors := make([]schema.AuthorTimeline, 0, len(accs))
	for author, acc := range accs {
		timeline := make([]int, len(months))
		for i, m := range months {
			timeline[i] = acc.months[m]
		}
		authors = append(authors, schema.AuthorTimeline{
			Author:       author,
			TotalCommits: acc.commits,
			Timeline:     timeline,
		})
	}
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].TotalCommits == authors[j].TotalCommits {
			return authors[i].Author < authors[j].Author
		}
		return authors[i].TotalCommits > authors[j].TotalCommits
	})

	return schema.DeveloperActivity{Months: months, Authors: authors}
}

// sortedAuthors lists author names in deterministic order.
func sortedAuthors(accs map[string]*authorAccumulator) []string {
	names := make([]string, 0, len(accs))
	for name := range accs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
