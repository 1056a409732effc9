// Package scoring turns per-author metrics into deterministic quality scores.
package scoring

import "github.com/kyhsueh/codegrade/schema"

// Category ceilings. The three ceilings sum to 100, so totals are 0-100 by
// construction.
const (
	CommitBehaviorCeiling  = 40.0
	QualityAndScopeCeiling = 30.0
	ActivityCeiling        = 30.0
)

// Recent-activity policy windows, in days. Fixed constants rather than
// configuration so identical inputs always reproduce identical scores.
const (
	RecentActivityDays       = 30
	IntermittentActivityDays = 90
)

// policyTables holds every scoring band, keyed by metric. Bands are matched
// in order, first match wins; the final band of each table carries no bounds
// and acts as the floor score.
var policyTables = map[schema.MetricID][]schema.TierBand{
	// Commit behavior (<=40): a moderate number of files per commit is the
	// sweet spot; both one-line drive-bys and shotgun changes rank lower.
	schema.MetricFilesPerCommit: {
		{Min: 1, Max: 3, Points: 20, Label: "optimal"},
		{Min: 3, Max: 6, Points: 18, Label: "excellent"},
		{Min: 0.5, Max: 1, Points: 15, Label: "good"},
		{Min: 6, Max: 10, Points: 15, Label: "good"},
		{Min: 10, Max: 15, Points: 10, Label: "average"},
		{Points: 5, Label: "scattered"},
	},
	schema.MetricRecency: {
		{Max: RecentActivityDays, Points: 5, Label: "active"},
		{Max: IntermittentActivityDays, Points: 3, Label: "intermittent"},
		{Points: 1, Label: "dormant"},
	},
	schema.MetricMessageLength: {
		{Min: 20, Points: 15, Label: "descriptive"},
		{Min: 10, Points: 11, Label: "adequate"},
		{Points: 5, Label: "terse"},
	},

	// Quality and scope (<=30). The inverted rework ratio is deliberately
	// the largest single sub-weight: rework frequency is the strongest
	// quality signal available from commit metadata alone.
	schema.MetricFileBreadth: {
		{Min: 50, Points: 8, Label: "broad"},
		{Min: 30, Points: 7, Label: "wide"},
		{Min: 15, Points: 5, Label: "moderate"},
		{Min: 5, Points: 3, Label: "narrow"},
		{Points: 1, Label: "focused"},
	},
	schema.MetricChangeVolume: {
		{Min: 10000, Points: 7, Label: "massive"},
		{Min: 5000, Points: 6, Label: "large"},
		{Min: 2000, Points: 4, Label: "medium"},
		{Min: 500, Points: 2, Label: "small"},
		{Points: 1, Label: "minimal"},
	},
	schema.MetricReworkRatio: {
		{Max: 10, Points: 15, Label: "excellent"},
		{Max: 20, Points: 12, Label: "good"},
		{Max: 30, Points: 9, Label: "average"},
		{Max: 50, Points: 5, Label: "needs work"},
		{Points: 2, Label: "severe"},
	},

	// Activity (<=30).
	schema.MetricFilesModified: {
		{Min: 50, Points: 10, Label: "broad"},
		{Min: 30, Points: 8, Label: "wide"},
		{Min: 10, Points: 6, Label: "average"},
		{Points: 3, Label: "limited"},
	},
	schema.MetricActiveDays: {
		{Min: 180, Points: 10, Label: "sustained"},
		{Min: 90, Points: 8, Label: "quarterly"},
		{Min: 30, Points: 6, Label: "monthly"},
		{Points: 3, Label: "brief"},
	},
	schema.MetricContribution: {
		{Min: 30, Points: 10, Label: "core"},
		{Min: 15, Points: 8, Label: "major"},
		{Min: 5, Points: 6, Label: "regular"},
		{Points: 3, Label: "occasional"},
	},
}

// MatchTier maps a metric value to the first matching band of that metric's
// policy table, carrying the full band list so consumers can explain both
// the matched tier and the alternatives.
func MatchTier(metric schema.MetricID, value float64) schema.TierMatch {
	bands := policyTables[metric]
	match := schema.TierMatch{
		Metric: metric,
		Value:  value,
		Bands:  bands,
	}
	for _, band := range bands {
		if value < band.Min {
			continue
		}
		if band.Max != 0 && value > band.Max {
			continue
		}
		match.Points = band.Points
		match.Label = band.Label
		return match
	}
	// Tables always end with an unbounded floor band, so this is only
	// reachable for an unknown metric id.
	return match
}

// PolicyTable returns the ordered band list for a metric.
func PolicyTable(metric schema.MetricID) []schema.TierBand {
	return policyTables[metric]
}
