package scoring

import (
	"math"
	"sort"

	"github.com/kyhsueh/codegrade/schema"
)

// ScoreAuthors scores every author and returns the verdicts sorted by total
// score descending, ties broken by author name for determinism.
func ScoreAuthors(metrics map[string]schema.AuthorMetrics, precision int) []schema.AuthorScore {
	scores := make([]schema.AuthorScore, 0, len(metrics))
	for author, m := range metrics {
		scores = append(scores, ScoreAuthor(author, m, precision))
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].TotalScore == scores[j].TotalScore {
			return scores[i].Author < scores[j].Author
		}
		return scores[i].TotalScore > scores[j].TotalScore
	})
	return scores
}

// ScoreAuthor computes one author's quality score. The function is stateless
// and deterministic: the same metrics always yield the same verdict, and the
// three category scores always sum exactly to the total.
func ScoreAuthor(author string, m schema.AuthorMetrics, precision int) schema.AuthorScore {
	behaviorMatches := []schema.TierMatch{
		MatchTier(schema.MetricFilesPerCommit, m.AvgFilesPerCommit),
		MatchTier(schema.MetricRecency, m.DaysSinceLastCommit),
		MatchTier(schema.MetricMessageLength, m.AvgMessageLength),
	}
	qualityMatches := []schema.TierMatch{
		MatchTier(schema.MetricFileBreadth, float64(m.FilesModified)),
		MatchTier(schema.MetricChangeVolume, float64(m.TotalCodeChanges)),
		MatchTier(schema.MetricReworkRatio, m.RapidReworkRatio),
	}
	activityMatches := []schema.TierMatch{
		MatchTier(schema.MetricFilesModified, float64(m.FilesModified)),
		MatchTier(schema.MetricActiveDays, float64(m.ActiveDays)),
		MatchTier(schema.MetricContribution, m.ContributionRatio),
	}

	behavior := math.Min(sumPoints(behaviorMatches), CommitBehaviorCeiling)
	quality := math.Min(sumPoints(qualityMatches), QualityAndScopeCeiling)
	activity := math.Min(sumPoints(activityMatches), ActivityCeiling)

	breakdown := make([]schema.TierMatch, 0, 9)
	breakdown = append(breakdown, behaviorMatches...)
	breakdown = append(breakdown, qualityMatches...)
	breakdown = append(breakdown, activityMatches...)

	total := schema.Round(behavior+quality+activity, precision)

	return schema.AuthorScore{
		Author:     author,
		TotalScore: total,
		Grade:      DetermineGrade(total),
		Scores: schema.CategoryScores{
			CommitBehavior:  schema.Round(behavior, precision),
			QualityAndScope: schema.Round(quality, precision),
			Activity:        schema.Round(activity, precision),
		},
		Metrics:   m,
		Breakdown: breakdown,
	}
}

// DetermineGrade is a pure step function of the total score.
func DetermineGrade(total float64) schema.Grade {
	switch {
	case total >= 90:
		return schema.GradeS
	case total >= 80:
		return schema.GradeA
	case total >= 70:
		return schema.GradeB
	case total >= 60:
		return schema.GradeC
	default:
		return schema.GradeD
	}
}

func sumPoints(matches []schema.TierMatch) float64 {
	sum := 0.0
	for _, match := range matches {
		sum += match.Points
	}
	return sum
}
