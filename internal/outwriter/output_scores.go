package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/schema"
)

// WriteAuthorScores outputs contributor quality scores, dispatching based on
// the output format configured.
func WriteAuthorScores(scores []schema.AuthorScore, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeScoreJSON(w, scores)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeScoreCSV(w, scores, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeScoreTable(w, scores, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeScoreTable generates and writes the human-readable score table.
func writeScoreTable(w io.Writer, scores []schema.AuthorScore, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Author", "Grade", "Total", "Commit", "Quality", "Activity", "Commits", "Contrib%"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, s := range scores {
		grade := string(s.Grade)
		if cfg.UseColors {
			grade = contract.GetColorGradeLabel(s.Grade)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			s.Author,
			grade,
			fmtFloat(s.TotalScore),
			fmtFloat(s.Scores.CommitBehavior),
			fmtFloat(s.Scores.QualityAndScope),
			fmtFloat(s.Scores.Activity),
			strconv.Itoa(s.Metrics.TotalCommits),
			fmtFloat(s.Metrics.ContributionRatio),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Legend: one line per grade that actually appears, best first.
	seen := make(map[schema.Grade]bool)
	for _, s := range scores {
		if seen[s.Grade] {
			continue
		}
		seen[s.Grade] = true
		if _, err := fmt.Fprintf(w, "%s: %s\n", s.Grade, s.Grade.Description()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Scored %d contributors in %v with %d workers\n", len(scores), duration, cfg.Workers)
	return err
}

// writeScoreCSV writes contributor scores in CSV format.
func writeScoreCSV(w io.Writer, scores []schema.AuthorScore, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"author",
		"grade",
		"total_score",
		"commit_behavior",
		"quality_and_scope",
		"activity",
		"total_commits",
		"files_modified",
		"active_days",
		"rework_ratio",
		"contribution_pct",
		"description",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, s := range scores {
			rec := []string{
				strconv.Itoa(i + 1),
				s.Author,
				string(s.Grade),
				fmtFloat(s.TotalScore),
				fmtFloat(s.Scores.CommitBehavior),
				fmtFloat(s.Scores.QualityAndScope),
				fmtFloat(s.Scores.Activity),
				strconv.Itoa(s.Metrics.TotalCommits),
				strconv.Itoa(s.Metrics.FilesModified),
				strconv.Itoa(s.Metrics.ActiveDays),
				fmtFloat(s.Metrics.RapidReworkRatio),
				fmtFloat(s.Metrics.ContributionRatio),
				s.Grade.Description(),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeScoreJSON writes contributor scores in JSON format with rank and
// grade description added.
func writeScoreJSON(w io.Writer, scores []schema.AuthorScore) error {
	type JSONAuthorScore struct {
		Rank        int    `json:"rank"`
		Description string `json:"description"`
		schema.AuthorScore
	}

	output := make([]JSONAuthorScore, len(scores))
	for i, s := range scores {
		output[i] = JSONAuthorScore{
			Rank:        i + 1,
			Description: s.Grade.Description(),
			AuthorScore: s,
		}
	}
	return writeJSON(w, output)
}
