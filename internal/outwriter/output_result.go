package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/schema"
)

// WriteAnalysisResult outputs the full merged analysis, dispatching based on
// the output format configured. CSV output reduces to the author score rows,
// which are the only naturally tabular part of the merged result.
func WriteAnalysisResult(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		if result.Git == nil {
			return fmt.Errorf("csv output requires git analysis results")
		}
		return WriteAuthorScores(result.Git.AuthorScores, cfg, duration)
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeResultText(w, result, cfg, duration)
		}, "Wrote report")
	}
}

// writeResultText renders the full human-readable report.
func writeResultText(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(cfg.Precision)

	if result.Code != nil {
		if err := writeCodeSummary(w, result.Code, cfg); err != nil {
			return err
		}
	}

	if result.Git == nil {
		_, err := fmt.Fprintf(w, "\nNo git history analyzed (not a git repository)\n")
		return err
	}

	if err := writeGitSummary(w, &result.Git.Summary, cfg); err != nil {
		return err
	}

	sectionHeader(w, cfg, "🔥", "Top changed files")
	if err := writeFilesTable(w, result.Git.TopChangedFiles, result.Git.ChangeDistribution, cfg, duration); err != nil {
		return err
	}

	if err := writeActivityTable(w, &result.Git.DeveloperActivity, cfg); err != nil {
		return err
	}

	sectionHeader(w, cfg, "🏆", "Contributor quality scores")
	return writeScoreTable(w, result.Git.AuthorScores, cfg, fmtFloat, duration)
}

// writeCodeSummary prints the static-complexity block.
func writeCodeSummary(w io.Writer, code *schema.CodeResult, cfg *contract.Config) error {
	sectionHeader(w, cfg, "🧮", "Code summary")
	s := code.Summary
	if _, err := fmt.Fprintf(w, "  files: %d  lines: %d  functions: %d  avg complexity: %.2f\n",
		s.TotalFiles, s.TotalLines, s.TotalFunctions, s.AvgComplexity); err != nil {
		return err
	}
	if s.MaxComplexityFunction != nil {
		mf := s.MaxComplexityFunction
		if _, err := fmt.Fprintf(w, "  most complex: %s (%s:%d, complexity %d)\n",
			mf.Name, mf.File, mf.Line, mf.Complexity); err != nil {
			return err
		}
	}
	return writeDistribution(w, cfg, "Complexity", code.ComplexityDistribution)
}

// writeGitSummary prints the repository-wide totals block.
func writeGitSummary(w io.Writer, s *schema.GitSummary, cfg *contract.Config) error {
	sectionHeader(w, cfg, "📜", "Git summary")
	if _, err := fmt.Fprintf(w, "  commits: %d  authors: %d  files changed: %d  +%d -%d\n",
		s.TotalCommits, s.TotalAuthors, s.TotalFilesChanged, s.TotalInsertions, s.TotalDeletions); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "  contributors: %s\n", strings.Join(s.Authors, ", "))
	return err
}

// writeActivityTable prints the month-bucketed commit series, one row per
// author over the shared month axis.
func writeActivityTable(w io.Writer, activity *schema.DeveloperActivity, cfg *contract.Config) error {
	if len(activity.Months) == 0 {
		return nil
	}
	sectionHeader(w, cfg, "📅", "Developer activity by month")

	table := tablewriter.NewWriter(w)
	table.Header(append([]string{"Author", "Total"}, activity.Months...))
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, a := range activity.Authors {
		row := []string{a.Author, strconv.Itoa(a.TotalCommits)}
		for _, n := range a.Timeline {
			row = append(row, strconv.Itoa(n))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
