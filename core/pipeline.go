// Package core orchestrates the analysis pipeline: static code scanning,
// git history mining, contributor scoring, and progress publishing.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kyhsueh/codegrade/core/gitmine"
	"github.com/kyhsueh/codegrade/core/scoring"
	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/internal/progress"
	"github.com/kyhsueh/codegrade/schema"
)

// Progress milestones for the two pipeline stages. The code stage owns the
// 0-50 band; the git stage owns 55-95; completed always lands on 100.
const (
	pctCodeStart    = 5
	pctCodeScanned  = 40
	pctCodeDone     = 50
	pctGitLogRead   = 55
	pctGitFiltered  = 65
	pctGitAggregate = 80
	pctGitScored    = 90
	pctGitMerged    = 95
	pctCompleted    = 100
)

// Pipeline wires one analysis run's collaborators. Progress and History are
// optional; a nil Progress publishes nothing and a nil History records
// nothing.
type Pipeline struct {
	Git      contract.GitClient
	Scanner  contract.CodeScanner
	Progress *progress.Registry
	History  contract.HistoryStore
}

// Run executes the full pipeline for one session: code analysis, then git
// analysis, then the merged result. Progress events are published under
// sessionID throughout, ending with exactly one terminal event (`completed`
// or `error`), and the session is always closed before Run returns.
//
// A target that is not a git repository is not an error: the run completes
// with the git section omitted. Bad commit bounds are rejected during input
// validation before any stage runs, so they surface to the caller without
// publishing a single event.
func (p *Pipeline) Run(ctx context.Context, sessionID string, cfg *contract.Config) (*schema.AnalysisResult, error) {
	if p.Progress != nil {
		p.Progress.Open(sessionID)
		defer p.Progress.Close(sessionID)
	}

	result, err := p.run(ctx, sessionID, cfg)
	if err != nil {
		if !isRangeError(err) {
			p.publish(sessionID, schema.StageError, 0, err.Error())
		}
		return nil, err
	}
	return result, nil
}

func isRangeError(err error) bool {
	return errors.Is(err, contract.ErrRangeNotFound) || errors.Is(err, contract.ErrInvalidRange)
}

func (p *Pipeline) run(ctx context.Context, sessionID string, cfg *contract.Config) (*schema.AnalysisResult, error) {
	// Mine the history first: resolving the commit bounds doubles as input
	// validation, and nothing may be published before validation passes.
	log, gitErr := p.mineCommits(ctx, cfg)
	if gitErr != nil && !errors.Is(gitErr, contract.ErrNotARepository) {
		return nil, gitErr
	}

	runID := p.beginRun(cfg)

	p.publish(sessionID, schema.StageCodeAnalysis, pctCodeStart, "Starting code analysis")
	code, err := p.Scanner.Scan(ctx, cfg.ProjectPath, cfg.ExcludeCodeFolders, cfg.ExcludeCodeFiles)
	if err != nil {
		return nil, fmt.Errorf("code analysis failed: %w", err)
	}
	p.publish(sessionID, schema.StageCodeAnalysis, pctCodeScanned,
		fmt.Sprintf("Scanned %d files", code.Summary.TotalFiles))
	p.publish(sessionID, schema.StageCodeAnalysis, pctCodeDone, "Code analysis complete")

	if gitErr != nil {
		p.publish(sessionID, schema.StageCompleted, pctCompleted,
			"Analysis complete (not a git repository, history skipped)")
		return &schema.AnalysisResult{Code: code}, nil
	}

	git := p.scoreCommits(sessionID, log, cfg)
	result := &schema.AnalysisResult{Code: code, Git: git}
	p.publish(sessionID, schema.StageGitAnalysis, pctGitMerged, "Merging results")

	p.endRun(runID, git.AuthorScores)
	p.publish(sessionID, schema.StageCompleted, pctCompleted, "Analysis complete")
	return result, nil
}

// runGitStage mines and scores the history on its own, for the entry points
// that skip code analysis. Range errors and ErrNotARepository propagate to
// the caller unchanged.
func (p *Pipeline) runGitStage(ctx context.Context, sessionID string, cfg *contract.Config) (*schema.GitResult, error) {
	log, err := p.mineCommits(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return p.scoreCommits(sessionID, log, cfg), nil
}

// commitLog carries the filtered history plus the raw log size for reporting.
type commitLog struct {
	filtered []schema.CommitRecord
	total    int
}

// mineCommits reads and filters the commit history. When explicit commit
// bounds are configured the full log is read so the bounds can be located;
// the filter re-applies the max-count limit afterwards.
func (p *Pipeline) mineCommits(ctx context.Context, cfg *contract.Config) (*commitLog, error) {
	repoRoot, err := p.Git.GetRepoRoot(ctx, cfg.ProjectPath)
	if err != nil {
		return nil, err
	}

	maxCommits := cfg.MaxCommits
	if cfg.StartCommit != "" || cfg.EndCommit != "" {
		maxCommits = 0
	}
	records, err := p.Git.ReadCommitLog(ctx, repoRoot, maxCommits)
	if err != nil {
		return nil, fmt.Errorf("reading commit log: %w", err)
	}

	filtered, err := gitmine.ApplyFilter(records, gitmine.Filter{
		Authors:     cfg.FilterAuthors,
		StartCommit: cfg.StartCommit,
		EndCommit:   cfg.EndCommit,
		MaxCommits:  cfg.MaxCommits,
		ExcludeGit:  cfg.ExcludeGitFiles,
	})
	if err != nil {
		return nil, err
	}
	return &commitLog{filtered: filtered, total: len(records)}, nil
}

// scoreCommits aggregates the mined history and scores every contributor,
// publishing the git-stage milestones along the way.
func (p *Pipeline) scoreCommits(sessionID string, log *commitLog, cfg *contract.Config) *schema.GitResult {
	p.publish(sessionID, schema.StageGitAnalysis, pctGitLogRead,
		fmt.Sprintf("Read %d commits", log.total))
	p.publish(sessionID, schema.StageGitAnalysis, pctGitFiltered,
		fmt.Sprintf("Analyzing %d commits", len(log.filtered)))

	mined := gitmine.Aggregate(log.filtered, cfg.Precision)
	p.publish(sessionID, schema.StageGitAnalysis, pctGitAggregate, "Aggregating contributor activity")

	scores := scoring.ScoreAuthors(mined.Metrics, cfg.Precision)
	p.publish(sessionID, schema.StageGitAnalysis, pctGitScored,
		fmt.Sprintf("Scored %d contributors", len(scores)))

	return &schema.GitResult{
		Summary:            mined.Summary,
		TopChangedFiles:    gitmine.TopChangedFiles(mined.Tally, cfg.ResultLimit),
		ChangeDistribution: gitmine.ChangeDistribution(mined.Tally),
		DeveloperActivity:  mined.Activity,
		AuthorScores:       scores,
	}
}

// publish forwards a milestone to the registry when one is wired.
func (p *Pipeline) publish(sessionID string, stage schema.Stage, pct int, msg string) {
	if p.Progress == nil {
		return
	}
	p.Progress.Publish(sessionID, stage, pct, msg)
}

// beginRun opens a history row when a store is wired. Tracking failures are
// warnings, never run failures.
func (p *Pipeline) beginRun(cfg *contract.Config) int64 {
	if p.History == nil {
		return 0
	}
	runID, err := p.History.BeginRun(time.Now(), map[string]any{
		"project_path": cfg.ProjectPath,
		"max_commits":  cfg.MaxCommits,
		"authors":      len(cfg.FilterAuthors),
		"result_limit": cfg.ResultLimit,
	})
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return 0
	}
	return runID
}

// endRun finalizes the history row and records every author verdict.
func (p *Pipeline) endRun(runID int64, scores []schema.AuthorScore) {
	if p.History == nil || runID <= 0 {
		return
	}
	for _, s := range scores {
		if err := p.History.RecordAuthorScore(runID, s); err != nil {
			contract.LogWarn("Failed to record score for "+s.Author, err)
		}
	}
	if err := p.History.EndRun(runID, time.Now(), len(scores)); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}
