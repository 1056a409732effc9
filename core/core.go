package core

import (
	"context"
	"errors"
	"time"

	"github.com/kyhsueh/codegrade/internal/codescan"
	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/internal/historydb"
	"github.com/kyhsueh/codegrade/internal/outwriter"
	"github.com/kyhsueh/codegrade/schema"
)

// ExecutorFunc defines the function signature for executing different analysis modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// NewPipeline assembles a pipeline with the default local collaborators.
// Progress is left nil; stream consumers attach their own registry.
func NewPipeline(cfg *contract.Config) *Pipeline {
	return &Pipeline{
		Git:     contract.NewLocalGitClient(),
		Scanner: codescan.NewTreeScanner(cfg.Workers),
		History: newHistoryStore(cfg),
	}
}

// ExecuteAnalyze runs the full pipeline and prints the merged report.
// It serves as the main entry point for the 'analyze' mode.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	p := NewPipeline(cfg)
	defer closeHistory(p)

	result, err := p.Run(ctx, "", cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteAnalysisResult(result, cfg, time.Since(start))
}

// ExecuteAuthors runs the git stage and prints contributor quality scores.
// It serves as the main entry point for the 'authors' mode.
func ExecuteAuthors(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	p := NewPipeline(cfg)
	defer closeHistory(p)

	runID := p.beginRun(cfg)
	git, err := p.runGitStage(ctx, "", cfg)
	if err != nil {
		if errors.Is(err, contract.ErrNotARepository) {
			return errors.New("author scoring requires a git repository")
		}
		return err
	}
	p.endRun(runID, git.AuthorScores)
	return outwriter.WriteAuthorScores(git.AuthorScores, cfg, time.Since(start))
}

// ExecuteFiles runs the git stage and prints the change-frequency ranking.
// It serves as the main entry point for the 'files' mode.
func ExecuteFiles(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	p := NewPipeline(cfg)
	defer closeHistory(p)

	git, err := p.runGitStage(ctx, "", cfg)
	if err != nil {
		if errors.Is(err, contract.ErrNotARepository) {
			return errors.New("change ranking requires a git repository")
		}
		return err
	}
	return outwriter.WriteTopChangedFiles(git.TopChangedFiles, git.ChangeDistribution, cfg, time.Since(start))
}

// GetAnalysisResult runs the full pipeline and returns the merged result
// without printing. Used by the MCP and HTTP surfaces.
func GetAnalysisResult(ctx context.Context, cfg *contract.Config) (*schema.AnalysisResult, error) {
	p := NewPipeline(cfg)
	defer closeHistory(p)
	return p.Run(ctx, "", cfg)
}

// GetAuthorScores runs the git stage and returns contributor verdicts
// without printing.
func GetAuthorScores(ctx context.Context, cfg *contract.Config) ([]schema.AuthorScore, error) {
	p := NewPipeline(cfg)
	defer closeHistory(p)

	git, err := p.runGitStage(ctx, "", cfg)
	if err != nil {
		return nil, err
	}
	return git.AuthorScores, nil
}

// GetTopChangedFiles runs the git stage and returns the ranked files with
// their tier distribution without printing.
func GetTopChangedFiles(ctx context.Context, cfg *contract.Config) ([]schema.ChangedFile, schema.TierDistribution, error) {
	p := NewPipeline(cfg)
	defer closeHistory(p)

	git, err := p.runGitStage(ctx, "", cfg)
	if err != nil {
		return nil, schema.TierDistribution{}, err
	}
	return git.TopChangedFiles, git.ChangeDistribution, nil
}

// newHistoryStore builds the configured history store, or nil when tracking
// is disabled or unavailable. A broken store downgrades to a warning so the
// analysis itself still runs.
func newHistoryStore(cfg *contract.Config) contract.HistoryStore {
	if cfg.HistoryBackend == schema.NoneBackend || cfg.HistoryBackend == "" {
		return nil
	}
	store, err := historydb.NewHistoryStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		contract.LogWarn("History tracking disabled", err)
		return nil
	}
	return store
}

func closeHistory(p *Pipeline) {
	if p.History == nil {
		return
	}
	if err := p.History.Close(); err != nil {
		contract.LogWarn("Failed to close history store", err)
	}
}
