// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/kyhsueh/codegrade/schema"
)

// GitClient defines the commit-log reader the analysis pipeline consumes.
// This allows the core mining logic to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command and returns its stdout output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path. Returns ErrNotARepository when the
	// path is not under version control.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// ReadCommitLog returns parsed commit records, newest first. maxCommits
	// of zero or less reads the full history.
	ReadCommitLog(ctx context.Context, repoPath string, maxCommits int) ([]schema.CommitRecord, error)
}

// CodeScanner defines the static-complexity collaborator. The pipeline only
// aggregates its figures; it never computes complexity itself.
type CodeScanner interface {
	Scan(ctx context.Context, root string, excludeFolders, excludeFiles []string) (*schema.CodeResult, error)
}

// HistoryStore defines the interface for tracking analysis runs and storing
// per-author scores across runs.
type HistoryStore interface {
	// BeginRun creates a new run row and returns its unique ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, endTime time.Time, totalAuthors int) error

	// RecordAuthorScore stores one author's scoring verdict for a run.
	RecordAuthorScore(runID int64, score schema.AuthorScore) error

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}
