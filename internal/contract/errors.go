package contract

import "errors"

// Sentinel errors surfaced by commit-range validation and repository
// detection. Range errors abort the run with no partial result;
// ErrNotARepository downgrades the run to code-analysis-only.
var (
	// ErrRangeNotFound means a commit-range bound does not exist in the
	// analyzed sequence.
	ErrRangeNotFound = errors.New("commit range bound not found in history")

	// ErrInvalidRange means both bounds were given but the end commit
	// precedes the start commit.
	ErrInvalidRange = errors.New("commit range end precedes start")

	// ErrNotARepository means the target path is not under version control.
	ErrNotARepository = errors.New("path is not a git repository")
)
