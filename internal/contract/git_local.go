package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/kyhsueh/codegrade/schema"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// commitHeaderPrefix marks the pretty-format header line of each commit in
// the raw log output.
const commitHeaderPrefix = "--"

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(_ context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.Command("git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		if strings.Contains(stderr, "not a git repository") {
			return nil, fmt.Errorf("%w: %s", ErrNotARepository, repoPath)
		}
		return nil, fmt.Errorf("git command failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ReadCommitLog implements the GitClient interface. Records come back in
// git's default order, newest first.
func (c *LocalGitClient) ReadCommitLog(ctx context.Context, repoPath string, maxCommits int) ([]schema.CommitRecord, error) {
	args := []string{
		"log",
		"--numstat",
		"--no-merges",
		"--pretty=format:" + commitHeaderPrefix + "%H|%an|%aI|%s",
		"--date=iso-strict",
	}
	if maxCommits > 0 {
		args = append(args, "-n", strconv.Itoa(maxCommits))
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return ParseCommitLog(out), nil
}

// ParseCommitLog converts raw 'git log --numstat' output into commit
// records. Malformed header or stat lines are skipped rather than failing
// the whole read; one bad record never aborts an analysis.
func ParseCommitLog(out []byte) []schema.CommitRecord {
	var records []schema.CommitRecord
	var current *schema.CommitRecord

	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.Trim(line, " \t\r'")
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, commitHeaderPrefix) {
			if current != nil {
				records = append(records, *current)
			}
			current = parseCommitHeader(line)
			continue
		}
		if current == nil {
			continue // Stat line before any valid header
		}

		if fc, ok := parseNumstatLine(line); ok {
			current.Files = append(current.Files, fc)
		}
	}
	if current != nil {
		records = append(records, *current)
	}
	return records
}

// parseCommitHeader extracts hash, author, timestamp and subject from a
// header line. Returns nil when the line cannot be parsed.
func parseCommitHeader(line string) *schema.CommitRecord {
	parts := strings.SplitN(line[len(commitHeaderPrefix):], "|", 4)
	if len(parts) != 4 {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		LogWarn(fmt.Sprintf("Skipping commit %s with malformed timestamp %q", parts[0], parts[2]), err)
		return nil
	}
	return &schema.CommitRecord{
		Hash:      parts[0],
		Author:    parts[1],
		Timestamp: ts,
		Message:   parts[3],
	}
}

// parseNumstatLine parses one "insertions<TAB>deletions<TAB>path" line.
// Binary files report "-" for both counts and aggregate as zero churn.
func parseNumstatLine(line string) (schema.FileChange, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) < 3 {
		return schema.FileChange{}, false
	}
	ins, _ := strconv.Atoi(parts[0])
	del, _ := strconv.Atoi(parts[1])
	path := ResolveRenamePath(strings.TrimSpace(parts[2]))
	if path == "" {
		return schema.FileChange{}, false
	}
	return schema.FileChange{Path: path, Insertions: ins, Deletions: del}, true
}

// ResolveRenamePath normalizes git rename notation to the new path.
// Handles both "old => new" and "dir/{old => new}/file" forms.
func ResolveRenamePath(path string) string {
	if !strings.Contains(path, " => ") {
		return path
	}

	open := strings.Index(path, "{")
	closing := strings.Index(path, "}")
	if open >= 0 && closing > open {
		inner := path[open+1 : closing]
		sides := strings.SplitN(inner, " => ", 2)
		newInner := inner
		if len(sides) == 2 {
			newInner = sides[1]
		}
		resolved := path[:open] + newInner + path[closing+1:]
		return strings.ReplaceAll(resolved, "//", "/")
	}

	sides := strings.SplitN(path, " => ", 2)
	return strings.TrimSpace(sides[len(sides)-1])
}
