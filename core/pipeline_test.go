package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/internal/progress"
	"github.com/kyhsueh/codegrade/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitClient fabricates commit history without shelling out to git.
type fakeGitClient struct {
	records      []schema.CommitRecord
	rootErr      error
	logErr       error
	gotMaxCommit int
}

func (f *fakeGitClient) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return nil, nil
}

func (f *fakeGitClient) GetRepoRoot(_ context.Context, contextPath string) (string, error) {
	if f.rootErr != nil {
		return "", f.rootErr
	}
	return contextPath, nil
}

func (f *fakeGitClient) ReadCommitLog(_ context.Context, _ string, maxCommits int) ([]schema.CommitRecord, error) {
	f.gotMaxCommit = maxCommits
	if f.logErr != nil {
		return nil, f.logErr
	}
	return f.records, nil
}

// fakeScanner returns a canned code result.
type fakeScanner struct {
	result *schema.CodeResult
	err    error
}

func (f *fakeScanner) Scan(_ context.Context, _ string, _, _ []string) (*schema.CodeResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// recordingStore captures history calls for assertions.
type recordingStore struct {
	began    bool
	ended    bool
	recorded []string
	beginErr error
}

func (s *recordingStore) BeginRun(_ time.Time, _ map[string]any) (int64, error) {
	if s.beginErr != nil {
		return 0, s.beginErr
	}
	s.began = true
	return 42, nil
}

func (s *recordingStore) EndRun(runID int64, _ time.Time, _ int) error {
	if runID != 42 {
		return errors.New("unexpected run id")
	}
	s.ended = true
	return nil
}

func (s *recordingStore) RecordAuthorScore(_ int64, score schema.AuthorScore) error {
	s.recorded = append(s.recorded, score.Author)
	return nil
}

func (s *recordingStore) GetStatus() (schema.HistoryStatus, error) {
	return schema.HistoryStatus{}, nil
}

func (s *recordingStore) Close() error { return nil }

func testConfig() *contract.Config {
	return &contract.Config{
		ProjectPath: "/tmp/project",
		MaxCommits:  1000,
		Workers:     2,
		ResultLimit: 10,
		Precision:   1,
	}
}

func testCommits() []schema.CommitRecord {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return []schema.CommitRecord{
		{
			Hash: "aaa", Author: "ada", Timestamp: base, Message: "initial engine",
			Files: []schema.FileChange{{Path: "engine.go", Insertions: 100}},
		},
		{
			Hash: "bbb", Author: "grace", Timestamp: base.Add(time.Hour), Message: "docs",
			Files: []schema.FileChange{{Path: "README.md", Insertions: 10}},
		},
	}
}

func testCode() *schema.CodeResult {
	return &schema.CodeResult{Summary: schema.CodeSummary{TotalFiles: 3, TotalLines: 120}}
}

func collectEvents(t *testing.T, reg *progress.Registry, sessionID string) <-chan []schema.ProgressEvent {
	t.Helper()
	out := make(chan []schema.ProgressEvent, 1)
	ch := reg.Subscribe(context.Background(), sessionID)
	go func() {
		var events []schema.ProgressEvent
		for ev := range ch {
			events = append(events, ev)
		}
		out <- events
	}()
	return out
}

func TestPipelineRunFullAnalysis(t *testing.T) {
	git := &fakeGitClient{records: testCommits()}
	store := &recordingStore{}
	reg := progress.NewRegistry()
	reg.Open("s1")
	eventsCh := collectEvents(t, reg, "s1")

	p := &Pipeline{Git: git, Scanner: &fakeScanner{result: testCode()}, Progress: reg, History: store}
	result, err := p.Run(context.Background(), "s1", testConfig())
	require.NoError(t, err)

	require.NotNil(t, result.Code)
	require.NotNil(t, result.Git)
	assert.Equal(t, 2, result.Git.Summary.TotalCommits)
	assert.Len(t, result.Git.AuthorScores, 2)
	assert.NotEmpty(t, result.Git.TopChangedFiles)

	events := <-eventsCh
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, schema.StageCompleted, last.Stage)
	assert.Equal(t, 100, last.Percentage)
	// Percentages never regress across the run.
	prev := -1
	for _, ev := range events {
		assert.GreaterOrEqual(t, ev.Percentage, prev)
		prev = ev.Percentage
	}
	// Session is gone after Run returns.
	assert.Equal(t, 0, reg.Len())

	assert.True(t, store.began)
	assert.True(t, store.ended)
	assert.ElementsMatch(t, []string{"ada", "grace"}, store.recorded)
}

func TestPipelineRunNotARepositorySkipsGit(t *testing.T) {
	git := &fakeGitClient{rootErr: contract.ErrNotARepository}
	reg := progress.NewRegistry()
	reg.Open("s1")
	eventsCh := collectEvents(t, reg, "s1")

	p := &Pipeline{Git: git, Scanner: &fakeScanner{result: testCode()}, Progress: reg}
	result, err := p.Run(context.Background(), "s1", testConfig())
	require.NoError(t, err)

	require.NotNil(t, result.Code)
	assert.Nil(t, result.Git)

	events := <-eventsCh
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, schema.StageCompleted, last.Stage)
	assert.Equal(t, 100, last.Percentage)
}

func TestPipelineRunScannerErrorPublishesError(t *testing.T) {
	scanErr := errors.New("disk on fire")
	reg := progress.NewRegistry()
	reg.Open("s1")
	eventsCh := collectEvents(t, reg, "s1")

	p := &Pipeline{Git: &fakeGitClient{}, Scanner: &fakeScanner{err: scanErr}, Progress: reg}
	result, err := p.Run(context.Background(), "s1", testConfig())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, scanErr)

	events := <-eventsCh
	require.NotEmpty(t, events)
	// Exactly one terminal event, and it is the error.
	terminal := 0
	for _, ev := range events {
		if ev.Stage.Terminal() {
			terminal++
		}
	}
	assert.Equal(t, 1, terminal)
	assert.Equal(t, schema.StageError, events[len(events)-1].Stage)
	assert.Contains(t, events[len(events)-1].Message, "disk on fire")
	assert.Equal(t, 0, reg.Len())
}

func TestPipelineRunGitErrorPublishesError(t *testing.T) {
	git := &fakeGitClient{logErr: errors.New("object store corrupt")}
	reg := progress.NewRegistry()
	reg.Open("s1")
	eventsCh := collectEvents(t, reg, "s1")

	p := &Pipeline{Git: git, Scanner: &fakeScanner{result: testCode()}, Progress: reg}
	_, err := p.Run(context.Background(), "s1", testConfig())
	require.Error(t, err)

	events := <-eventsCh
	assert.Equal(t, schema.StageError, events[len(events)-1].Stage)
}

func TestPipelineRunBadRangePublishesNothing(t *testing.T) {
	git := &fakeGitClient{records: testCommits()}
	store := &recordingStore{}
	reg := progress.NewRegistry()
	reg.Open("s1")
	eventsCh := collectEvents(t, reg, "s1")

	cfg := testConfig()
	cfg.StartCommit = "bbb"
	cfg.EndCommit = "aaa" // end precedes start

	p := &Pipeline{Git: git, Scanner: &fakeScanner{result: testCode()}, Progress: reg, History: store}
	result, err := p.Run(context.Background(), "s1", cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrInvalidRange)
	assert.Nil(t, result)

	// Bound validation fails before any stage runs: no events, no history row.
	events := <-eventsCh
	assert.Empty(t, events)
	assert.False(t, store.began)
	assert.Equal(t, 0, reg.Len())
}

func TestPipelineRunMissingBoundPublishesNothing(t *testing.T) {
	git := &fakeGitClient{records: testCommits()}
	reg := progress.NewRegistry()
	reg.Open("s1")
	eventsCh := collectEvents(t, reg, "s1")

	cfg := testConfig()
	cfg.StartCommit = "feedbeef"

	p := &Pipeline{Git: git, Scanner: &fakeScanner{result: testCode()}, Progress: reg}
	_, err := p.Run(context.Background(), "s1", cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrRangeNotFound)
	assert.Empty(t, <-eventsCh)
}

func TestPipelineReadsFullLogWhenRangeBounded(t *testing.T) {
	records := testCommits()
	tests := []struct {
		name string
		mut  func(cfg *contract.Config)
		want int
	}{
		{"no bounds uses cap", func(_ *contract.Config) {}, 1000},
		{"start bound reads full log", func(cfg *contract.Config) { cfg.StartCommit = "aaa" }, 0},
		{"end bound reads full log", func(cfg *contract.Config) { cfg.EndCommit = "bbb" }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			git := &fakeGitClient{records: records}
			cfg := testConfig()
			tt.mut(cfg)

			p := &Pipeline{Git: git, Scanner: &fakeScanner{result: testCode()}}
			_, err := p.Run(context.Background(), "s1", cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, git.gotMaxCommit)
		})
	}
}

func TestPipelineGitStageAlone(t *testing.T) {
	p := &Pipeline{Git: &fakeGitClient{records: testCommits()}}
	git, err := p.runGitStage(context.Background(), "", testConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, git.Summary.TotalCommits)
	assert.Len(t, git.AuthorScores, 2)
	assert.NotEmpty(t, git.TopChangedFiles)
	assert.Equal(t, len(git.TopChangedFiles), git.ChangeDistribution.Total())
}

func TestPipelineGitStageAlonePropagatesErrors(t *testing.T) {
	t.Run("not a repository", func(t *testing.T) {
		p := &Pipeline{Git: &fakeGitClient{rootErr: contract.ErrNotARepository}}
		_, err := p.runGitStage(context.Background(), "", testConfig())
		assert.ErrorIs(t, err, contract.ErrNotARepository)
	})

	t.Run("invalid range", func(t *testing.T) {
		cfg := testConfig()
		cfg.StartCommit = "bbb"
		cfg.EndCommit = "aaa"
		p := &Pipeline{Git: &fakeGitClient{records: testCommits()}}
		_, err := p.runGitStage(context.Background(), "", cfg)
		assert.ErrorIs(t, err, contract.ErrInvalidRange)
	})
}

func TestPipelineRunWithoutProgressOrHistory(t *testing.T) {
	p := &Pipeline{Git: &fakeGitClient{records: testCommits()}, Scanner: &fakeScanner{result: testCode()}}
	result, err := p.Run(context.Background(), "", testConfig())
	require.NoError(t, err)
	assert.NotNil(t, result.Git)
}

func TestPipelineHistoryFailureIsNotFatal(t *testing.T) {
	store := &recordingStore{beginErr: errors.New("db down")}
	p := &Pipeline{Git: &fakeGitClient{records: testCommits()}, Scanner: &fakeScanner{result: testCode()}, History: store}

	result, err := p.Run(context.Background(), "", testConfig())
	require.NoError(t, err)
	assert.NotNil(t, result.Git)
	assert.False(t, store.ended)
}
