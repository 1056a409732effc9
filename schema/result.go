package schema

// TierDistribution buckets a per-item figure (change counts, complexity)
// into the four fixed frequency tiers.
type TierDistribution struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	VeryHigh int `json:"very_high"`
}

// Total returns the number of items across all tiers.
func (d TierDistribution) Total() int {
	return d.Low + d.Medium + d.High + d.VeryHigh
}

// ChangedFile pairs a path with its change count for the top-N ranking.
type ChangedFile struct {
	Path    string `json:"filename"`
	Changes int    `json:"changes"`
}

// AuthorTimeline is one author's month-bucketed commit series. Timeline is
// index-aligned with the shared Months axis in DeveloperActivity.
type AuthorTimeline struct {
	Author       string `json:"author"`
	TotalCommits int    `json:"total_commits"`
	Timeline     []int  `json:"timeline"`
}

// DeveloperActivity is the month-bucketed activity view across all authors.
// Every author's timeline is zero-filled over the same ordered month keys.
type DeveloperActivity struct {
	Months  []string         `json:"months"`
	Authors []AuthorTimeline `json:"authors"`
}

// GitSummary holds repository-wide totals for the analyzed commit range.
type GitSummary struct {
	TotalCommits      int      `json:"total_commits"`
	TotalAuthors      int      `json:"total_authors"`
	TotalFilesChanged int      `json:"total_files_changed"`
	TotalInsertions   int      `json:"total_insertions"`
	TotalDeletions    int      `json:"total_deletions"`
	Authors           []string `json:"authors"`
}

// GitResult is the full output of the git-analysis stage.
type GitResult struct {
	Summary            GitSummary        `json:"summary"`
	TopChangedFiles    []ChangedFile     `json:"top_changed_files"`
	ChangeDistribution TierDistribution  `json:"change_distribution"`
	DeveloperActivity  DeveloperActivity `json:"developer_activity"`
	AuthorScores       []AuthorScore     `json:"author_quality_scores"`
}

// CodeFile is one file's figures from the static-complexity collaborator.
type CodeFile struct {
	Path          string  `json:"filename"`
	Lines         int     `json:"nloc"`
	Functions     int     `json:"functions"`
	Complexity    int     `json:"complexity"`
	AvgComplexity float64 `json:"avg_complexity"`
}

// MaxComplexityFunction points at the single most complex function found.
type MaxComplexityFunction struct {
	Name       string `json:"name"`
	File       string `json:"file"`
	Complexity int    `json:"complexity"`
	Line       int    `json:"line"`
}

// CodeSummary holds project-wide static-complexity totals.
type CodeSummary struct {
	TotalFiles            int                    `json:"total_files"`
	TotalLines            int                    `json:"total_lines"`
	TotalFunctions        int                    `json:"total_functions"`
	AvgComplexity         float64                `json:"avg_complexity"`
	MaxComplexity         int                    `json:"max_complexity"`
	MaxComplexityFunction *MaxComplexityFunction `json:"max_complexity_function,omitempty"`
}

// CodeResult is the full output of the code-analysis stage.
type CodeResult struct {
	Summary                CodeSummary      `json:"summary"`
	Files                  []CodeFile       `json:"files"`
	ComplexityDistribution TierDistribution `json:"complexity_distribution"`
}

// AnalysisResult merges both stages into the response the caller pulls once
// a run completes. Git is nil when the target is not under version control.
type AnalysisResult struct {
	Code *CodeResult `json:"code"`
	Git  *GitResult  `json:"git,omitempty"`
}
