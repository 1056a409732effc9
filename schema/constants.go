package schema

// Custom string types for type safety.
type (
	// Stage identifies a pipeline stage in progress events.
	Stage string

	// Grade is the letter grade derived from a total score.
	Grade string

	// MetricID identifies one scored metric in the policy tables.
	MetricID string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// Pipeline stages published to progress observers.
const (
	StageCodeAnalysis Stage = "code_analysis"
	StageGitAnalysis  Stage = "git_analysis"
	StageCompleted    Stage = "completed"
	StageError        Stage = "error"
)

// Terminal reports whether a stage ends the progress stream for a session.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageError
}

// Letter grades, best to worst.
const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// gradeDescriptions maps each grade to its one-line summary.
var gradeDescriptions = map[Grade]string{
	GradeS: "Outstanding - excellent code quality and work habits",
	GradeA: "Excellent - solid code quality and steady contributions",
	GradeB: "Good - meets team standards with room to improve",
	GradeC: "Fair - commit habits and conventions need attention",
	GradeD: "Needs improvement - guidance recommended",
}

// Description returns the human-readable summary for a grade.
func (g Grade) Description() string {
	if d, ok := gradeDescriptions[g]; ok {
		return d
	}
	return "Unknown"
}

// Metric identifiers for the scoring policy tables.
const (
	MetricFilesPerCommit MetricID = "files_per_commit"
	MetricRecency        MetricID = "recency"
	MetricMessageLength  MetricID = "message_length"
	MetricFileBreadth    MetricID = "file_breadth"
	MetricChangeVolume   MetricID = "change_volume"
	MetricReworkRatio    MetricID = "rework_ratio"
	MetricFilesModified  MetricID = "files_modified"
	MetricActiveDays     MetricID = "active_days"
	MetricContribution   MetricID = "contribution"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// ValidOutputModes is the allow-list used during config validation.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDatabaseBackends is the allow-list used during config validation.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
