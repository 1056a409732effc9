package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kyhsueh/codegrade/schema"
)

// Default values for configuration.
const (
	DefaultMaxCommits  = 1000
	MaxMaxCommits      = 100000
	DefaultResultLimit = 50
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultServeAddr   = ":8080"
)

// DefaultWorkers is the default number of concurrent analysis sessions.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for one analysis.
// This struct remains the "final, validated" config.
type Config struct {
	ProjectPath string

	FilterAuthors      []string
	ExcludeCodeFolders []string
	ExcludeCodeFiles   []string
	ExcludeGitFiles    []string

	StartCommit string
	EndCommit   string
	MaxCommits  int

	Workers     int
	ResultLimit int
	Precision   int

	Output     schema.OutputMode
	OutputFile string
	UseEmojis  bool
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	ServeAddr string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ProjectPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Authors          string `mapstructure:"authors"`
	ExcludeFolders   string `mapstructure:"exclude-folders"`
	ExcludeCode      string `mapstructure:"exclude-code"`
	ExcludeGit       string `mapstructure:"exclude-git"`
	StartCommit      string `mapstructure:"start-commit"`
	EndCommit        string `mapstructure:"end-commit"`
	MaxCommits       int    `mapstructure:"max-commits"`
	Workers          int    `mapstructure:"workers"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.FilterAuthors = append([]string(nil), c.FilterAuthors...)
	clone.ExcludeCodeFolders = append([]string(nil), c.ExcludeCodeFolders...)
	clone.ExcludeCodeFiles = append([]string(nil), c.ExcludeCodeFiles...)
	clone.ExcludeGitFiles = append([]string(nil), c.ExcludeGitFiles...)
	return &clone
}

// SplitList splits a comma-separated flag value into trimmed, non-empty parts.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var parts []string
	for p := range strings.SplitSeq(s, ",") {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// ParseBoolString parses "on"/"off" style flag values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on/off, got %q", s)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateProjectPath(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}

	cfg.FilterAuthors = SplitList(input.Authors)
	cfg.ExcludeCodeFolders = SplitList(input.ExcludeFolders)
	cfg.ExcludeCodeFiles = SplitList(input.ExcludeCode)
	cfg.ExcludeGitFiles = SplitList(input.ExcludeGit)
	cfg.StartCommit = strings.TrimSpace(input.StartCommit)
	cfg.EndCommit = strings.TrimSpace(input.EndCommit)

	cfg.ServeAddr = input.Addr
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}

	return nil
}

// validateProjectPath resolves and checks the analysis target directory.
func validateProjectPath(cfg *Config, input *ConfigRawInput) error {
	searchPath := input.ProjectPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absPath = filepath.Clean(absPath)

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("project path does not exist: %s", absPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path must be a directory: %s", absPath)
	}

	cfg.ProjectPath = absPath
	return nil
}

// validateSimpleInputs processes and validates all numeric and enum fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 1. MaxCommits Validation ---
	if input.MaxCommits <= 0 || input.MaxCommits > MaxMaxCommits {
		return fmt.Errorf("max-commits must be greater than 0 and cannot exceed %d (received %d)", MaxMaxCommits, input.MaxCommits)
	}
	cfg.MaxCommits = input.MaxCommits

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	// --- 5. Emoji / Color toggles ---
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	return nil
}

// validateBackendConfig validates the history store configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backendStr := strings.ToLower(input.HistoryBackend)
	if backendStr == "" {
		backendStr = string(schema.NoneBackend)
	}
	cfg.HistoryBackend = schema.DatabaseBackend(backendStr)
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' or use a postgres:// URL")
		}
	}
	return nil
}

// GetHistoryDBFilePath returns the default SQLite file path for run history.
func GetHistoryDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codegrade-history.db"
	}
	return filepath.Join(home, ".codegrade", "history.db")
}
