package cmd

import (
	"fmt"

	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/internal/historydb"
	"github.com/kyhsueh/codegrade/internal/outwriter"
	"github.com/kyhsueh/codegrade/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyStore holds the store opened by historySetup for the subcommands.
var historyStore *historydb.HistoryStoreImpl

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}

	store, err := historydb.NewHistoryStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}
	historyStore = store

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// It deliberately does NOT open the store or create tables, so migrations can
// run against a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyBackendConfig resolves and validates the backend settings.
func historyBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	if backend == schema.NoneBackend {
		return "", "", fmt.Errorf("history tracking is disabled; pass --history-backend to select a backend")
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead
// of the full sharedSetup used by analysis commands. This avoids project path
// validation for simple history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage historical run tracking and exports",
	Long: `Manage historical scoring data used for trend tracking and reporting.

When enabled, codegrade tracks every scoring run, storing:
- Run metadata (timestamp, configuration, duration)
- Per-author scores, grades and category breakdowns
- Raw Git metrics (commits, files, active days, rework)

This enables longitudinal analysis, trend detection, and data export for BI tools.

Supported backends: SQLite, MySQL, PostgreSQL

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  codegrade history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  codegrade history export --history-backend sqlite --output-file history-data.parquet`,
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about historical run tracking.

Displays:
- Backend type and connection status
- Total number of runs and author scores stored
- Last and oldest run timestamps

Examples:
  # Check run history status
  codegrade history status --history-backend sqlite`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		defer func() { _ = historyStore.Close() }()
		status, err := historyStore.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		if err := outwriter.WriteHistoryStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write history status", err)
		}
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical run tracking data",
	Long: `Delete all stored runs and author score history.

This removes:
- All run metadata
- Per-author scores and category breakdowns

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  codegrade history export --history-backend sqlite --output-file backup.parquet
  codegrade history clear --history-backend sqlite`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		defer func() { _ = historyStore.Close() }()
		if err := historyStore.Clear(); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet files",
	Long: `Export all stored runs and author scores to Parquet files.

Two files are written next to the given output path:
- <output-file>.runs.parquet
- <output-file>.author_scores.parquet

Parquet preserves column types, so the export loads cleanly into
pandas, DuckDB, Spark and most BI tools.

Examples:
  # Export the full history
  codegrade history export --history-backend sqlite --output-file history`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		defer func() { _ = historyStore.Close() }()
		if err := historyStore.Export(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyMigrateCmd runs schema migrations for the history backend.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations for the history backend",
	Long: `Apply or roll back schema migrations for the run history database.

The target version controls the direction:
- -1 migrates up to the latest version (default)
-  0 rolls back to the initial empty state
-  N migrates to the exact version N

Examples:
  # Migrate to the latest schema
  codegrade history migrate --history-backend sqlite

  # Roll everything back
  codegrade history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := historydb.Migrate(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run history migrations", err)
		}
	},
}
