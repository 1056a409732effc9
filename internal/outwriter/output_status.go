package outwriter

import (
	"fmt"
	"io"

	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/schema"
)

// WriteHistoryStatus outputs the history store status block.
func WriteHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg, func(w io.Writer) error {
		sectionHeader(w, cfg, "🗄️", "History store status")
		if _, err := fmt.Fprintf(w, "  backend: %s  connected: %t\n", status.Backend, status.Connected); err != nil {
			return err
		}
		if !status.Connected {
			return nil
		}
		if _, err := fmt.Fprintf(w, "  runs: %d  scores: %d\n", status.TotalRuns, status.TotalScores); err != nil {
			return err
		}
		if status.LastRun != nil {
			if _, err := fmt.Fprintf(w, "  last run: %s\n", status.LastRun.Format(contract.DateTimeFormat)); err != nil {
				return err
			}
		}
		if status.OldestRun != nil {
			if _, err := fmt.Fprintf(w, "  oldest run: %s\n", status.OldestRun.Format(contract.DateTimeFormat)); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote status")
}
