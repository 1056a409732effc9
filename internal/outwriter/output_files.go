package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/schema"
)

// WriteTopChangedFiles outputs the change-frequency ranking, dispatching
// based on the output format configured.
func WriteTopChangedFiles(files []schema.ChangedFile, dist schema.TierDistribution, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, struct {
				TopChangedFiles    []schema.ChangedFile    `json:"top_changed_files"`
				ChangeDistribution schema.TierDistribution `json:"change_distribution"`
			}{files, dist})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeFilesCSV(w, files)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeFilesTable(w, files, dist, cfg, duration)
		}, "Wrote table")
	}
}

// writeFilesTable generates and writes the human-readable ranking table.
func writeFilesTable(w io.Writer, files []schema.ChangedFile, dist schema.TierDistribution, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", "Changes"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := getMaxTablePathWidth()
	var data [][]string
	for i, f := range files {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Path, pathWidth),
			strconv.Itoa(f.Changes),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if err := writeDistribution(w, cfg, "Change frequency", dist); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Ranked %d files in %v\n", len(files), duration)
	return err
}

// writeFilesCSV writes the ranking in CSV format.
func writeFilesCSV(w io.Writer, files []schema.ChangedFile) error {
	header := []string{"rank", "file", "changes"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, f := range files {
			rec := []string{strconv.Itoa(i + 1), f.Path, strconv.Itoa(f.Changes)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeDistribution prints one four-tier distribution block.
func writeDistribution(w io.Writer, cfg *contract.Config, title string, dist schema.TierDistribution) error {
	sectionHeader(w, cfg, "📊", title+" distribution")
	_, err := fmt.Fprintf(w, "  low: %d  medium: %d  high: %d  very high: %d  (total: %d)\n",
		dist.Low, dist.Medium, dist.High, dist.VeryHigh, dist.Total())
	return err
}
