package output

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/vburojevic/demostats/internal/domain"
)

// TableWriter buffers the batch and renders it as one table on Close.
// Failures and duplicated files are listed after the table.
type TableWriter struct {
	w        io.Writer
	reports  []*domain.DemoReport
	failures []*domain.DemoFailure
}

// NewTableWriter creates a new table writer
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{w: w}
}

func (t *TableWriter) WriteReport(r *domain.DemoReport) error {
	t.reports = append(t.reports, r)
	return nil
}

func (t *TableWriter) WriteFailure(f *domain.DemoFailure) error {
	t.failures = append(t.failures, f)
	return nil
}

func (t *TableWriter) Close(summary *domain.BatchSummary) error {
	if len(t.reports) > 0 {
		table := tablewriter.NewWriter(t.w)
		table.Header("Demo", "Protocol", "Map", "Title", "Kills", "Secrets", "Start", "Exit", "Duration")
		for _, row := range lo.Map(t.reports, func(r *domain.DemoReport, _ int) []string {
			return reportRow(r)
		}) {
			if err := table.Append(row); err != nil {
				return err
			}
		}
		if summary != nil {
			table.Footer("Total", "", "", "", ratio(summary.Kills, summary.Monsters),
				ratio(summary.Secrets, summary.SecretsTotal), "", "",
				strconv.FormatFloat(summary.TotalTime, 'f', 6, 64))
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	for _, f := range t.failures {
		if _, err := fmt.Fprintf(t.w, "%s: %s (%s)\n", f.File, f.Message, f.Code); err != nil {
			return err
		}
	}
	if summary == nil {
		return nil
	}
	files := lo.Keys(summary.Duplicates)
	slices.Sort(files)
	for _, file := range files {
		if _, err := fmt.Fprintf(t.w, "%s: %d copies (DUPLICATE)\n", file, summary.Duplicates[file]); err != nil {
			return err
		}
	}
	return nil
}

func reportRow(r *domain.DemoReport) []string {
	duration := ""
	if r.Duration != nil {
		duration = fmt.Sprintf("%f", *r.Duration)
	}
	return []string{
		r.File,
		strconv.FormatUint(uint64(r.Protocol), 10),
		r.MapName,
		r.MapTitle,
		ratio(r.Kills, r.Monsters),
		ratio(r.Secrets, r.SecretsTotal),
		fmt.Sprintf("%f", r.StartTime),
		fmt.Sprintf("%f", r.ExitTime),
		duration,
	}
}

func ratio(n, of int) string {
	return fmt.Sprintf("%d/%d", n, of)
}
