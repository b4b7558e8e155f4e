package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Item is one processed video as shown in the per-item table.
type Item struct {
	Video         string
	Status        string
	SubtitleCount int
	AudioCount    int
	Detail        string
}

// Summary aggregates one run.
type Summary struct {
	RunID   string
	DryRun  bool
	Success int
	Skipped int
	Failed  int
	Deleted int
	Elapsed time.Duration
	Items   []Item
}

func (s Summary) Total() int {
	return s.Success + s.Skipped + s.Failed
}

// SuccessRate is the share of merged videos in percent; 0 for an empty run.
func (s Summary) SuccessRate() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Success) * 100 / float64(total)
}

// Render writes the summary table to w.
func (s Summary) Render(w io.Writer) error {
	title := "PROCESSING COMPLETE"
	if s.DryRun {
		title += " (dry run)"
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"Metric", "Result"})
	tw.AppendRows([]table.Row{
		{"Successfully Merged", fmt.Sprintf("%d (%.1f%%)", s.Success, s.SuccessRate())},
		{"Skipped (Exists)", strconv.Itoa(s.Skipped)},
		{"Failures", strconv.Itoa(s.Failed)},
		{"Originals Deleted", strconv.Itoa(s.Deleted)},
	})
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Total Time", s.Elapsed.Round(time.Millisecond).String()})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// RenderItems writes one row per processed video. Nothing is written when
// the run had no items.
func (s Summary) RenderItems(w io.Writer) error {
	if len(s.Items) == 0 {
		return nil
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Video", "Status", "Subs", "Audio", "Detail"})
	for _, item := range s.Items {
		tw.AppendRow(table.Row{
			filepath.Base(item.Video),
			item.Status,
			item.SubtitleCount,
			item.AudioCount,
			item.Detail,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, WidthMax: 60},
	})

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
