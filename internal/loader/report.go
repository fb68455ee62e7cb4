package loader

import (
	"fmt"
	"io"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Reporter receives progress of a load.
type Reporter interface {
	Started(layout *dataset.Layout)
	SchemaApplied()
	FileLoaded(path string, res TableResult)
	TableLoaded(res TableResult)
}

type NopReporter struct{}

func (NopReporter) Started(*dataset.Layout) {}
func (NopReporter) SchemaApplied() {}
func (NopReporter) FileLoaded(string, TableResult) {}
func (NopReporter) TableLoaded(TableResult) {}

type ConsoleReporter struct{}

func (ConsoleReporter) Started(layout *dataset.Layout) {
	color.Cyan("📦 Loading %s (%d shard(s))", layout.Dir, len(layout.Shards))
	color.Cyan("📋 Insertion order: stores → products → sales → sale_items")
	fmt.Println()
}

func (ConsoleReporter) SchemaApplied() {
	color.Green("  ✅ Schema initialized")
}

func (ConsoleReporter) FileLoaded(path string, res TableResult) {
	if res.Merged > 0 {
		color.Yellow("  ⚠️  %s: merged %d duplicate line(s)", path, res.Merged)
	}
	color.Green("  ✅ %s: %d rows read, %d inserted", path, res.Rows, res.Inserted)
}

func (ConsoleReporter) TableLoaded(res TableResult) {
	color.Cyan("  📝 %s done: %d file(s), %d rows, %d inserted", res.Table, res.Files, res.Rows, res.Inserted)
}

// RenderResults writes the per-table load results as a table.
func RenderResults(w io.Writer, results []TableResult) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Table", "Files", "Rows read", "Merged", "Inserted"})
	var rows int
	var inserted int64
	for _, r := range results {
		t.AppendRow(table.Row{r.Table, r.Files, r.Rows, r.Merged, r.Inserted})
		rows += r.Rows
		inserted += r.Inserted
	}
	t.AppendFooter(table.Row{"Total", "", rows, "", inserted})
	t.Render()
}

// RenderStats writes row counts and revenue as a table.
func RenderStats(w io.Writer, s *Stats) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Table", "Rows"})
	for _, c := range s.Counts {
		t.AppendRow(table.Row{c.Table, c.Rows})
	}
	t.AppendFooter(table.Row{"Total revenue", fmt.Sprintf("$%.2f", s.Revenue)})
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return t
}
