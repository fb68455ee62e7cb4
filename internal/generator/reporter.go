package generator

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/fatih/color"
)

// Reporter receives progress of a generation run.
type Reporter interface {
	Started(opts Options, shards int)
	TableWritten(table, path string, rows int)
	ShardWritten(res ShardResult, shards int)
	Finished(m *dataset.Manifest)
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) Started(Options, int) {}
func (NopReporter) TableWritten(string, string, int) {}
func (NopReporter) ShardWritten(ShardResult, int) {}
func (NopReporter) Finished(*dataset.Manifest) {}

// ConsoleReporter prints one colored line per table and shard.
type ConsoleReporter struct{}

func (ConsoleReporter) Started(opts Options, shards int) {
	color.Cyan("🌱 Generating %d sales in %d shard(s) of %d (seed %d)", opts.NumSales, shards, opts.ShardSales, opts.Seed)
	color.Cyan("📁 Output directory: %s", opts.OutDir)
	fmt.Println()
}

func (ConsoleReporter) TableWritten(table, path string, rows int) {
	color.Green("  ✅ %s: %d rows → %s", table, rows, path)
}

func (ConsoleReporter) ShardWritten(res ShardResult, shards int) {
	color.Green("  ✅ shard %d/%d: wrote %s (%d sales) and %s (%d items)",
		res.Index, shards, res.SalesFile, res.Sales, res.ItemsFile, res.SaleItems)
}

func (ConsoleReporter) Finished(m *dataset.Manifest) {
	color.Green("\n✅ Generation completed: %d sales, %d sale items, %d products, %d stores",
		m.Totals.Sales, m.Totals.SaleItems, m.Products.Rows, m.Stores.Rows)
}
