package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [dir]",
	Short: "Check a generated dataset",
	Long: `Verify reads an output directory and checks headers, unique ids, that every
sale_items row references a sale of the same shard and a known product, store
codes, value ranges and, when manifest.yaml exists, the row counts it records.

The directory defaults to loader.data_dir from the configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir = cfg.Loader.DataDir
		}

		color.Cyan("🔍 Verifying %s...", dir)
		report, err := dataset.Verify(dir)
		if err != nil {
			return err
		}

		fmt.Printf("   stores: %d, products: %d, shards: %d, sales: %d, sale items: %d\n",
			report.Stores, report.Products, report.Shards, report.Sales, report.SaleItems)

		if report.OK() {
			color.Green("✅ Dataset is consistent")
			return nil
		}

		for _, problem := range report.Problems {
			color.Red("  ❌ %s", problem)
		}
		if report.Suppressed > 0 {
			color.Yellow("  ⚠️  %d more problem(s) not listed", report.Suppressed)
		}
		return fmt.Errorf("verification found %d problem(s)", len(report.Problems)+report.Suppressed)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
