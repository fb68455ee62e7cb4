package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/podgen/internal/generator"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Write the dataset as CSV shards",
	Long: `Generate stores.csv, products.csv and the sales / sale_items shards into
the output directory, then write manifest.yaml.

Every run with the same seed and options produces byte-identical files. A failed
run leaves no manifest behind; rerun it from the start with the same seed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		g, err := generator.New(cfg.Generator, generator.ConsoleReporter{})
		if err != nil {
			return err
		}

		if _, err := g.Run(cmd.Context()); err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}

		fmt.Println()
		color.Cyan("🚀 Next steps:")
		fmt.Printf("   podgen verify %s   # Check the dataset\n", cfg.Generator.OutDir)
		fmt.Printf("   podgen load --data-dir %s   # Insert it into DATABASE_URL\n", cfg.Generator.OutDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.String("out", "", "Output directory")
	flags.Int("num-sales", 0, "Number of sales to generate")
	flags.Int("shard-sales", 0, "Sales per shard file")
	flags.Int("num-products", 0, "Size of the product catalog")
	flags.Float64("avg-items", 0, "Average number of line items per sale")
	flags.Int("max-items", 0, "Maximum number of line items per sale")
	flags.Int64("seed", 0, "Random seed")
	flags.String("start-date", "", "First day of the sales window (YYYY-MM-DD)")
	flags.Int("days", 0, "Length of the sales window in days")
	flags.Bool("compress", false, "Write gzip-compressed .csv.gz files")

	bindFlags(generateCmd, map[string]string{
		"out":          "generator.out_dir",
		"num-sales":    "generator.num_sales",
		"shard-sales":  "generator.shard_sales",
		"num-products": "generator.num_products",
		"avg-items":    "generator.avg_items",
		"max-items":    "generator.max_items",
		"seed":         "generator.seed",
		"start-date":   "generator.start_date",
		"days":         "generator.days",
		"compress":     "generator.compress",
	})
}

// bindFlags binds flags to config keys once the command is chosen, so commands
// sharing a key do not steal each other's binding. viper only takes a flag's
// value when it was set on the command line.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		for flag, key := range keys {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return err
			}
		}
		return nil
	}
}
