package cmd

import (
	"os"

	"github.com/Lumos-Labs-HQ/podgen/internal/loader"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show row counts and revenue of the loaded tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := openAdapter(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := loader.CollectStats(ctx, db)
		if err != nil {
			return err
		}
		color.Cyan("📊 Database summary")
		loader.RenderStats(os.Stdout, stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().String("provider", "", "Database provider: postgresql, cockroachdb, mysql or sqlite")
	bindFlags(statsCmd, map[string]string{"provider": "database.provider"})
}
