package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Lumos-Labs-HQ/podgen/internal/config"
	"github.com/Lumos-Labs-HQ/podgen/internal/database"
	"github.com/Lumos-Labs-HQ/podgen/internal/loader"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Insert a generated dataset into the database",
	Long: `Load inserts stores, products, sales and sale_items into the database named
by DATABASE_URL (or database.url_env), one multi-row statement per batch.

Rows whose key already exists are skipped, so loading the same directory twice
is harmless. Promotions of "None" are stored as NULL. The first failing
statement aborts the load; nothing is retried.`,
	Args: cobra.NoArgs,
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

		l, err := loader.New(db, loader.OptionsFrom(cfg), loader.ConsoleReporter{})
		if err != nil {
			return err
		}

		results, err := l.Run(ctx)
		if err != nil {
			return fmt.Errorf("load failed: %w", err)
		}

		fmt.Println()
		loader.RenderResults(os.Stdout, results)

		stats, err := loader.CollectStats(ctx, db)
		if err != nil {
			return err
		}
		fmt.Println()
		color.Cyan("📊 Database summary")
		loader.RenderStats(os.Stdout, stats)
		color.Green("\n✅ Load completed successfully!")
		return nil
	},
}

// openAdapter connects to the configured database and checks it answers.
func openAdapter(ctx context.Context, cfg *config.Config) (database.DatabaseAdapter, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	db, err := database.NewAdapter(cfg.Database.Provider)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx, dbURL); err != nil {
		return nil, err
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	color.Cyan("🔌 Connected to %s (%s engine)", cfg.Database.Provider, cfg.Engine())
	return db, nil
}

func init() {
	rootCmd.AddCommand(loadCmd)

	flags := loadCmd.Flags()
	flags.String("data-dir", "", "Directory written by 'podgen generate' (defaults to generator.out_dir)")
	flags.Bool("init-schema", false, "Create the tables first if they do not exist")
	flags.String("provider", "", "Database provider: postgresql, cockroachdb, mysql or sqlite")

	bindFlags(loadCmd, map[string]string{
		"data-dir":    "loader.data_dir",
		"init-schema": "loader.init_schema",
		"provider":    "database.provider",
	})
}
