package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/podgen/internal/config"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	configErr error
	Version   = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════╗",
		"║   ██████╗  ██████╗ ██████╗  ██████╗ ███████╗███╗   ██╗ ║",
		"║   ██╔══██╗██╔═══██╗██╔══██╗██╔════╝ ██╔════╝████╗  ██║ ║",
		"║   ██████╔╝██║   ██║██║  ██║██║  ███╗█████╗  ██╔██╗ ██║ ║",
		"║   ██╔═══╝ ██║   ██║██║  ██║██║   ██║██╔══╝  ██║╚██╗██║ ║",
		"║   ██║     ╚██████╔╝██████╔╝╚██████╔╝███████╗██║ ╚████║ ║",
		"║   ╚═╝      ╚═════╝ ╚═════╝  ╚═════╝ ╚══════╝╚═╝  ╚═══╝ ║",
		"║                                                        ║",
		"║        🛒 Reproducible retail datasets 🛒              ║",
		"╚══════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                   ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "podgen",
	Short: "Generate and load a reproducible synthetic retail dataset",
	Long: `
podgen writes a synthetic retail dataset (stores, products, sales and
sale line items) as CSV shards. The same seed and configuration always
produce byte-identical files.

The dataset can be checked with 'podgen verify' and inserted into
PostgreSQL, CockroachDB, MySQL or SQLite with 'podgen load'.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("podgen version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

// Execute runs the CLI. The context is cancelled by the caller on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.FileName+")")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("podgen.config")
	}

	config.ConfigureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = err
		}
	}
}

// loadConfig reads the merged configuration (file, env, flags).
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, failure.Configurationf("failed to read config file: %v", configErr)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		color.New(color.Faint).Printf("Using config file: %s\n", used)
	}
	return cfg, nil
}
