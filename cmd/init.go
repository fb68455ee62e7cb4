package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Lumos-Labs-HQ/podgen/internal/config"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/Lumos-Labs-HQ/podgen/template"
	"github.com/spf13/cobra"
)

var (
	sqliteFlag      bool
	postgresqlFlag  bool
	mysqlFlag       bool
	cockroachdbFlag bool
	initProvider    string
	initForce       bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter podgen.config.json and .env",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType, err := selectDatabaseType(initProvider, sqliteFlag, postgresqlFlag, mysqlFlag, cockroachdbFlag)
		if err != nil {
			return err
		}
		return initializeProject(dbType, initForce)
	},
}

// selectDatabaseType resolves --provider and the per-database switches to one
// type. PostgreSQL is the default when nothing is given.
func selectDatabaseType(provider string, sqlite, postgresql, mysql, cockroachdb bool) (template.DatabaseType, error) {
	dbType := template.PostgreSQL
	flagCount := 0

	if provider != "" {
		dt, err := template.ValidateDatabaseType(provider)
		if err != nil {
			return "", err
		}
		dbType = dt
		flagCount++
	}
	if sqlite {
		dbType = template.SQLite
		flagCount++
	}
	if postgresql {
		dbType = template.PostgreSQL
		flagCount++
	}
	if mysql {
		dbType = template.MySQL
		flagCount++
	}
	if cockroachdb {
		dbType = template.CockroachDB
		flagCount++
	}

	if flagCount > 1 {
		return "", failure.Configurationf("please specify only one database type (--provider, --sqlite, --postgresql, --mysql or --cockroachdb)")
	}
	return dbType, nil
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Configure a SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Configure a PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Configure a MySQL database")
	initCmd.Flags().BoolVar(&cockroachdbFlag, "cockroachdb", false, "Configure a CockroachDB database")
	initCmd.Flags().StringVar(&initProvider, "provider", "", "Database provider by name (sqlite, postgresql, mysql, cockroachdb)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing "+config.FileName)
}

func initializeProject(dbType template.DatabaseType, force bool) error {
	tmpl := template.NewProjectTemplate(dbType)

	if _, err := os.Stat(config.FileName); err == nil && !force {
		return failure.Configurationf("%s already exists (use --force to overwrite)", config.FileName)
	}

	body, err := tmpl.GetPodgenConfig()
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", config.FileName, err)
	}
	if err := os.WriteFile(config.FileName, []byte(body), 0644); err != nil {
		return failure.IO(err, "create %s", config.FileName)
	}

	if err := handleEnvFile(tmpl.GetEnvTemplate()); err != nil {
		return failure.IO(err, "update .env")
	}

	fmt.Printf("✅ Initialized podgen for %s\n", dbType)
	fmt.Println()
	fmt.Println("📝 Files written:")
	fmt.Printf("   %s\n", config.FileName)
	fmt.Println("   .env")

	if os.Getenv("DATABASE_URL") != "" {
		fmt.Println()
		fmt.Println("ℹ️  Using existing DATABASE_URL from environment")
	}

	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   podgen generate                 # Write the CSV shards\n")
	fmt.Printf("   podgen verify                   # Check them\n")
	fmt.Printf("   podgen load --init-schema       # Insert them into the database\n")

	return nil
}

// handleEnvFile writes .env, or appends DATABASE_URL to an existing one that
// lacks it. Other variables are left untouched.
func handleEnvFile(defaultEnvContent string) error {
	envPath := ".env"

	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, "DATABASE_URL") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}
	existingStr += "\n# Added by podgen\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}
