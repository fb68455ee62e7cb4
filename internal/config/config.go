package config

import (
	"os"
	"slices"
	"strings"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/Lumos-Labs-HQ/podgen/internal/generator"
	"github.com/spf13/viper"
)

const (
	FileName  = "podgen.config.json"
	EnvPrefix = "PODGEN"
)

var SupportedProviders = []string{"postgresql", "postgres", "cockroachdb", "mysql", "sqlite", "sqlite3"}

type Config struct {
	Version   string            `json:"version" mapstructure:"version"`
	Generator generator.Options `json:"generator" mapstructure:"generator"`
	Database  Database          `json:"database" mapstructure:"database"`
	Loader    Loader            `json:"loader" mapstructure:"loader"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Loader struct {
	DataDir    string     `json:"data_dir,omitempty" mapstructure:"data_dir"`
	BatchSizes BatchSizes `json:"batch_sizes" mapstructure:"batch_sizes"`
	InitSchema bool       `json:"init_schema" mapstructure:"init_schema"`
}

// BatchSizes is the number of rows per INSERT statement, per table.
type BatchSizes struct {
	Stores    int `json:"stores" mapstructure:"stores"`
	Products  int `json:"products" mapstructure:"products"`
	Sales     int `json:"sales" mapstructure:"sales"`
	SaleItems int `json:"sale_items" mapstructure:"sale_items"`
}

// For returns the batch size of a table by name.
func (b BatchSizes) For(table string) int {
	switch table {
	case "stores":
		return b.Stores
	case "products":
		return b.Products
	case "sales":
		return b.Sales
	case "sale_items":
		return b.SaleItems
	}
	return 0
}

// DefaultConfig is the configuration written by `podgen init`.
func DefaultConfig() *Config {
	return &Config{
		Version:   "1",
		Generator: generator.DefaultOptions(),
		Database:  Database{Provider: "postgresql", URLEnv: "DATABASE_URL"},
		Loader: Loader{
			BatchSizes: BatchSizes{Stores: 1000, Products: 1000, Sales: 500, SaleItems: 1000},
		},
	}
}

// SetDefaults registers every scalar key on v. Registered keys are what lets
// AutomaticEnv override them, e.g. PODGEN_GENERATOR_SEED.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	g := d.Generator
	v.SetDefault("version", d.Version)

	v.SetDefault("generator.out_dir", g.OutDir)
	v.SetDefault("generator.num_sales", g.NumSales)
	v.SetDefault("generator.avg_items", g.AvgItems)
	v.SetDefault("generator.item_stddev", g.ItemStdDev)
	v.SetDefault("generator.max_items", g.MaxItems)
	v.SetDefault("generator.shard_sales", g.ShardSales)
	v.SetDefault("generator.num_products", g.NumProducts)
	v.SetDefault("generator.start_date", g.StartDate)
	v.SetDefault("generator.days", g.Days)
	v.SetDefault("generator.seed", g.Seed)
	v.SetDefault("generator.compress", g.Compress)
	v.SetDefault("generator.basket.low", g.Basket.Low)
	v.SetDefault("generator.basket.high", g.Basket.High)
	v.SetDefault("generator.basket.mode", g.Basket.Mode)
	v.SetDefault("generator.hours.open", g.Hours.Open)
	v.SetDefault("generator.hours.close", g.Hours.Close)
	v.SetDefault("generator.quantity.single_prob", g.Quantity.SingleProb)
	v.SetDefault("generator.quantity.min", g.Quantity.Min)
	v.SetDefault("generator.quantity.max", g.Quantity.Max)

	v.SetDefault("database.provider", d.Database.Provider)
	v.SetDefault("database.url_env", d.Database.URLEnv)

	v.SetDefault("loader.data_dir", "")
	v.SetDefault("loader.batch_sizes.stores", d.Loader.BatchSizes.Stores)
	v.SetDefault("loader.batch_sizes.products", d.Loader.BatchSizes.Products)
	v.SetDefault("loader.batch_sizes.sales", d.Loader.BatchSizes.Sales)
	v.SetDefault("loader.batch_sizes.sale_items", d.Loader.BatchSizes.SaleItems)
	v.SetDefault("loader.init_schema", d.Loader.InitSchema)
}

// ConfigureEnv makes v read PODGEN_-prefixed environment variables, with dots
// in keys replaced by underscores.
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, failure.Configurationf("failed to unmarshal config: %v", err)
	}

	// list-valued tables have no per-key defaults
	if len(cfg.Generator.Stores) == 0 {
		cfg.Generator.Stores = generator.DefaultStores()
	}
	if len(cfg.Generator.Promotions) == 0 {
		cfg.Generator.Promotions = generator.DefaultPromotions()
	}
	if len(cfg.Generator.Membership) == 0 {
		cfg.Generator.Membership = generator.DefaultMembership()
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if cfg.Loader.DataDir == "" {
		cfg.Loader.DataDir = cfg.Generator.OutDir
	}

	return &cfg, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", failure.Configurationf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

// Validate checks the database and loader sections. Generator options are
// validated by generator.New.
func (c *Config) Validate() error {
	if !slices.Contains(SupportedProviders, c.Database.Provider) {
		return failure.Configurationf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, SupportedProviders)
	}
	if c.Database.URLEnv == "" {
		return failure.Configurationf("database.url_env cannot be empty")
	}
	if c.Loader.DataDir == "" {
		return failure.Configurationf("loader.data_dir cannot be empty")
	}

	for _, t := range dataset.Tables {
		if size := c.Loader.BatchSizes.For(t.Name); size <= 0 {
			return failure.Configurationf("loader.batch_sizes.%s must be positive, got %d", t.Name, size)
		}
	}
	return nil
}

// Engine maps a provider alias to its adapter family.
func (c *Config) Engine() string {
	switch c.Database.Provider {
	case "postgresql", "postgres", "cockroachdb":
		return "postgresql"
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return "postgresql"
	}
}
