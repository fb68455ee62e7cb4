package config

import (
	"bytes"
	"testing"

	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadJSON(t *testing.T, body string) *Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("json")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(body)))
	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	g := cfg.Generator
	assert.Equal(t, "out", g.OutDir)
	assert.Equal(t, 1_000_000, g.NumSales)
	assert.Equal(t, 100_000, g.ShardSales)
	assert.Equal(t, 5000, g.NumProducts)
	assert.Equal(t, 12, g.MaxItems)
	assert.Equal(t, "2024-09-01", g.StartDate)
	assert.Equal(t, 30, g.Days)
	assert.EqualValues(t, 42, g.Seed)
	assert.False(t, g.Compress)
	assert.Len(t, g.Stores, 4)
	assert.Len(t, g.Promotions, 3)
	assert.Len(t, g.Membership, 2)
	assert.Equal(t, 15.0, g.Basket.Mode)
	assert.Equal(t, 21, g.Hours.Close)

	assert.Equal(t, "postgresql", cfg.Database.Provider)
	assert.Equal(t, "DATABASE_URL", cfg.Database.URLEnv)
	assert.Equal(t, "out", cfg.Loader.DataDir, "data_dir falls back to out_dir")
	assert.Equal(t, BatchSizes{Stores: 1000, Products: 1000, Sales: 500, SaleItems: 1000}, cfg.Loader.BatchSizes)
	assert.False(t, cfg.Loader.InitSchema)

	require.NoError(t, cfg.Validate())
	require.NoError(t, g.Validate())
}

func TestFileOverrides(t *testing.T) {
	cfg := loadJSON(t, `{
		"generator": {
			"out_dir": "data",
			"num_sales": 10,
			"shard_sales": 4,
			"seed": 7,
			"stores": [{"code": "A", "name": "Store A", "region": "r", "weight": 1}],
			"basket": {"high": 60}
		},
		"database": {"provider": "sqlite"},
		"loader": {"batch_sizes": {"sales": 50}}
	}`)

	g := cfg.Generator
	assert.Equal(t, "data", g.OutDir)
	assert.Equal(t, 10, g.NumSales)
	assert.EqualValues(t, 7, g.Seed)
	require.Len(t, g.Stores, 1, "a configured list replaces the default one")
	assert.Equal(t, "A", g.Stores[0].Code)
	assert.Equal(t, 60.0, g.Basket.High)
	assert.Equal(t, 3.0, g.Basket.Low, "unset nested keys keep their default")
	assert.Len(t, g.Promotions, 3)

	assert.Equal(t, "sqlite", cfg.Database.Provider)
	assert.Equal(t, "sqlite", cfg.Engine())
	assert.Equal(t, "data", cfg.Loader.DataDir)
	assert.Equal(t, 50, cfg.Loader.BatchSizes.Sales)
	assert.Equal(t, 1000, cfg.Loader.BatchSizes.SaleItems)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PODGEN_GENERATOR_SEED", "99")
	t.Setenv("PODGEN_DATABASE_PROVIDER", "mysql")
	t.Setenv("PODGEN_LOADER_BATCH_SIZES_SALE_ITEMS", "250")

	v := viper.New()
	ConfigureEnv(v)
	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.EqualValues(t, 99, cfg.Generator.Seed)
	assert.Equal(t, "mysql", cfg.Database.Provider)
	assert.Equal(t, 250, cfg.Loader.BatchSizes.SaleItems)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Database.Provider = "oracle" }},
		{"empty url env", func(c *Config) { c.Database.URLEnv = "" }},
		{"empty data dir", func(c *Config) { c.Loader.DataDir = "" }},
		{"zero batch", func(c *Config) { c.Loader.BatchSizes.Sales = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Loader.DataDir = "out"
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, failure.ErrConfiguration))
		})
	}
}

func TestValidateReportsFirstInvalidBatchInLoadOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loader.DataDir = "out"
	cfg.Loader.BatchSizes.Products = 0
	cfg.Loader.BatchSizes.Sales = -1
	cfg.Loader.BatchSizes.SaleItems = 0

	for range 20 {
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loader.batch_sizes.products")
	}
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.URLEnv = "PODGEN_TEST_DB_URL"

	t.Setenv("PODGEN_TEST_DB_URL", "")
	_, err := cfg.GetDatabaseURL()
	assert.True(t, errors.Is(err, failure.ErrConfiguration))

	t.Setenv("PODGEN_TEST_DB_URL", "postgres://localhost:26257/pod_market")
	url, err := cfg.GetDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:26257/pod_market", url)
}

func TestEngine(t *testing.T) {
	for provider, engine := range map[string]string{
		"postgres":    "postgresql",
		"cockroachdb": "postgresql",
		"mysql":       "mysql",
		"sqlite3":     "sqlite",
	} {
		cfg := DefaultConfig()
		cfg.Database.Provider = provider
		assert.Equal(t, engine, cfg.Engine(), provider)
	}
	assert.Equal(t, 500, DefaultConfig().Loader.BatchSizes.For("sales"))
	assert.Equal(t, 0, DefaultConfig().Loader.BatchSizes.For("unknown"))
}
