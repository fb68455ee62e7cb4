package cmd

import (
	"testing"

	"github.com/Lumos-Labs-HQ/podgen/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFlagsOverrideConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	flags := generateCmd.Flags()
	t.Cleanup(func() {
		for _, name := range []string{"avg-items", "max-items", "num-sales"} {
			f := flags.Lookup(name)
			require.NoError(t, f.Value.Set(f.DefValue))
			f.Changed = false
		}
	})

	require.NoError(t, flags.Set("avg-items", "4.5"))
	require.NoError(t, flags.Set("max-items", "8"))
	require.NoError(t, flags.Set("num-sales", "250"))
	require.NoError(t, generateCmd.PreRunE(generateCmd, nil))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 4.5, cfg.Generator.AvgItems)
	assert.Equal(t, 8, cfg.Generator.MaxItems)
	assert.Equal(t, 250, cfg.Generator.NumSales)
	assert.Equal(t, config.DefaultConfig().Generator.ShardSales, cfg.Generator.ShardSales, "unset flags keep the default")
}
