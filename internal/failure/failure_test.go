package failure

import (
	"fmt"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationfIsMarked(t *testing.T) {
	err := Configurationf("shard_sales must be positive, got %d", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, errors.Is(err, ErrIO))
	assert.Contains(t, err.Error(), "shard_sales must be positive, got 0")
	assert.Equal(t, "configuration error", Kind(err))
	assert.Contains(t, Hint(err), "fix the configuration")
}

func TestMarkSurvivesWrapping(t *testing.T) {
	base := IO(os.ErrPermission, "create %s", "out/sales_000001.csv")
	wrapped := fmt.Errorf("shard 1: %w", base)

	assert.True(t, errors.Is(wrapped, ErrIO))
	assert.True(t, errors.Is(wrapped, os.ErrPermission))
	assert.Equal(t, "io error", Kind(wrapped))
}

func TestNilErrorsStayNil(t *testing.T) {
	assert.NoError(t, IO(nil, "x"))
	assert.NoError(t, Connectivity(nil, "x"))
	assert.NoError(t, Constraint(nil, "x"))
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"connectivity", Connectivity(errors.New("dial tcp: refused"), "connect"), "connectivity error"},
		{"constraint", Constraint(errors.New("fk"), "insert sales"), "constraint violation"},
		{"plain", errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
