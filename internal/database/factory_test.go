package database

import (
	"testing"

	"github.com/Lumos-Labs-HQ/podgen/internal/database/mysql"
	"github.com/Lumos-Labs-HQ/podgen/internal/database/postgres"
	"github.com/Lumos-Labs-HQ/podgen/internal/database/sqlite"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdapter(t *testing.T) {
	tests := []struct {
		provider string
		want     DatabaseAdapter
	}{
		{"postgresql", &postgres.Adapter{}},
		{"postgres", &postgres.Adapter{}},
		{"cockroachdb", &postgres.Adapter{}},
		{"mysql", &mysql.Adapter{}},
		{"sqlite", &sqlite.Adapter{}},
		{"sqlite3", &sqlite.Adapter{}},
	}
	for _, tt := range tests {
		adapter, err := NewAdapter(tt.provider)
		require.NoError(t, err, tt.provider)
		assert.IsType(t, tt.want, adapter, tt.provider)
	}

	_, err := NewAdapter("oracle")
	assert.True(t, errors.Is(err, failure.ErrConfiguration))
}
