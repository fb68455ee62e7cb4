package generator

import (
	"testing"

	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGIsReproducible(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for range 100 {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.UUID(), b.UUID())
	}
	assert.NotEqual(t, NewRNG(42).UUID(), NewRNG(43).UUID())
}

func TestRNGUUIDIsVersion4(t *testing.T) {
	id := NewRNG(7).UUID()
	assert.Equal(t, uuid.Version(4), id.Version())
	assert.Equal(t, uuid.RFC4122, id.Variant())
}

func TestGenerateStoresKeepsOrder(t *testing.T) {
	stores := GenerateStores(NewRNG(1), DefaultStores())
	require.Len(t, stores, 4)

	codes := make([]string, len(stores))
	ids := map[uuid.UUID]bool{}
	for i, s := range stores {
		codes[i] = s.Code
		ids[s.ID] = true
		assert.Equal(t, "us-west1", s.Region)
	}
	assert.Equal(t, []string{"POD-TEMPE", "POD-POLY", "POD-WV", "POD-DTPHX"}, codes)
	assert.Len(t, ids, 4)
}

func TestGenerateProducts(t *testing.T) {
	products, err := GenerateProducts(NewRNG(1), 12)
	require.NoError(t, err)
	require.Len(t, products, 12)
	assert.Equal(t, "Product-00000", products[0].Name)
	assert.Equal(t, "Product-00011", products[11].Name)

	ids := map[uuid.UUID]bool{}
	for _, p := range products {
		ids[p.ID] = true
	}
	assert.Len(t, ids, 12)

	empty, err := GenerateProducts(NewRNG(1), 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = GenerateProducts(NewRNG(1), -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure.ErrConfiguration))
}

func TestProductNamePadding(t *testing.T) {
	assert.Equal(t, "Product-00042", ProductName(42))
	assert.Equal(t, "Product-123456", ProductName(123456))
}
