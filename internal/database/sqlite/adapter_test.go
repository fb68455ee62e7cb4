package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Adapter {
	t.Helper()
	a := New()
	ctx := context.Background()
	require.NoError(t, a.Connect(ctx, filepath.Join(t.TempDir(), "pod_market.db")))
	t.Cleanup(func() { a.Close() })
	require.NoError(t, a.Ping(ctx))
	require.NoError(t, a.ExecuteSchema(ctx, a.Schema()))
	return a
}

func TestInsertIgnoreIsIdempotent(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()

	stores := [][]interface{}{
		{"3f1c9a52-0000-4000-8000-000000000001", "POD-TEMPE", "POD Market – Tempe", "us-west1"},
		{"3f1c9a52-0000-4000-8000-000000000002", "POD-WV", "POD Market – West Valley", "us-west1"},
	}
	n, err := a.InsertIgnore(ctx, dataset.Stores, stores)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = a.InsertIgnore(ctx, dataset.Stores, stores)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	count, err := a.CountRows(ctx, "stores")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestNullPromotionAndSum(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()

	_, err := a.InsertIgnore(ctx, dataset.Stores, [][]interface{}{
		{"3f1c9a52-0000-4000-8000-000000000001", "POD-TEMPE", "POD Market – Tempe", "us-west1"},
	})
	require.NoError(t, err)

	sales := [][]interface{}{
		{"s1", "POD-TEMPE", 12.5, "2024-09-01 08:15:00", nil, "Yes"},
		{"s2", "POD-TEMPE", 7.25, "2024-09-02 20:59:00", "BOGO (Buy One Get One)", "No"},
	}
	_, err = a.InsertIgnore(ctx, dataset.Sales, sales)
	require.NoError(t, err)

	var nulls int
	require.NoError(t, a.db.Get(&nulls, `SELECT COUNT(*) FROM sales WHERE promotion IS NULL`))
	assert.Equal(t, 1, nulls)

	sum, err := a.SumColumn(ctx, "sales", "total")
	require.NoError(t, err)
	assert.InDelta(t, 19.75, sum, 1e-9)

	empty, err := a.SumColumn(ctx, "sale_items", "qty")
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestInsertRejectsInvalidRows(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()

	_, err := a.InsertIgnore(ctx, dataset.Stores, [][]interface{}{
		{"3f1c9a52-0000-4000-8000-000000000001", "POD-TEMPE", "POD Market – Tempe", "us-west1"},
	})
	require.NoError(t, err)
	_, err = a.InsertIgnore(ctx, dataset.Products, [][]interface{}{{"p1", "Product-00000"}})
	require.NoError(t, err)
	_, err = a.InsertIgnore(ctx, dataset.Sales, [][]interface{}{
		{"s1", "POD-TEMPE", 12.5, "2024-09-01 08:15:00", nil, "Yes"},
	})
	require.NoError(t, err)

	tests := map[string][]interface{}{
		"zero quantity":   {"s1", "p1", int64(0)},
		"unknown sale":    {"no-such-sale", "p1", int64(2)},
		"unknown product": {"s1", "no-such-product", int64(2)},
	}
	for name, row := range tests {
		t.Run(name, func(t *testing.T) {
			n, err := a.InsertIgnore(ctx, dataset.SaleItems, [][]interface{}{row})
			require.Error(t, err)
			assert.True(t, errors.Is(err, failure.ErrConstraintViolation))
			assert.Zero(t, n)
		})
	}

	_, err = a.InsertIgnore(ctx, dataset.Sales, [][]interface{}{
		{"s2", "NO-SUCH-STORE", 3.0, "2024-09-01 09:00:00", nil, "No"},
	})
	assert.True(t, errors.Is(err, failure.ErrConstraintViolation))

	count, err := a.CountRows(ctx, "sale_items")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMissingTableIsConstraintViolation(t *testing.T) {
	a := New()
	ctx := context.Background()
	require.NoError(t, a.Connect(ctx, filepath.Join(t.TempDir(), "empty.db")))
	defer a.Close()

	_, err := a.InsertIgnore(ctx, dataset.Products, [][]interface{}{{"p1", "Product-00000"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure.ErrConstraintViolation))
}
