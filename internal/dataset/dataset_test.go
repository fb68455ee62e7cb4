package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardFileName(t *testing.T) {
	assert.Equal(t, "sales_000001.csv", Sales.ShardFileName(1, false))
	assert.Equal(t, "sale_items_000123.csv.gz", SaleItems.ShardFileName(123, true))
	assert.Equal(t, "stores.csv", Stores.FileName(false))

	table, idx, ok := parseShardFileName("/tmp/out/sale_items_000042.csv.gz")
	require.True(t, ok)
	assert.Equal(t, "sale_items", table)
	assert.Equal(t, 42, idx)

	_, _, ok = parseShardFileName("sales_summary.csv")
	assert.False(t, ok)
}

func TestWriterReaderGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), Products.FileName(true))

	w, err := Create(path, Products)
	require.NoError(t, err)
	require.NoError(t, w.Write([]string{"a", "Product-00000"}))
	require.NoError(t, w.Write([]string{"b", "Product, with comma"}))
	assert.Equal(t, 2, w.Rows())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	rows, err := ReadAll(path, Products)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "Product-00000"}, {"b", "Product, with comma"}}, rows)
}

func TestOpenRejectsWrongHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stores.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,code\n1,X\n"), 0644))

	_, err := Open(path, Stores)
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure.ErrIO))
	assert.Contains(t, err.Error(), "unexpected header")
}

func TestReadManifestParseErrorIsIOError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte("shards: [unterminated\n"), 0644))

	_, err := ReadManifest(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure.ErrIO))

	_, err = Discover(dir)
	assert.True(t, errors.Is(err, failure.ErrIO))
}

func TestRemoveTableFiles(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, filepath.Join(dir, "stores.csv"), Stores)
	writeTable(t, filepath.Join(dir, "products.csv.gz"), Products)
	writeTable(t, filepath.Join(dir, Sales.ShardFileName(1, false)), Sales)
	writeTable(t, filepath.Join(dir, SaleItems.ShardFileName(7, true)), SaleItems)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales_1.csv"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sales_000002.csv"), 0755))

	n, err := RemoveTableFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	assert.ElementsMatch(t, []string{"README.md", "sales_1.csv", "sales_000002.csv"}, left)
}

func TestCreateInMissingDirIsIOError(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "stores.csv"), Stores)
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure.ErrIO))
}

func writeTable(t *testing.T, path string, table Table, rows ...[]string) {
	t.Helper()
	w, err := Create(path, table)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, w.Write(row))
	}
	require.NoError(t, w.Close())
}

func TestDiscoverWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, filepath.Join(dir, "stores.csv"), Stores)
	writeTable(t, filepath.Join(dir, "products.csv.gz"), Products)
	for _, idx := range []int{2, 1} {
		writeTable(t, filepath.Join(dir, Sales.ShardFileName(idx, false)), Sales)
		writeTable(t, filepath.Join(dir, SaleItems.ShardFileName(idx, false)), SaleItems)
	}

	layout, err := Discover(dir)
	require.NoError(t, err)
	assert.Nil(t, layout.Manifest)
	assert.Equal(t, filepath.Join(dir, "products.csv.gz"), layout.Products)
	require.Len(t, layout.Shards, 2)
	assert.Equal(t, 1, layout.Shards[0].Index)
	assert.Equal(t, filepath.Join(dir, "sale_items_000002.csv"), layout.Shards[1].SaleItems)
}

func TestDiscoverMissingPair(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, filepath.Join(dir, "stores.csv"), Stores)
	writeTable(t, filepath.Join(dir, "products.csv"), Products)
	writeTable(t, filepath.Join(dir, Sales.ShardFileName(1, false)), Sales)

	_, err := Discover(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shard 000001")
	assert.True(t, errors.Is(err, failure.ErrIO))
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{
		Seed:     7,
		NumSales: 3,
		Stores:   FileEntry{File: "stores.csv", Rows: 4},
		Products: FileEntry{File: "products.csv", Rows: 5},
		Shards: []ShardEntry{{
			Index:     1,
			Sales:     FileEntry{File: "sales_000001.csv", Rows: 3},
			SaleItems: FileEntry{File: "sale_items_000001.csv", Rows: 9},
		}},
	}
	require.NoError(t, WriteManifest(dir, m))

	got, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	layout, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sale_items_000001.csv"), layout.Shards[0].SaleItems)
}

func TestVerifyFindsBrokenReferences(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, filepath.Join(dir, "stores.csv"), Stores,
		[]string{"s1", "POD-TEMPE", "Tempe", "us-west1"})
	writeTable(t, filepath.Join(dir, "products.csv"), Products,
		[]string{"p1", "Product-00000"})
	writeTable(t, filepath.Join(dir, Sales.ShardFileName(1, false)), Sales,
		[]string{"x1", "POD-TEMPE", "12.50", "2024-09-01 08:15:00", "None", "Yes"},
		[]string{"x2", "POD-NOPE", "7.5", "2024-09-01 08:15:00", "BOGO", "No"})
	writeTable(t, filepath.Join(dir, SaleItems.ShardFileName(1, false)), SaleItems,
		[]string{"x1", "p1", "1"},
		[]string{"x2", "p9", "0"},
		[]string{"x3", "p1", "1"})

	report, err := Verify(dir)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, 2, report.Sales)
	assert.Equal(t, 3, report.SaleItems)

	joined := ""
	for _, p := range report.Problems {
		joined += p + "\n"
	}
	assert.Contains(t, joined, `unknown store_code "POD-NOPE"`)
	assert.Contains(t, joined, "does not have exactly 2 decimals")
	assert.Contains(t, joined, "unknown product_id p9")
	assert.Contains(t, joined, "qty 0 is not positive")
	assert.Contains(t, joined, "sale_id x3 has no sale in shard 000001")
}
