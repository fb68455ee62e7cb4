package dataset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	// PromotionNone is written for sales without a promotion. Consumers store it as NULL.
	PromotionNone = "None"

	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"

	csvExt  = ".csv"
	gzipExt = ".gz"
)

// Table describes one output table: its file base name, header and idempotency key.
type Table struct {
	Name    string
	Columns []string
	Key     []string
	Sharded bool
}

var (
	Stores = Table{
		Name:    "stores",
		Columns: []string{"store_id", "code", "name", "region"},
		Key:     []string{"store_id"},
	}
	Products = Table{
		Name:    "products",
		Columns: []string{"product_id", "name"},
		Key:     []string{"product_id"},
	}
	Sales = Table{
		Name:    "sales",
		Columns: []string{"sale_id", "store_code", "total", "txn_ts", "promotion", "member"},
		Key:     []string{"sale_id"},
		Sharded: true,
	}
	SaleItems = Table{
		Name:    "sale_items",
		Columns: []string{"sale_id", "product_id", "qty"},
		Key:     []string{"sale_id", "product_id"},
		Sharded: true,
	}
)

// Tables lists every table in load order: referenced tables first.
var Tables = []Table{Stores, Products, Sales, SaleItems}

// FileName returns the file name of an unsharded table.
func (t Table) FileName(compressed bool) string {
	return withExt(t.Name, compressed)
}

// ShardFileName returns the file name of shard index (1-based) of a sharded table.
func (t Table) ShardFileName(index int, compressed bool) string {
	return withExt(fmt.Sprintf("%s_%06d", t.Name, index), compressed)
}

func withExt(base string, compressed bool) string {
	if compressed {
		return base + csvExt + gzipExt
	}
	return base + csvExt
}

// IsCompressed reports whether path names a gzip-compressed table file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, gzipExt)
}

var shardNameRegex = regexp.MustCompile(`^(sales|sale_items)_(\d{6})\.csv(\.gz)?$`)

// parseShardFileName extracts the table name and shard index from a shard file name.
func parseShardFileName(path string) (string, int, bool) {
	m := shardNameRegex.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", 0, false
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], idx, true
}
