package dataset

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const maxListedProblems = 50

// Report is the outcome of Verify.
type Report struct {
	Stores    int
	Products  int
	Shards    int
	Sales     int
	SaleItems int
	Problems  []string
	// Suppressed counts problems found beyond the listed ones.
	Suppressed int
}

// OK reports whether no problem was found.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

func (r *Report) problemf(format string, args ...interface{}) {
	if len(r.Problems) >= maxListedProblems {
		r.Suppressed++
		return
	}
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Verify checks an output directory: unique ids, referential closure inside each
// shard, store codes, value formats, and, when a manifest exists, row counts and
// range bounds. The returned error is reserved for unreadable files; data
// problems are listed in the report.
func Verify(dir string) (*Report, error) {
	layout, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	r := &Report{Shards: len(layout.Shards)}
	m := layout.Manifest

	stores, err := ReadAll(layout.Stores, Stores)
	if err != nil {
		return nil, err
	}
	storeIDs := make(map[string]struct{}, len(stores))
	codes := make(map[string]struct{}, len(stores))
	for _, row := range stores {
		checkUnique(r, storeIDs, row[0], "store_id")
		checkUnique(r, codes, row[1], "store code")
	}
	r.Stores = len(stores)

	products, err := ReadAll(layout.Products, Products)
	if err != nil {
		return nil, err
	}
	productIDs := make(map[string]struct{}, len(products))
	for _, row := range products {
		checkUnique(r, productIDs, row[0], "product_id")
	}
	r.Products = len(products)

	saleIDs := make(map[string]struct{})
	for _, shard := range layout.Shards {
		if err := verifyShard(r, shard, m, codes, productIDs, saleIDs); err != nil {
			return nil, err
		}
	}

	if m != nil {
		if r.Sales != m.NumSales {
			r.problemf("sales rows: got %d, manifest says %d", r.Sales, m.NumSales)
		}
		if r.Products != m.NumProducts {
			r.problemf("products rows: got %d, manifest says %d", r.Products, m.NumProducts)
		}
		if r.SaleItems != m.Totals.SaleItems {
			r.problemf("sale_items rows: got %d, manifest says %d", r.SaleItems, m.Totals.SaleItems)
		}
	}
	return r, nil
}

func verifyShard(r *Report, shard ShardFiles, m *Manifest, codes, productIDs, saleIDs map[string]struct{}) error {
	salesReader, err := Open(shard.Sales, Sales)
	if err != nil {
		return err
	}
	defer salesReader.Close()

	shardSales := make(map[string]struct{})
	rows := 0
	for {
		row, err := salesReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		rows++
		where := fmt.Sprintf("%s:%d", shard.Sales, salesReader.Line())

		checkUnique(r, saleIDs, row[0], "sale_id")
		shardSales[row[0]] = struct{}{}
		if _, ok := codes[row[1]]; !ok {
			r.problemf("%s: unknown store_code %q", where, row[1])
		}
		verifyTotal(r, where, row[2], m)
		verifyTimestamp(r, where, row[3], m)
		if strings.TrimSpace(row[4]) == "" {
			r.problemf("%s: empty promotion, want a label or %q", where, PromotionNone)
		}
	}
	r.Sales += rows

	if m != nil {
		for _, entry := range m.Shards {
			if entry.Index == shard.Index && entry.Sales.Rows != rows {
				r.problemf("%s: %d rows, manifest says %d", shard.Sales, rows, entry.Sales.Rows)
			}
		}
	}

	itemsReader, err := Open(shard.SaleItems, SaleItems)
	if err != nil {
		return err
	}
	defer itemsReader.Close()

	perSale := make(map[string]int)
	for {
		row, err := itemsReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		r.SaleItems++
		where := fmt.Sprintf("%s:%d", shard.SaleItems, itemsReader.Line())

		if _, ok := shardSales[row[0]]; !ok {
			r.problemf("%s: sale_id %s has no sale in shard %06d", where, row[0], shard.Index)
		}
		if _, ok := productIDs[row[1]]; !ok {
			r.problemf("%s: unknown product_id %s", where, row[1])
		}
		qty, err := strconv.Atoi(row[2])
		switch {
		case err != nil:
			r.problemf("%s: qty %q is not an integer", where, row[2])
		case qty < 1:
			r.problemf("%s: qty %d is not positive", where, qty)
		case m != nil && m.MaxQuantity > 0 && qty > m.MaxQuantity:
			r.problemf("%s: qty %d above %d", where, qty, m.MaxQuantity)
		}
		perSale[row[0]]++
	}

	for saleID := range shardSales {
		n := perSale[saleID]
		if n < 1 {
			r.problemf("%s: sale %s has no line items", shard.SaleItems, saleID)
		}
		if m != nil && m.MaxItems > 0 && n > m.MaxItems {
			r.problemf("%s: sale %s has %d line items, above %d", shard.SaleItems, saleID, n, m.MaxItems)
		}
	}
	return nil
}

func verifyTotal(r *Report, where, value string, m *Manifest) {
	dot := strings.IndexByte(value, '.')
	if dot < 0 || len(value)-dot-1 != 2 {
		r.problemf("%s: total %q does not have exactly 2 decimals", where, value)
		return
	}
	total, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.problemf("%s: total %q is not a number", where, value)
		return
	}
	if m != nil && (total < m.BasketLow || total > m.BasketHigh) {
		r.problemf("%s: total %s outside [%.2f, %.2f]", where, value, m.BasketLow, m.BasketHigh)
	}
}

func verifyTimestamp(r *Report, where, value string, m *Manifest) {
	ts, err := time.Parse(TimestampLayout, value)
	if err != nil {
		r.problemf("%s: txn_ts %q does not match %s", where, value, TimestampLayout)
		return
	}
	if m == nil {
		return
	}
	if ts.Hour() < m.OpenHour || ts.Hour() > m.CloseHour {
		r.problemf("%s: txn_ts %s outside open hours %d-%d", where, value, m.OpenHour, m.CloseHour)
	}
	start, err := time.Parse(DateLayout, m.StartDate)
	if err != nil {
		return
	}
	end := start.AddDate(0, 0, m.Days+1)
	if ts.Before(start) || !ts.Before(end) {
		r.problemf("%s: txn_ts %s outside the %d-day window from %s", where, value, m.Days, m.StartDate)
	}
}

func checkUnique(r *Report, seen map[string]struct{}, id, what string) {
	if _, dup := seen[id]; dup {
		r.problemf("duplicate %s %s", what, id)
		return
	}
	seen[id] = struct{}{}
}
