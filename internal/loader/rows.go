package loader

import (
	"fmt"
	"strconv"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
)

// convertRow turns a CSV record into driver values: "None" promotions become
// NULL, totals become float64 and quantities int64. Everything else stays text.
func convertRow(t dataset.Table, record []string) ([]interface{}, error) {
	row := make([]interface{}, len(record))
	for i, v := range record {
		row[i] = v
	}

	switch t.Name {
	case dataset.Sales.Name:
		total, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("total %q is not a number", record[2])
		}
		row[2] = total
		if record[4] == dataset.PromotionNone {
			row[4] = nil
		}
	case dataset.SaleItems.Name:
		qty, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("qty %q is not an integer", record[2])
		}
		row[2] = qty
	}
	return row, nil
}

// mergeLines collapses sale_items rows sharing (sale_id, product_id) into the
// first occurrence, summing qty. The insert key is that pair, so unmerged
// duplicates would be skipped and their quantity lost.
func mergeLines(rows [][]interface{}) (merged [][]interface{}, collapsed int) {
	type lineKey struct{ sale, product string }
	index := make(map[lineKey]int, len(rows))
	merged = make([][]interface{}, 0, len(rows))

	for _, row := range rows {
		key := lineKey{row[0].(string), row[1].(string)}
		if at, ok := index[key]; ok {
			merged[at][2] = merged[at][2].(int64) + row[2].(int64)
			collapsed++
			continue
		}
		index[key] = len(merged)
		merged = append(merged, row)
	}
	return merged, collapsed
}
