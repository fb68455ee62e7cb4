package loader

import (
	"context"

	"github.com/Lumos-Labs-HQ/podgen/internal/database"
	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
)

type TableCount struct {
	Table string
	Rows  int64
}

// Stats is what the database holds after a load.
type Stats struct {
	Counts  []TableCount
	Revenue float64
}

// CollectStats counts every table and sums sales.total.
func CollectStats(ctx context.Context, db database.DatabaseAdapter) (*Stats, error) {
	s := &Stats{}
	for _, t := range dataset.Tables {
		n, err := db.CountRows(ctx, t.Name)
		if err != nil {
			return nil, err
		}
		s.Counts = append(s.Counts, TableCount{Table: t.Name, Rows: n})
	}

	revenue, err := db.SumColumn(ctx, dataset.Sales.Name, "total")
	if err != nil {
		return nil, err
	}
	s.Revenue = revenue
	return s, nil
}
