package database

import (
	"context"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
)

// DatabaseAdapter is what the loader needs from a database: a connection, the
// bundled DDL, conflict-skipping batch inserts, and summary queries.
type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// Schema returns the CREATE TABLE IF NOT EXISTS script for this dialect.
	Schema() string
	ExecuteSchema(ctx context.Context, script string) error

	// InsertIgnore writes rows in one statement, skipping rows whose key
	// already exists. It returns the number of rows actually inserted.
	InsertIgnore(ctx context.Context, table dataset.Table, rows [][]interface{}) (int64, error)

	CountRows(ctx context.Context, table string) (int64, error)
	SumColumn(ctx context.Context, table, column string) (float64, error)
}
