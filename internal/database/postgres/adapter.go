package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/podgen/internal/database/common"
	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// Adapter talks to PostgreSQL and CockroachDB through a pgx pool.
type Adapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return failure.Configurationf("failed to parse connection URL: %v", err)
	}

	// parameter types come from the server so text ids bind to UUID columns
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return failure.Connectivity(err, "failed to create connection pool")
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return failure.Connectivity(p.pool.Ping(ctx), "failed to ping database")
}

func (p *Adapter) Schema() string {
	return schemaSQL
}

func (p *Adapter) ExecuteSchema(ctx context.Context, script string) error {
	for _, stmt := range common.ParseSQLStatements(script) {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return classify(err, "failed to execute schema statement %q", stmt)
		}
	}
	return nil
}

func (p *Adapter) InsertIgnore(ctx context.Context, table dataset.Table, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	query, args, err := p.buildInsert(table, rows)
	if err != nil {
		return 0, err
	}
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, classify(err, "failed to insert %d rows into %s", len(rows), table.Name)
	}
	return tag.RowsAffected(), nil
}

func (p *Adapter) buildInsert(table dataset.Table, rows [][]interface{}) (string, []interface{}, error) {
	if err := common.CheckRows(table, rows); err != nil {
		return "", nil, err
	}
	insert := p.qb.Insert(pq.QuoteIdentifier(table.Name)).
		Columns(common.QuoteColumns(table, pq.QuoteIdentifier)...)
	for _, row := range rows {
		insert = insert.Values(row...)
	}
	key := common.QuoteColumns(dataset.Table{Columns: table.Key}, pq.QuoteIdentifier)
	insert = insert.Suffix(fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", strings.Join(key, ", ")))

	query, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build insert for %s: %w", table.Name, err)
	}
	return query, args, nil
}

func (p *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM " + pq.QuoteIdentifier(table)
	if err := p.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, classify(err, "failed to count %s", table)
	}
	return count, nil
}

func (p *Adapter) SumColumn(ctx context.Context, table, column string) (float64, error) {
	var sum float64
	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0)::float8 FROM %s", pq.QuoteIdentifier(column), pq.QuoteIdentifier(table))
	if err := p.pool.QueryRow(ctx, query).Scan(&sum); err != nil {
		return 0, classify(err, "failed to sum %s.%s", table, column)
	}
	return sum, nil
}

// classify marks errors the server answered with as constraint violations and
// everything else as connectivity failures.
func classify(err error, format string, args ...interface{}) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return failure.Constraint(err, format+" (SQLSTATE %s)", append(args, pgErr.Code)...)
	}
	return failure.Connectivity(err, format, args...)
}
