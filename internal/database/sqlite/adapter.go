package sqlite

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
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

type Adapter struct {
	db *sqlx.DB
	qb squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dbPath, "?") {
		dbPath += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	// foreign keys are off per connection unless requested
	if !strings.Contains(dbPath, "_foreign_keys=") && !strings.Contains(dbPath, "_fk=") {
		dbPath += "&_foreign_keys=on"
	}

	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return failure.Configurationf("failed to open SQLite connection: %v", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return failure.Connectivity(s.db.PingContext(ctx), "failed to open database file")
}

func (s *Adapter) Schema() string {
	return schemaSQL
}

func (s *Adapter) ExecuteSchema(ctx context.Context, script string) error {
	for _, stmt := range common.ParseSQLStatements(script) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return classify(err, "failed to execute schema statement %q", stmt)
		}
	}
	return nil
}

func (s *Adapter) InsertIgnore(ctx context.Context, table dataset.Table, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	query, args, err := s.buildInsert(table, rows)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err, "failed to insert %d rows into %s", len(rows), table.Name)
	}
	return res.RowsAffected()
}

func (s *Adapter) buildInsert(table dataset.Table, rows [][]interface{}) (string, []interface{}, error) {
	if err := common.CheckRows(table, rows); err != nil {
		return "", nil, err
	}
	insert := s.qb.Insert(quoteIdent(table.Name)).
		Columns(common.QuoteColumns(table, quoteIdent)...)
	for _, row := range rows {
		insert = insert.Values(row...)
	}
	// only a key collision is skipped; CHECK, NOT NULL and FK failures still abort
	key := common.QuoteColumns(dataset.Table{Columns: table.Key}, quoteIdent)
	insert = insert.Suffix(fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", strings.Join(key, ", ")))
	query, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build insert for %s: %w", table.Name, err)
	}
	return query, args, nil
}

func (s *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+quoteIdent(table)); err != nil {
		return 0, classify(err, "failed to count %s", table)
	}
	return count, nil
}

func (s *Adapter) SumColumn(ctx context.Context, table, column string) (float64, error) {
	var sum float64
	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0.0) FROM %s", quoteIdent(column), quoteIdent(table))
	if err := s.db.GetContext(ctx, &sum, query); err != nil {
		return 0, classify(err, "failed to sum %s.%s", table, column)
	}
	return sum, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// classify treats SQLITE_CONSTRAINT and SQLITE_ERROR (missing table or column)
// as rejected rows; I/O, locking and open failures are connectivity errors.
func classify(err error, format string, args ...interface{}) error {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && (liteErr.Code == sqlite3.ErrConstraint || liteErr.Code == sqlite3.ErrError) {
		return failure.Constraint(err, format, args...)
	}
	return failure.Connectivity(err, format, args...)
}
