package mysql

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
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
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

// NewWithDB wraps an open handle; Connect must not be called afterwards.
func NewWithDB(db *sqlx.DB) *Adapter {
	a := New()
	a.db = db
	return a
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sqlx.Open("mysql", toDSN(url))
	if err != nil {
		return failure.Configurationf("failed to open MySQL connection: %v", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	m.db = db
	return nil
}

// toDSN turns a mysql:// URL into a go-sql-driver DSN. Anything else is
// assumed to be a DSN already.
func toDSN(url string) string {
	if !strings.HasPrefix(url, "mysql://") {
		return url
	}
	dsn := strings.TrimPrefix(url, "mysql://")

	atIndex := strings.LastIndex(dsn, "@")
	if atIndex <= 0 {
		return dsn
	}
	credentials := dsn[:atIndex]
	remainder := dsn[atIndex+1:]

	slashIndex := strings.Index(remainder, "/")
	if slashIndex <= 0 {
		return fmt.Sprintf("%s@tcp(%s)/", credentials, remainder)
	}
	hostPort := remainder[:slashIndex]
	dbAndParams := strings.NewReplacer(
		"ssl-mode=REQUIRED", "tls=skip-verify",
		"ssl-mode=DISABLED", "tls=false",
		"sslmode=require", "tls=skip-verify",
		"sslmode=disable", "tls=false",
	).Replace(remainder[slashIndex+1:])

	return fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, dbAndParams)
}

func (m *Adapter) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	return failure.Connectivity(m.db.PingContext(ctx), "failed to ping database")
}

func (m *Adapter) Schema() string {
	return schemaSQL
}

func (m *Adapter) ExecuteSchema(ctx context.Context, script string) error {
	for _, stmt := range common.ParseSQLStatements(script) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return classify(err, "failed to execute schema statement %q", stmt)
		}
	}
	return nil
}

func (m *Adapter) InsertIgnore(ctx context.Context, table dataset.Table, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	query, args, err := m.buildInsert(table, rows)
	if err != nil {
		return 0, err
	}
	res, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err, "failed to insert %d rows into %s", len(rows), table.Name)
	}
	return res.RowsAffected()
}

func (m *Adapter) buildInsert(table dataset.Table, rows [][]interface{}) (string, []interface{}, error) {
	if err := common.CheckRows(table, rows); err != nil {
		return "", nil, err
	}
	insert := m.qb.Insert(quoteIdent(table.Name)).
		Columns(common.QuoteColumns(table, quoteIdent)...)
	for _, row := range rows {
		insert = insert.Values(row...)
	}
	// no-op update, so only duplicate keys are skipped
	first := quoteIdent(table.Key[0])
	insert = insert.Suffix(fmt.Sprintf("ON DUPLICATE KEY UPDATE %s = %s", first, first))
	query, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build insert for %s: %w", table.Name, err)
	}
	return query, args, nil
}

func (m *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	var count int64
	if err := m.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+quoteIdent(table)); err != nil {
		return 0, classify(err, "failed to count %s", table)
	}
	return count, nil
}

func (m *Adapter) SumColumn(ctx context.Context, table, column string) (float64, error) {
	var sum float64
	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s", quoteIdent(column), quoteIdent(table))
	if err := m.db.GetContext(ctx, &sum, query); err != nil {
		return 0, classify(err, "failed to sum %s.%s", table, column)
	}
	return sum, nil
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func classify(err error, format string, args ...interface{}) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return failure.Constraint(err, format+" (error %d)", append(args, myErr.Number)...)
	}
	return failure.Connectivity(err, format, args...)
}
