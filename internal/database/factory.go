package database

import (
	"github.com/Lumos-Labs-HQ/podgen/internal/database/mysql"
	"github.com/Lumos-Labs-HQ/podgen/internal/database/postgres"
	"github.com/Lumos-Labs-HQ/podgen/internal/database/sqlite"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
)

func NewAdapter(provider string) (DatabaseAdapter, error) {
	switch provider {
	case "postgresql", "postgres", "cockroachdb":
		return postgres.New(), nil
	case "mysql":
		return mysql.New(), nil
	case "sqlite", "sqlite3":
		return sqlite.New(), nil
	default:
		return nil, failure.Configurationf("unsupported database provider: %s", provider)
	}
}
