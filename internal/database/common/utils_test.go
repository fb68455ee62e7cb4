package common

import (
	"testing"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSQLStatements(t *testing.T) {
	script := `
-- bootstrap
CREATE TABLE a (id TEXT);
INSERT INTO a VALUES ('x;y');

CREATE TABLE b (id TEXT)
`
	stmts := ParseSQLStatements(script)
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (id TEXT)", stmts[0])
	assert.Equal(t, "INSERT INTO a VALUES ('x;y')", stmts[1])
	assert.Equal(t, "CREATE TABLE b (id TEXT)", stmts[2])

	assert.Empty(t, ParseSQLStatements("-- nothing here\n;;"))
}

func TestCheckRows(t *testing.T) {
	assert.NoError(t, CheckRows(dataset.SaleItems, [][]interface{}{{"s", "p", int64(1)}}))
	assert.Error(t, CheckRows(dataset.SaleItems, [][]interface{}{{"s", "p"}}))
}

func TestQuoteColumns(t *testing.T) {
	quoted := QuoteColumns(dataset.Products, func(s string) string { return "[" + s + "]" })
	assert.Equal(t, []string{"[product_id]", "[name]"}, quoted)
}
