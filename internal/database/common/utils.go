package common

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
)

var (
	commentRegex = regexp.MustCompile(`(?m)^\s*--.*$`)
	stringRegex  = regexp.MustCompile(`'(?:[^']|'')*'|"(?:[^"]|"")*"|` + "`(?:[^`]|``)*`")
)

// ParseSQLStatements splits a script on semicolons that are outside string
// literals and drops line comments.
func ParseSQLStatements(sql string) []string {
	sql = commentRegex.ReplaceAllString(sql, "")

	inString := make(map[int]bool)
	for _, match := range stringRegex.FindAllStringIndex(sql, -1) {
		for i := match[0]; i < match[1]; i++ {
			inString[i] = true
		}
	}

	statements := make([]string, 0, strings.Count(sql, ";")+1)
	var current strings.Builder
	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" && !strings.HasPrefix(stmt, "/*") {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i, char := range sql {
		if char == ';' && !inString[i] {
			flush()
			continue
		}
		current.WriteRune(char)
	}
	flush()

	return statements
}

// QuoteColumns quotes every column of t with quote.
func QuoteColumns(t dataset.Table, quote func(string) string) []string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quote(c)
	}
	return cols
}

// CheckRows rejects rows whose width differs from the table's column count.
func CheckRows(t dataset.Table, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d of %s has %d values, want %d", i, t.Name, len(row), len(t.Columns))
		}
	}
	return nil
}
