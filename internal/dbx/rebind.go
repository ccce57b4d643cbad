package dbx

import (
	"strconv"
	"strings"
)

// Dialects understood by Rebind and the repository manager.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Rebind rewrites '?' placeholders into the positional form the dialect
// expects. Queries are written once with '?' and rebound per dialect.
// Question marks inside single-quoted literals are left alone.
func Rebind(dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
