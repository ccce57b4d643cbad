package dbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		in      string
		want    string
	}{
		{
			name:    "sqlite untouched",
			dialect: DialectSQLite,
			in:      `SELECT a FROM t WHERE x = ? AND y = ?`,
			want:    `SELECT a FROM t WHERE x = ? AND y = ?`,
		},
		{
			name:    "postgres positional",
			dialect: DialectPostgres,
			in:      `INSERT INTO t (a, b, c) VALUES (?, ?, ?)`,
			want:    `INSERT INTO t (a, b, c) VALUES ($1, $2, $3)`,
		},
		{
			name:    "quoted question mark kept",
			dialect: DialectPostgres,
			in:      `SELECT '?' FROM t WHERE x = ?`,
			want:    `SELECT '?' FROM t WHERE x = $1`,
		},
		{
			name:    "two digit placeholders",
			dialect: DialectPostgres,
			in:      `VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			want:    `VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebind(tt.dialect, tt.in))
		})
	}
}
