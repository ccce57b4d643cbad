package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/credseal/internal/dbx"
	"github.com/dmitrijs2005/credseal/internal/migrations"
	"github.com/dmitrijs2005/credseal/internal/repositories/legacy"
	"github.com/dmitrijs2005/credseal/internal/repositories/primary"
)

// gooseDialects maps our dialect names to goose's and to the migrations
// directory inside the embedded FS.
var gooseDialects = map[string]string{
	dbx.DialectPostgres: "pgx",
	dbx.DialectSQLite:   "sqlite3",
}

// SQLRepositoryManager serves both supported dialects; only placeholder
// style and migration set differ between them.
type SQLRepositoryManager struct {
	dialect string
}

// NewRepositoryManager returns a manager for dialect, or an error if the
// dialect is not supported.
func NewRepositoryManager(dialect string) (RepositoryManager, error) {
	if _, ok := gooseDialects[dialect]; !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	return &SQLRepositoryManager{dialect: dialect}, nil
}

func (m *SQLRepositoryManager) Dialect() string { return m.dialect }

// Primary returns a primary.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Primary(db dbx.DBTX) primary.Repository {
	return primary.NewSQLRepository(db, m.dialect)
}

// Legacy returns a legacy.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Legacy(db dbx.DBTX) legacy.Repository {
	return legacy.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations for the
// manager's dialect and applies them.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(gooseDialects[m.dialect]); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, m.dialect); err != nil {
		return err
	}
	return nil
}
