// Package repomanager opens the credential database, applies the embedded
// goose migrations and vends dialect-aware repositories.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/credseal/internal/dbx"
	"github.com/dmitrijs2005/credseal/internal/repositories/legacy"
	"github.com/dmitrijs2005/credseal/internal/repositories/primary"
)

type RepositoryManager interface {
	Dialect() string
	RunMigrations(context.Context, *sql.DB) error
	Primary(db dbx.DBTX) primary.Repository
	Legacy(db dbx.DBTX) legacy.Repository
}
