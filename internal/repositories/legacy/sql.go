package legacy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/dbx"
	"github.com/dmitrijs2005/credseal/internal/models"
)

// SQLRepository implements Repository over database/sql for postgres and sqlite.
type SQLRepository struct {
	db      dbx.DBTX
	dialect string
}

// NewSQLRepository binds a repository to db. dialect selects the placeholder style.
func NewSQLRepository(db dbx.DBTX, dialect string) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, login *models.Login) (*models.Login, error) {
	query := dbx.Rebind(r.dialect,
		`INSERT INTO user_logins (username, email, password, is_admin)
		 VALUES (?, ?, ?, ?)
		 RETURNING id
		 `)

	err := r.db.QueryRowContext(ctx, query,
		login.Username, login.Email, login.Password, login.IsAdmin).Scan(&login.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return login, nil
}

func (r *SQLRepository) GetUserByLogin(ctx context.Context, username string) (*models.Login, error) {
	query := dbx.Rebind(r.dialect,
		`SELECT id, username, email, password, is_admin FROM user_logins
		 WHERE username = ?
		 `)

	login := &models.Login{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&login.ID, &login.Username, &login.Email, &login.Password, &login.IsAdmin)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return login, nil
}
