package primary

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

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := dbx.Rebind(r.dialect,
		`INSERT INTO users (username, email, password_hash_enc, k_id, role, active)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id
		 `)

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.SealedHash, user.KeyID, user.Role, user.Active).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return user, nil
}

func (r *SQLRepository) GetUserByLogin(ctx context.Context, username string) (*models.User, error) {
	query := dbx.Rebind(r.dialect,
		`SELECT id, username, email, password_hash_enc, k_id, role, active FROM users
		 WHERE username = ?
		 `)

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.SealedHash, &user.KeyID, &user.Role, &user.Active)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return user, nil
}
