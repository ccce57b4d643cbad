package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/dbx"
	"github.com/dmitrijs2005/credseal/internal/models"
)

func openSQLite(t *testing.T) (*sql.DB, RepositoryManager) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "credseal.db")

	db, err := Open(context.Background(), dbx.DialectSQLite, "file:"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := NewRepositoryManager(dbx.DialectSQLite)
	require.NoError(t, err)
	return db, m
}

func TestSQLite_MissingTablesBeforeMigration(t *testing.T) {
	db, m := openSQLite(t)
	ctx := context.Background()

	_, err := m.Primary(db).GetUserByLogin(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrSchemaUnavailable)

	_, err = m.Legacy(db).GetUserByLogin(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrSchemaUnavailable)
}

func TestSQLite_MigrateAndRoundTrip(t *testing.T) {
	db, m := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx, db))
	// idempotent
	require.NoError(t, m.RunMigrations(ctx, db))

	u, err := m.Primary(db).Create(ctx, &models.User{
		Username:   "alice",
		SealedHash: "AAAA",
		KeyID:      sql.NullString{String: "k1", Valid: true},
		Role:       models.RoleAdmin,
		Active:     true,
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	got, err := m.Primary(db).GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "AAAA", got.SealedHash)
	assert.Equal(t, "k1", got.KeyID.String)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.True(t, got.Active)
	assert.False(t, got.Email.Valid)

	_, err = m.Primary(db).Create(ctx, &models.User{Username: "alice", SealedHash: "B", Role: models.RoleUser})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = m.Legacy(db).Create(ctx, &models.Login{Username: "bob", Password: "k1:BBBB", IsAdmin: true})
	require.NoError(t, err)

	l, err := m.Legacy(db).GetUserByLogin(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "k1:BBBB", l.Password)
	assert.True(t, l.IsAdmin)

	_, err = m.Legacy(db).GetUserByLogin(ctx, "carol")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	assert.Error(t, err)
}
