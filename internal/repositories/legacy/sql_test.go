package legacy

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/dbx"
	"github.com/dmitrijs2005/credseal/internal/models"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+user_logins\s*\(username,\s*email,\s*password,\s*is_admin\)\s*VALUES\s*\(\?,\s*\?,\s*\?,\s*\?\)\s*RETURNING\s+id\s*$`
	selectQ = `(?s)^SELECT\s+id,\s*username,\s*email,\s*password,\s*is_admin\s+FROM\s+user_logins\s+WHERE\s+username\s*=\s*\?\s*$`
)

// SQLite keeps '?' placeholders, so these tests also cover the no-op rebind.
func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db, dbx.DialectSQLite), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	l := &models.Login{Username: "bob", Password: "k1:AAAA", IsAdmin: true}
	mock.ExpectQuery(insertQ).
		WithArgs("bob", l.Email, "k1:AAAA", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	got, err := repo.Create(context.Background(), l)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 3 {
		t.Fatalf("unexpected login: %+v", got)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: user_logins.username (2067)"))

	_, err := repo.Create(context.Background(), &models.Login{Username: "bob"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestGetUserByLogin_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password", "is_admin"}).
		AddRow(int64(1), "bob", "bob@example.com", "k1:AAAA", false)
	mock.ExpectQuery(selectQ).WithArgs("bob").WillReturnRows(rows)

	got, err := repo.GetUserByLogin(context.Background(), "bob")
	if err != nil {
		t.Fatalf("GetUserByLogin error: %v", err)
	}
	if got.Password != "k1:AAAA" || got.IsAdmin || got.Email.String != "bob@example.com" {
		t.Fatalf("unexpected login: %+v", got)
	}
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetUserByLogin_MissingTable(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("bob").
		WillReturnError(errors.New("SQL logic error: no such table: user_logins (1)"))

	_, err := repo.GetUserByLogin(context.Background(), "bob")
	if !errors.Is(err, common.ErrSchemaUnavailable) {
		t.Fatalf("want ErrSchemaUnavailable, got %v", err)
	}
	if !regexp.MustCompile(`db error: `).MatchString(err.Error()) {
		t.Fatalf("expected db error prefix, got %v", err)
	}
}
