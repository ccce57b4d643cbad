// Package accounts provisions new users into either credential schema.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/credentials"
	"github.com/dmitrijs2005/credseal/internal/cryptox"
	"github.com/dmitrijs2005/credseal/internal/dbx"
	"github.com/dmitrijs2005/credseal/internal/logging"
	"github.com/dmitrijs2005/credseal/internal/models"
	"github.com/dmitrijs2005/credseal/internal/repositories/repomanager"
)

const maxUsernameLen = 255

var ErrInvalidUsername = errors.New("invalid username")

// CredentialCreator is satisfied by *auth.Service.
type CredentialCreator interface {
	CreateCredential(ctx context.Context, password string) (string, error)
}

type NewUser struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
	Schema   credentials.Schema
}

type Provisioner struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	creator CredentialCreator
	log     logging.Logger
}

func NewProvisioner(db *sql.DB, m repomanager.RepositoryManager, c CredentialCreator, logger logging.Logger) *Provisioner {
	return &Provisioner{db: db, repos: m, creator: c, log: logger.With("module", "accounts")}
}

// CreateUser seals the password and inserts the account into u.Schema. A
// username already present in either schema is rejected with
// common.ErrorAlreadyExists. Both tables must exist, so run migrations
// first.
func (p *Provisioner) CreateUser(ctx context.Context, u NewUser) (int64, error) {
	username := strings.TrimSpace(u.Username)
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLen {
		return 0, ErrInvalidUsername
	}

	sealed, err := p.creator.CreateCredential(ctx, u.Password)
	if err != nil {
		return 0, fmt.Errorf("error creating credential: %w", err)
	}

	var id int64
	err = dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := p.ensureAbsent(ctx, tx, username); err != nil {
			return err
		}

		switch u.Schema {
		case credentials.SchemaPrimary:
			keyID, blob := cryptox.SplitKeyID(sealed)
			role := models.RoleUser
			if u.IsAdmin {
				role = models.RoleAdmin
			}
			created, err := p.repos.Primary(tx).Create(ctx, &models.User{
				Username:   username,
				Email:      nullString(u.Email),
				SealedHash: blob,
				KeyID:      sql.NullString{String: keyID, Valid: keyID != ""},
				Role:       role,
				Active:     true,
			})
			if err != nil {
				return err
			}
			id = created.ID

		case credentials.SchemaLegacy:
			created, err := p.repos.Legacy(tx).Create(ctx, &models.Login{
				Username: username,
				Email:    nullString(u.Email),
				Password: sealed,
				IsAdmin:  u.IsAdmin,
			})
			if err != nil {
				return err
			}
			id = created.ID

		default:
			return fmt.Errorf("unknown schema %v", u.Schema)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	p.log.Info(ctx, "user created", "username", username, "schema", u.Schema.String(), "is_admin", u.IsAdmin)
	return id, nil
}

func (p *Provisioner) ensureAbsent(ctx context.Context, tx dbx.DBTX, username string) error {
	_, err := p.repos.Primary(tx).GetUserByLogin(ctx, username)
	if err == nil {
		return fmt.Errorf("%w: %s in primary schema", common.ErrorAlreadyExists, username)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	_, err = p.repos.Legacy(tx).GetUserByLogin(ctx, username)
	if err == nil {
		return fmt.Errorf("%w: %s in legacy schema", common.ErrorAlreadyExists, username)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
