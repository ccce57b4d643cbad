package credentials

import (
	"context"

	"github.com/dmitrijs2005/credseal/internal/cryptox"
	"github.com/dmitrijs2005/credseal/internal/models"
	"github.com/dmitrijs2005/credseal/internal/repositories/legacy"
	"github.com/dmitrijs2005/credseal/internal/repositories/primary"
)

// PrimaryAdapter reads the users table. Rows written before key ids were
// tracked have a NULL k_id and are attributed to defaultKeyID.
type PrimaryAdapter struct {
	repo         primary.Repository
	defaultKeyID string
}

func NewPrimaryAdapter(repo primary.Repository, defaultKeyID string) *PrimaryAdapter {
	return &PrimaryAdapter{repo: repo, defaultKeyID: defaultKeyID}
}

func (a *PrimaryAdapter) Schema() Schema { return SchemaPrimary }

func (a *PrimaryAdapter) Fetch(ctx context.Context, username string) (*Record, error) {
	u, err := a.repo.GetUserByLogin(ctx, username)
	if err != nil {
		return nil, err
	}
	return a.normalize(u), nil
}

func (a *PrimaryAdapter) normalize(u *models.User) *Record {
	keyID := a.defaultKeyID
	if u.KeyID.Valid && u.KeyID.String != "" {
		keyID = u.KeyID.String
	}

	sealed := u.SealedHash
	if !cryptox.HasKeyID(sealed) {
		sealed = keyID + ":" + sealed
	}

	return &Record{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email.String,
		SealedHash: sealed,
		KeyID:      keyID,
		Origin:     SchemaPrimary,
		Role:       u.Role,
		IsAdmin:    models.IsAdminRole(u.Role),
		Active:     u.Active,
	}
}

// LegacyAdapter reads user_logins, whose password column already holds the
// complete sealed value.
type LegacyAdapter struct {
	repo legacy.Repository
}

func NewLegacyAdapter(repo legacy.Repository) *LegacyAdapter {
	return &LegacyAdapter{repo: repo}
}

func (a *LegacyAdapter) Schema() Schema { return SchemaLegacy }

func (a *LegacyAdapter) Fetch(ctx context.Context, username string) (*Record, error) {
	l, err := a.repo.GetUserByLogin(ctx, username)
	if err != nil {
		return nil, err
	}

	keyID, _ := cryptox.SplitKeyID(l.Password)

	role := models.RoleUser
	if l.IsAdmin {
		role = models.RoleAdmin
	}

	return &Record{
		ID:         l.ID,
		Username:   l.Username,
		Email:      l.Email.String,
		SealedHash: l.Password,
		KeyID:      keyID,
		Origin:     SchemaLegacy,
		Role:       role,
		IsAdmin:    l.IsAdmin,
		Active:     true,
	}, nil
}
