// Package legacy reads and writes the older "user_logins" table, kept for
// accounts that predate the primary schema.
package legacy

import (
	"context"

	"github.com/dmitrijs2005/credseal/internal/models"
)

// Repository reads and inserts rows of the user_logins table.
type Repository interface {
	Create(ctx context.Context, login *models.Login) (*models.Login, error)
	GetUserByLogin(ctx context.Context, username string) (*models.Login, error)
}
