// Package primary stores credentials in the current "users" table.
package primary

import (
	"context"

	"github.com/dmitrijs2005/credseal/internal/models"
)

// Repository reads and inserts rows of the users table.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)
}
