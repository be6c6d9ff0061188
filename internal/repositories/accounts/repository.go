// Package accounts persists registered accounts.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// Repository stores accounts keyed by id and by exact, case-sensitive
// username. Create returns common.ErrDuplicateUsername when the username is
// taken; GetByUsername returns common.ErrorNotFound when it is not.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
}
