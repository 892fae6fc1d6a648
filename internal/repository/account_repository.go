package repository

import (
	"context"
	"errors"

	"github.com/example/taskflow/internal/models"
)

// ErrNotFound is returned when no account matches a lookup.
var ErrNotFound = errors.New("record not found")

// AccountFilter narrows List results. Nil pointers mean "any".
type AccountFilter struct {
	Active   *bool
	Verified *bool
	Search   string
	SortDesc bool
	Offset   int
	Limit    int
}

// AccountStore persists accounts. Email uniqueness is enforced by the store
// itself; a violating Create returns the store's constraint error unchanged.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) error
	List(ctx context.Context, filter AccountFilter) ([]models.Account, int64, error)
}
