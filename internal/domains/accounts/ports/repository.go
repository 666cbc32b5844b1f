package ports

import (
	"context"
	"errors"

	"github.com/metalsdesk/admin-api/internal/domains/accounts/domain"
)

var ErrNotFound = errors.New("user not found")

// Repository is the accounts persistence port.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
