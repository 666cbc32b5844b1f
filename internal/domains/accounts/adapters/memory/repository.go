package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/metalsdesk/admin-api/internal/domains/accounts/domain"
	"github.com/metalsdesk/admin-api/internal/domains/accounts/ports"
)

// Repository is an in-memory user store used in tests and when no
// database is configured.
type Repository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	now   func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		users: make(map[string]*domain.User),
		now:   time.Now,
	}
}

func (r *Repository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return u.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := user.Clone()
	now := r.now()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.users[stored.ID] = stored
	return stored.Clone(), nil
}

var _ ports.Repository = (*Repository)(nil)
