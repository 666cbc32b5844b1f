package ports

import (
	"context"
	"time"

	"github.com/metalsdesk/admin-api/internal/domains/accounts/domain"
)

// TokenPair is the issued credential plus its expiry.
type TokenPair struct {
	Token     string
	ExpiresAt time.Time
}

// Identity is the verified caller derived from a token.
type Identity struct {
	Username string
	Role     domain.Role
}

// Service is the accounts use-case port.
type Service interface {
	Login(ctx context.Context, username, password string) (TokenPair, error)
	VerifyToken(ctx context.Context, token string) (Identity, error)
	Register(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error)
}
