package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrUnknownRole      = errors.New("role must be admin or operator")
)

// Role scopes what an authenticated user may do. Admins manage accounts,
// operators manage custody services and the catalog.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOperator
}

// User is an administrative account. PasswordHash is a bcrypt hash and is
// never exposed over transport.
type User struct {
	ID           string
	Username     string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a validated user. The password hash is supplied by the
// caller so the domain stays free of crypto concerns.
func NewUser(username, email string, role Role, passwordHash string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, ErrUsernameRequired
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !role.Valid() {
		return nil, ErrUnknownRole
	}
	return &User{
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash,
	}, nil
}

// Clone returns a copy detached from the receiver.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
