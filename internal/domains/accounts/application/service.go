// Package application implements login and token verification for admin users.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/metalsdesk/admin-api/internal/domains/accounts/domain"
	"github.com/metalsdesk/admin-api/internal/domains/accounts/ports"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameTaken      = errors.New("username already taken")
)

// Service issues and verifies HS256 tokens backed by the user repository.
type Service struct {
	repo     ports.Repository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(repo ports.Repository, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Returns the service for chaining.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Login(ctx context.Context, username, password string) (ports.TokenPair, error) {
	user, err := s.repo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.TokenPair{}, ErrInvalidCredentials
		}
		return ports.TokenPair{}, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ports.TokenPair{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  user.Username,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("signing token: %w", err)
	}
	return ports.TokenPair{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) VerifyToken(_ context.Context, tokenString string) (ports.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return ports.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ports.Identity{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return ports.Identity{}, ErrInvalidToken
	}
	return ports.Identity{Username: sub, Role: domain.Role(role)}, nil
}

func (s *Service) Register(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := domain.NewUser(username, email, role, string(hash))
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUsername(ctx, user.Username)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	return s.repo.Save(ctx, user)
}

var _ ports.Service = (*Service)(nil)
