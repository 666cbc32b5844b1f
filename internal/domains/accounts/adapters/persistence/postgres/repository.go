// Package postgres persists admin users in PostgreSQL using GORM.
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metalsdesk/admin-api/internal/domains/accounts/domain"
	"github.com/metalsdesk/admin-api/internal/domains/accounts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the PostgreSQL accounts adapter. Caller manages DB lifecycle.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the adapter and ensures its schema exists.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&userRecord{})
	}
	return repo
}

type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:uuid"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	Email        string    `gorm:"column:email"`
	Role         string    `gorm:"column:role;type:varchar(16)"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "admin_users" }

func (r *Repository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}

	record := toRecord(user)
	now := time.Now().UTC()
	record.UpdatedAt = now
	if record.ID == "" {
		record.ID = uuid.NewString()
		record.CreatedAt = now
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
	} else {
		if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, record.ID)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres accounts repository not configured")
	}
	return nil
}

func toRecord(u *domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (record userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           record.ID,
		Username:     record.Username,
		Email:        record.Email,
		Role:         domain.Role(record.Role),
		PasswordHash: record.PasswordHash,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}
