package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// DefaultAuditRetention is how long audit rows are kept when no retention
// is configured.
const DefaultAuditRetention = 90 * 24 * time.Hour

// AuditStore manages the audit_log table lifecycle.
type AuditStore struct {
	db        *gorm.DB
	retention time.Duration
}

func NewAuditStore(db *gorm.DB, retention time.Duration) *AuditStore {
	if retention <= 0 {
		retention = DefaultAuditRetention
	}
	store := &AuditStore{db: db, retention: retention}
	if db != nil {
		_ = db.AutoMigrate(&auditRecord{})
	}
	return store
}

// PurgeExpired deletes audit rows older than the retention window and
// returns how many were removed.
func (s *AuditStore) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("postgres audit store not configured")
	}
	cutoff := time.Now().UTC().Add(-s.retention)
	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&auditRecord{})
	return result.RowsAffected, result.Error
}
