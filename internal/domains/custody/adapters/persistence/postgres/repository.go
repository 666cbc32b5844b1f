// Package postgres persists custody services in PostgreSQL using GORM.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/metalsdesk/admin-api/internal/domains/custody/domain"
	"github.com/metalsdesk/admin-api/internal/domains/custody/ports"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the PostgreSQL custody adapter. Caller manages DB lifecycle.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the adapter and ensures its schema exists.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(
			&custodyServiceRecord{},
			&custodianRecord{},
			&currencyRecord{},
			&positionRecord{},
			&auditRecord{},
		)
	}
	return repo
}

// custodyServiceRecord maps the entity to its relational table. NameKey holds
// the lowercased trimmed name so the composite unique index is the
// authoritative defense against concurrent duplicate creations.
type custodyServiceRecord struct {
	ID               string           `gorm:"primaryKey;column:id;type:uuid"`
	CustodianID      string           `gorm:"column:custodian_id;type:uuid;index;uniqueIndex:ux_custody_service_name"`
	Name             string           `gorm:"column:name"`
	NameKey          string           `gorm:"column:name_key;uniqueIndex:ux_custody_service_name"`
	Fee              decimal.Decimal  `gorm:"column:fee;type:numeric(20,8)"`
	PaymentFrequency string           `gorm:"column:payment_frequency;type:varchar(16)"`
	CurrencyCode     string           `gorm:"column:currency_code;type:varchar(8)"`
	CurrencyID       int64            `gorm:"column:currency_id"`
	MinWeight        *decimal.Decimal `gorm:"column:min_weight;type:numeric(20,8)"`
	MaxWeight        *decimal.Decimal `gorm:"column:max_weight;type:numeric(20,8)"`
	CreatedAt        time.Time        `gorm:"column:created_at;index"`
	UpdatedAt        time.Time        `gorm:"column:updated_at"`
}

func (custodyServiceRecord) TableName() string { return "custody_services" }

type custodianRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:uuid"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (custodianRecord) TableName() string { return "custodians" }

type currencyRecord struct {
	ID   int64  `gorm:"primaryKey;column:id;autoIncrement"`
	Code string `gorm:"column:code;type:varchar(8);uniqueIndex"`
	Name string `gorm:"column:name"`
}

func (currencyRecord) TableName() string { return "currencies" }

// positionRecord tracks metal holdings referencing a custody service.
// The custody context only ever counts open rows; position lifecycle is
// owned elsewhere.
type positionRecord struct {
	ID               string    `gorm:"primaryKey;column:id;type:uuid"`
	CustodyServiceID string    `gorm:"column:custody_service_id;type:uuid;index"`
	Status           string    `gorm:"column:status;type:varchar(16);index"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (positionRecord) TableName() string { return "custody_positions" }

type auditRecord struct {
	ID        int64     `gorm:"primaryKey;column:id;autoIncrement"`
	Actor     string    `gorm:"column:actor"`
	Action    string    `gorm:"column:action;type:varchar(32)"`
	Entity    string    `gorm:"column:entity;type:varchar(32)"`
	EntityID  string    `gorm:"column:entity_id"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (auditRecord) TableName() string { return "audit_log" }

const positionStatusOpen = "open"

// serviceRow carries a service record plus the joined custodian name.
type serviceRow struct {
	custodyServiceRecord
	CustodianName string `gorm:"column:custodian_name"`
}

func (r *Repository) FindAll(ctx context.Context, filter ports.ListFilter, page pagination.PageRequest) ([]*domain.CustodyService, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}

	base := r.db.WithContext(ctx).Model(&custodyServiceRecord{})
	base = applyFilter(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var rows []serviceRow
	query := r.joined(ctx)
	query = applyFilter(query, filter)
	if err := query.
		Order("custody_services.created_at, custody_services.name, custody_services.id").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toDomainList(rows), total, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.CustodyService, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row serviceRow
	err := r.joined(ctx).
		Where("custody_services.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *Repository) FindByCustodian(ctx context.Context, custodianID string) ([]*domain.CustodyService, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []serviceRow
	if err := r.joined(ctx).
		Where("custody_services.custodian_id = ?", custodianID).
		Order("custody_services.created_at, custody_services.name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainList(rows), nil
}

// FindDefault resolves the home-delivery custodian by display name and
// returns its oldest service. The naming convention mirrors how the default
// arrangement is marked upstream.
func (r *Repository) FindDefault(ctx context.Context) (*domain.CustodyService, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row serviceRow
	err := r.joined(ctx).
		Where("lower(custodians.name) LIKE ?", "%home delivery%").
		Order("custody_services.created_at").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *Repository) GroupByCustodian(ctx context.Context) ([]ports.CustodianGroup, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []serviceRow
	if err := r.joined(ctx).
		Where("custodians.name IS NOT NULL AND btrim(custodians.name) <> ''").
		Order("custodians.name, custody_services.created_at").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	var groups []ports.CustodianGroup
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.CustodianID]
		if !ok {
			groups = append(groups, ports.CustodianGroup{
				CustodianID:   row.CustodianID,
				CustodianName: row.CustodianName,
			})
			i = len(groups) - 1
			index[row.CustodianID] = i
		}
		groups[i].Services = append(groups[i].Services, row.toDomain())
	}
	return groups, nil
}

func (r *Repository) Create(ctx context.Context, svc *domain.CustodyService, actor string) (*domain.CustodyService, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, errors.New("custody service is nil")
	}

	record := toRecord(svc)
	record.ID = uuid.NewString()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	r.writeAudit(ctx, actor, "create", record.ID)
	return r.FindByID(ctx, record.ID)
}

func (r *Repository) Update(ctx context.Context, id string, req domain.UpdateRequest, actor string) (*domain.CustodyService, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}

	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := existing.Apply(req); err != nil {
		return nil, err
	}
	if req.Currency != nil {
		currencyID, ok, err := r.ResolveCurrency(ctx, existing.Currency)
		if err != nil {
			return nil, err
		}
		if ok {
			existing.CurrencyID = currencyID
		}
	}

	record := toRecord(existing)
	record.ID = id
	record.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).
		Model(&custodyServiceRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"custodian_id":      record.CustodianID,
			"name":              record.Name,
			"name_key":          record.NameKey,
			"fee":               record.Fee,
			"payment_frequency": record.PaymentFrequency,
			"currency_code":     record.CurrencyCode,
			"currency_id":       record.CurrencyID,
			"min_weight":        record.MinWeight,
			"max_weight":        record.MaxWeight,
			"updated_at":        record.UpdatedAt,
		}).Error; err != nil {
		return nil, err
	}
	r.writeAudit(ctx, actor, "update", id)
	return r.FindByID(ctx, id)
}

// Delete removes a service; an absent id is a silent no-op.
func (r *Repository) Delete(ctx context.Context, id string, actor string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&custodyServiceRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		r.writeAudit(ctx, actor, "delete", id)
	}
	return nil
}

func (r *Repository) CanDelete(ctx context.Context, id string) (ports.DeleteCheck, error) {
	if err := r.ensureDB(); err != nil {
		return ports.DeleteCheck{}, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&positionRecord{}).
		Where("custody_service_id = ? AND status = ?", id, positionStatusOpen).
		Count(&count).Error; err != nil {
		return ports.DeleteCheck{}, err
	}
	if count > 0 {
		return ports.DeleteCheck{
			Reason:          fmt.Sprintf("custody service has %d active position(s)", count),
			ActivePositions: count,
		}, nil
	}
	return ports.DeleteCheck{CanDelete: true}, nil
}

func (r *Repository) ServiceNameExists(ctx context.Context, custodianID, name, excludeID string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	query := r.db.WithContext(ctx).
		Model(&custodyServiceRecord{}).
		Where("custodian_id = ? AND name_key = ?", custodianID, nameKey(name))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CustodianExists(ctx context.Context, custodianID string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&custodianRecord{}).
		Where("id = ?", custodianID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ResolveCurrency(ctx context.Context, isoCode string) (int64, bool, error) {
	if err := r.ensureDB(); err != nil {
		return 0, false, err
	}
	var record currencyRecord
	err := r.db.WithContext(ctx).
		Where("upper(code) = ?", strings.ToUpper(strings.TrimSpace(isoCode))).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return record.ID, true, nil
}

func (r *Repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("custody_services").
		Select("custody_services.*, custodians.name AS custodian_name").
		Joins("LEFT JOIN custodians ON custodians.id = custody_services.custodian_id")
}

func (r *Repository) writeAudit(ctx context.Context, actor, action, entityID string) {
	// Audit failures never fail the business operation.
	_ = r.db.WithContext(ctx).Create(&auditRecord{
		Actor:     actor,
		Action:    action,
		Entity:    "custody_service",
		EntityID:  entityID,
		CreatedAt: time.Now().UTC(),
	}).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres custody repository not configured")
	}
	return nil
}

func applyFilter(query *gorm.DB, filter ports.ListFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("lower(custody_services.name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.CustodianID != "" {
		query = query.Where("custody_services.custodian_id = ?", filter.CustodianID)
	}
	if filter.PaymentFrequency != "" {
		query = query.Where("custody_services.payment_frequency = ?", string(filter.PaymentFrequency))
	}
	if filter.Currency != "" {
		query = query.Where("upper(custody_services.currency_code) = ?", strings.ToUpper(filter.Currency))
	}
	if filter.MinFee != nil {
		query = query.Where("custody_services.fee >= ?", *filter.MinFee)
	}
	if filter.MaxFee != nil {
		query = query.Where("custody_services.fee <= ?", *filter.MaxFee)
	}
	return query
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func toRecord(svc *domain.CustodyService) custodyServiceRecord {
	return custodyServiceRecord{
		ID:               svc.ID,
		CustodianID:      svc.CustodianID,
		Name:             svc.Name,
		NameKey:          nameKey(svc.Name),
		Fee:              svc.Fee,
		PaymentFrequency: string(svc.PaymentFrequency),
		CurrencyCode:     svc.Currency,
		CurrencyID:       svc.CurrencyID,
		MinWeight:        svc.MinWeight,
		MaxWeight:        svc.MaxWeight,
		CreatedAt:        svc.CreatedAt,
		UpdatedAt:        svc.UpdatedAt,
	}
}

func (row serviceRow) toDomain() *domain.CustodyService {
	svc := &domain.CustodyService{
		ID:               row.ID,
		CustodianID:      row.CustodianID,
		CustodianName:    row.CustodianName,
		Name:             row.Name,
		Fee:              row.Fee,
		PaymentFrequency: domain.PaymentFrequency(row.PaymentFrequency),
		Currency:         row.CurrencyCode,
		CurrencyID:       row.CurrencyID,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.MinWeight != nil {
		v := *row.MinWeight
		svc.MinWeight = &v
	}
	if row.MaxWeight != nil {
		v := *row.MaxWeight
		svc.MaxWeight = &v
	}
	return svc
}

func toDomainList(rows []serviceRow) []*domain.CustodyService {
	services := make([]*domain.CustodyService, 0, len(rows))
	for i := range rows {
		services = append(services, rows[i].toDomain())
	}
	return services
}
