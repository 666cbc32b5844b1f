// Package postgres persists catalog products in PostgreSQL using GORM.
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/metalsdesk/admin-api/internal/domains/catalog/domain"
	"github.com/metalsdesk/admin-api/internal/domains/catalog/ports"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the PostgreSQL catalog adapter. Caller manages DB lifecycle.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the adapter and ensures its schema exists.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return repo
}

type productRecord struct {
	ID            string          `gorm:"primaryKey;column:id;type:uuid"`
	SKU           string          `gorm:"column:sku;uniqueIndex"`
	Name          string          `gorm:"column:name"`
	MetalCode     string          `gorm:"column:metal_code;type:varchar(8);index"`
	WeightTroyOz  decimal.Decimal `gorm:"column:weight_troy_oz;type:numeric(20,8)"`
	Purity        decimal.Decimal `gorm:"column:purity;type:numeric(9,8)"`
	PriceAmount   decimal.Decimal `gorm:"column:price_amount;type:numeric(20,8)"`
	PriceCurrency string          `gorm:"column:price_currency;type:varchar(8)"`
	ImageURLs     pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "catalog_products" }

func (r *Repository) List(ctx context.Context, filter ports.ListFilter, page pagination.PageRequest) ([]*domain.Product, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}

	base := applyFilter(r.db.WithContext(ctx).Model(&productRecord{}), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var records []productRecord
	query := applyFilter(r.db.WithContext(ctx).Model(&productRecord{}), filter)
	if err := query.
		Order("created_at, sku").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, total, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	err := r.db.WithContext(ctx).
		Where("upper(sku) = ?", strings.ToUpper(strings.TrimSpace(sku))).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Save(ctx context.Context, product *domain.Product, _ string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}

	record := toRecord(product)
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
	return r.GetByID(ctx, record.ID)
}

// Delete removes a product; an absent id is a silent no-op.
func (r *Repository) Delete(ctx context.Context, id string, _ string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func applyFilter(query *gorm.DB, filter ports.ListFilter) *gorm.DB {
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(sku) LIKE ?", needle, needle)
	}
	if filter.MetalCode != "" {
		query = query.Where("metal_code = ?", string(filter.MetalCode))
	}
	if filter.Currency != "" {
		query = query.Where("upper(price_currency) = ?", strings.ToUpper(filter.Currency))
	}
	return query
}

func toRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		MetalCode:     string(p.MetalCode),
		WeightTroyOz:  p.WeightTroyOz,
		Purity:        p.Purity,
		PriceAmount:   p.PriceAmount,
		PriceCurrency: p.PriceCurrency,
		ImageURLs:     pq.StringArray(p.ImageURLs),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (record productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:            record.ID,
		SKU:           record.SKU,
		Name:          record.Name,
		MetalCode:     domain.MetalCode(record.MetalCode),
		WeightTroyOz:  record.WeightTroyOz,
		Purity:        record.Purity,
		PriceAmount:   record.PriceAmount,
		PriceCurrency: record.PriceCurrency,
		ImageURLs:     []string(record.ImageURLs),
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}
