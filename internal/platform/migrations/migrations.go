package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&custodyServiceRecord{},
		&custodianRecord{},
		&currencyRecord{},
		&positionRecord{},
		&auditRecord{},
		&productRecord{},
		&userRecord{},
	)
}

// Custody schema mirrors the custody Postgres adapter. The composite unique
// index on (custodian_id, name_key) backs the per-custodian name rule.
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

// Catalog schema mirrors the catalog Postgres adapter.
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

// Accounts schema mirrors the accounts Postgres adapter.
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
