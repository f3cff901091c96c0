package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Repositories never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderIdempotencyKeyRecord{},
	)
}

// Product schema mirrors the products Postgres adapter.
type productRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	Name          string    `gorm:"column:name;not null;uniqueIndex"`
	Description   string    `gorm:"column:description"`
	Price         float64   `gorm:"column:price;not null"`
	StockQuantity int       `gorm:"column:stock_quantity;not null"`
	Category      string    `gorm:"column:category;index"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	ProductID int64     `gorm:"column:product_id;not null;index:idx_orders_status_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Status    string    `gorm:"column:status;type:varchar(32);not null;index:idx_orders_status_product"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// Placement idempotency keys mirror the orders idempotency store.
type orderIdempotencyKeyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128;not null"`
	OrderID     int64     `gorm:"column:order_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyKeyRecord) TableName() string { return "order_idempotency_keys" }
