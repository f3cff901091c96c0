package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/application"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/go-gin-inventory-server/internal/platform/postgres"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/filter"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

var filterColumns = map[string]string{
	application.FieldStatus:    "status",
	application.FieldProductID: "product_id",
}

// Repository persists orders in PostgreSQL using GORM. The schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	ProductID int64     `gorm:"column:product_id;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Status    string    `gorm:"column:status;type:varchar(32);not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Save inserts or updates an order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"product_id": record.ProductID,
				"quantity":   record.Quantity,
				"status":     record.Status,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, record.ID)
}

// FindByID fetches an order by identifier.
func (r *Repository) FindByID(ctx context.Context, id int64) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// DeleteByID removes an order; missing rows are not an error.
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&orderRecord{}, id).Error
}

// FindAll returns every order ordered by id.
func (r *Repository) FindAll(ctx context.Context) ([]*ports.OrderProjection, error) {
	return r.FindAllMatching(ctx, filter.All[*domain.Order]())
}

// FindAllMatching returns the orders satisfying every criterion of f.
func (r *Repository) FindAllMatching(ctx context.Context, f filter.Filter[*domain.Order]) ([]*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query, err := platformpostgres.ApplyFilter(r.db.WithContext(ctx), f, filterColumns)
	if err != nil {
		return nil, err
	}
	return r.find(query)
}

// FindByStatus returns the orders currently in status.
func (r *Repository) FindByStatus(ctx context.Context, status domain.Status) ([]*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(r.db.WithContext(ctx).Where("status = ?", string(status)))
}

func (r *Repository) find(query *gorm.DB) ([]*ports.OrderProjection, error) {
	var records []orderRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*ports.OrderProjection, 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:        order.ID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
		Status:    string(order.Status),
	}
}

func (r orderRecord) toProjection() *ports.OrderProjection {
	order := &domain.Order{
		ID:        r.ID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Status:    domain.Status(r.Status),
	}
	return projection.New(order, r.CreatedAt, r.UpdatedAt)
}
