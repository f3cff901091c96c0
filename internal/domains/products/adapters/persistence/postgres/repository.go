package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/application"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
	platformpostgres "github.com/Apurer/go-gin-inventory-server/internal/platform/postgres"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/filter"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// filterColumns maps filterable product fields to table columns.
var filterColumns = map[string]string{
	application.FieldName:     "name",
	application.FieldCategory: "category",
}

// Repository persists products in PostgreSQL using GORM. The schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":           record.Name,
				"description":    record.Description,
				"price":          record.Price,
				"stock_quantity": record.StockQuantity,
				"category":       record.Category,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateName
		}
		return nil, err
	}
	return r.FindByID(ctx, record.ID)
}

// FindByID fetches a product by identifier.
func (r *Repository) FindByID(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// DeleteByID removes a product; missing rows are not an error.
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&productRecord{}, id).Error
}

// FindAll returns every product ordered by id.
func (r *Repository) FindAll(ctx context.Context) ([]*ports.ProductProjection, error) {
	return r.FindAllMatching(ctx, filter.All[*domain.Product]())
}

// FindAllMatching returns the products satisfying every criterion of f.
func (r *Repository) FindAllMatching(ctx context.Context, f filter.Filter[*domain.Product]) ([]*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query, err := platformpostgres.ApplyFilter(r.db.WithContext(ctx), f, filterColumns)
	if err != nil {
		return nil, err
	}
	return r.find(query)
}

// FindByNameContainingAndCategoryContaining matches case-sensitive substrings on name and category.
func (r *Repository) FindByNameContainingAndCategoryContaining(ctx context.Context, name, category string) ([]*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Where("name LIKE ?", platformpostgres.ContainsPattern(name)).
		Where("category LIKE ?", platformpostgres.ContainsPattern(category))
	return r.find(query)
}

func (r *Repository) find(query *gorm.DB) ([]*ports.ProductProjection, error) {
	var records []productRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*ports.ProductProjection, 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Category:      product.Category,
	}
}

func (r productRecord) toProjection() *ports.ProductProjection {
	product := &domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Category:      r.Category,
	}
	return projection.New(product, r.CreatedAt, r.UpdatedAt)
}
