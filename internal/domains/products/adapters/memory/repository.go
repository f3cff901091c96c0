package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/filter"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*ports.ProductProjection
	nextID   int64
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*ports.ProductProjection{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.products {
		if id != clone.ID && existing.Entity.Name == clone.Name {
			return nil, ports.ErrDuplicateName
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	now := r.now()
	createdAt := now
	if existing, ok := r.products[clone.ID]; ok {
		createdAt = existing.Metadata.CreatedAt
	}
	stored := projection.New(&clone, createdAt, now)
	r.products[clone.ID] = stored
	return cloneProjection(stored), nil
}

func (r *Repository) FindByID(_ context.Context, id int64) (*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneProjection(stored), nil
}

func (r *Repository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *Repository) FindAll(ctx context.Context) ([]*ports.ProductProjection, error) {
	return r.FindAllMatching(ctx, filter.All[*domain.Product]())
}

func (r *Repository) FindAllMatching(_ context.Context, f filter.Filter[*domain.Product]) ([]*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(f.Matches), nil
}

func (r *Repository) FindByNameContainingAndCategoryContaining(_ context.Context, name, category string) ([]*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(p *domain.Product) bool {
		return strings.Contains(p.Name, name) && strings.Contains(p.Category, category)
	}), nil
}

// collect returns clones ordered by id; callers hold the read lock.
func (r *Repository) collect(match func(*domain.Product) bool) []*ports.ProductProjection {
	list := make([]*ports.ProductProjection, 0, len(r.products))
	for _, stored := range r.products {
		if match(stored.Entity) {
			list = append(list, cloneProjection(stored))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Entity.ID < list[j].Entity.ID })
	return list
}

func cloneProjection(src *ports.ProductProjection) *ports.ProductProjection {
	product := *src.Entity
	return projection.New(&product, src.Metadata.CreatedAt, src.Metadata.UpdatedAt)
}
