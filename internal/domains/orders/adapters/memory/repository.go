package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/filter"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps orders in memory.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*ports.OrderProjection
	nextID int64
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*ports.OrderProjection{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	now := r.now()
	createdAt := now
	if existing, ok := r.orders[clone.ID]; ok {
		createdAt = existing.Metadata.CreatedAt
	}
	stored := projection.New(clone, createdAt, now)
	r.orders[clone.ID] = stored
	return cloneProjection(stored), nil
}

func (r *Repository) FindByID(_ context.Context, id int64) (*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneProjection(stored), nil
}

func (r *Repository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *Repository) FindAll(ctx context.Context) ([]*ports.OrderProjection, error) {
	return r.FindAllMatching(ctx, filter.All[*domain.Order]())
}

func (r *Repository) FindAllMatching(_ context.Context, f filter.Filter[*domain.Order]) ([]*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(f.Matches), nil
}

func (r *Repository) FindByStatus(_ context.Context, status domain.Status) ([]*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(o *domain.Order) bool { return o.Status == status }), nil
}

// collect returns clones ordered by id; callers hold the read lock.
func (r *Repository) collect(match func(*domain.Order) bool) []*ports.OrderProjection {
	list := make([]*ports.OrderProjection, 0, len(r.orders))
	for _, stored := range r.orders {
		if match(stored.Entity) {
			list = append(list, cloneProjection(stored))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Entity.ID < list[j].Entity.ID })
	return list
}

func cloneProjection(src *ports.OrderProjection) *ports.OrderProjection {
	return projection.New(src.Entity.Clone(), src.Metadata.CreatedAt, src.Metadata.UpdatedAt)
}
