package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/lifecycle"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
)

// AdvancePolicy decides which writes trigger a lifecycle step.
type AdvancePolicy int

const (
	// AdvanceOnCreateAndUpdate steps the order after every create and every update. Repeated updates
	// keep walking the order forward, including updates that only touch quantity.
	AdvanceOnCreateAndUpdate AdvancePolicy = iota
	// AdvanceOnCreate steps the order after create only; updates store the status as supplied.
	AdvanceOnCreate
)

func (p AdvancePolicy) String() string {
	switch p {
	case AdvanceOnCreateAndUpdate:
		return "create-and-update"
	case AdvanceOnCreate:
		return "create"
	default:
		return fmt.Sprintf("AdvancePolicy(%d)", int(p))
	}
}

// Service orchestrates the order use cases.
type Service struct {
	repo     ports.Repository
	engine   *lifecycle.Engine
	products ports.ProductLookup
	policy   AdvancePolicy
	logger   *slog.Logger
}

// Option configures the order service.
type Option func(*Service)

// WithAdvancePolicy selects when orders are advanced automatically.
func WithAdvancePolicy(policy AdvancePolicy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithProductLookup enables the product reference check on create and update.
func WithProductLookup(lookup ports.ProductLookup) Option {
	return func(s *Service) {
		s.products = lookup
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the order service. The engine must write through the same repository.
func NewService(repo ports.Repository, engine *lifecycle.Engine, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		engine: engine,
		policy: AdvanceOnCreateAndUpdate,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// CreateOrder stores a new order as PENDING and then advances it once.
func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	candidate := order.Clone()
	candidate.ID = 0
	candidate.Status = domain.StatusPending
	if err := candidate.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureProduct(ctx, candidate.ProductID); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, candidate)
	if err != nil {
		return nil, mapError(err)
	}
	return s.engine.Advance(ctx, saved)
}

// RetrieveOrder loads an order or fails with ports.ErrNotFound.
func (s *Service) RetrieveOrder(ctx context.Context, id int64) (*ports.OrderProjection, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return found, nil
}

// UpdateOrder overwrites product reference, quantity and status, then advances according to the policy.
func (s *Service) UpdateOrder(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	existing, err := s.RetrieveOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	current := existing.Entity.Clone()
	current.ApplyChanges(order)
	if err := current.Validate(); err != nil {
		return nil, mapError(err)
	}
	if current.ProductID != existing.Entity.ProductID {
		if err := s.ensureProduct(ctx, current.ProductID); err != nil {
			return nil, err
		}
	}
	saved, err := s.repo.Save(ctx, current)
	if err != nil {
		return nil, mapError(err)
	}
	if s.policy != AdvanceOnCreateAndUpdate {
		return saved, nil
	}
	return s.engine.Advance(ctx, saved)
}

// DeleteOrder removes an existing order.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if _, err := s.RetrieveOrder(ctx, id); err != nil {
		return err
	}
	return mapError(s.repo.DeleteByID(ctx, id))
}

// ListOrders returns every order.
func (s *Service) ListOrders(ctx context.Context) ([]*ports.OrderProjection, error) {
	result, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// SearchOrders lists the orders in status; a nil status lists everything.
func (s *Service) SearchOrders(ctx context.Context, status *domain.Status) ([]*ports.OrderProjection, error) {
	if status == nil {
		return s.ListOrders(ctx)
	}
	if !status.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	result, err := s.repo.FindByStatus(ctx, *status)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// AdvancedSearchOrders filters by the optional status and product id through the composed predicate.
// Without criteria it falls back to the unfiltered listing.
func (s *Service) AdvancedSearchOrders(ctx context.Context, criteria ports.SearchCriteria) ([]*ports.OrderProjection, error) {
	if criteria.IsEmpty() {
		return s.ListOrders(ctx)
	}
	if criteria.Status != nil && !criteria.Status.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	f := BuildOrderFilter(criteria.Status, criteria.ProductID)
	s.logger.LogAttrs(ctx, slog.LevelDebug, "advanced order search", slog.String("filter", f.String()))
	result, err := s.repo.FindAllMatching(ctx, f)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// AdvanceOrder applies a single lifecycle step to an existing order.
func (s *Service) AdvanceOrder(ctx context.Context, id int64) (*ports.OrderProjection, error) {
	existing, err := s.RetrieveOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.Advance(ctx, existing)
}

func (s *Service) ensureProduct(ctx context.Context, productID int64) error {
	if s.products == nil {
		return nil
	}
	if err := s.products.EnsureProduct(ctx, productID); err != nil {
		if errors.Is(err, ports.ErrProductMissing) {
			return fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return err
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
