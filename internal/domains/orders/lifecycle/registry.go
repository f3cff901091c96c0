// Package lifecycle advances orders through their statuses. A Registry maps each status to the single
// Handler that produces its successor; an Engine applies one step and persists the result.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
)

var (
	ErrNilHandler       = errors.New("lifecycle handler is nil")
	ErrUnknownStatus    = errors.New("lifecycle handler declares an unknown status")
	ErrDuplicateHandler = errors.New("lifecycle status has more than one handler")
	ErrMissingHandler   = errors.New("lifecycle status has no handler")
)

// Handler produces the next status for orders in HandledStatus.
type Handler interface {
	HandledStatus() domain.Status
	Process(ctx context.Context, order *domain.Order) domain.Status
}

type step struct {
	from domain.Status
	to   domain.Status
}

// Step returns a handler that moves orders from one status to another unconditionally.
func Step(from, to domain.Status) Handler {
	return step{from: from, to: to}
}

func (s step) HandledStatus() domain.Status { return s.from }

func (s step) Process(_ context.Context, _ *domain.Order) domain.Status { return s.to }

// DefaultHandlers is the standard forward table: PENDING to CONFIRMED, CONFIRMED to SHIPPED and
// SHIPPED to DELIVERED. DELIVERED and CANCELLED have no handler.
func DefaultHandlers() []Handler {
	return []Handler{
		Step(domain.StatusPending, domain.StatusConfirmed),
		Step(domain.StatusConfirmed, domain.StatusShipped),
		Step(domain.StatusShipped, domain.StatusDelivered),
	}
}

// DefaultRequiredStatuses must be covered unless RequireStatuses overrides them.
var DefaultRequiredStatuses = []domain.Status{
	domain.StatusPending,
	domain.StatusConfirmed,
	domain.StatusShipped,
}

type registryConfig struct {
	required []domain.Status
}

// RegistryOption configures NewRegistry.
type RegistryOption func(*registryConfig)

// RequireStatuses replaces the statuses that must have a handler. Passing none disables the check.
func RequireStatuses(statuses ...domain.Status) RegistryOption {
	return func(c *registryConfig) {
		c.required = append([]domain.Status(nil), statuses...)
	}
}

// Registry is an immutable status to handler table.
type Registry struct {
	handlers map[domain.Status]Handler
}

// NewRegistry indexes handlers by the status each declares. It fails when a handler is nil, declares
// an unknown status, collides with another handler, or when a required status is left uncovered.
func NewRegistry(handlers []Handler, opts ...RegistryOption) (*Registry, error) {
	cfg := registryConfig{required: DefaultRequiredStatuses}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	table := make(map[domain.Status]Handler, len(handlers))
	for i, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("handler #%d: %w", i, ErrNilHandler)
		}
		status := h.HandledStatus()
		if !status.Valid() {
			return nil, fmt.Errorf("handler #%d (%q): %w", i, status, ErrUnknownStatus)
		}
		if _, exists := table[status]; exists {
			return nil, fmt.Errorf("%s: %w", status, ErrDuplicateHandler)
		}
		table[status] = h
	}
	for _, status := range cfg.required {
		if _, ok := table[status]; !ok {
			return nil, fmt.Errorf("%s: %w", status, ErrMissingHandler)
		}
	}
	return &Registry{handlers: table}, nil
}

// NewDefaultRegistry builds the registry from DefaultHandlers.
func NewDefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultHandlers())
}

// Lookup returns the handler for status.
func (r *Registry) Lookup(status domain.Status) (Handler, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.handlers[status]
	return h, ok
}

// Statuses lists the covered statuses in lifecycle order.
func (r *Registry) Statuses() []domain.Status {
	if r == nil {
		return nil
	}
	covered := make([]domain.Status, 0, len(r.handlers))
	for _, status := range domain.Statuses() {
		if _, ok := r.handlers[status]; ok {
			covered = append(covered, status)
		}
	}
	return covered
}
