package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	var productID int64
	if order != nil {
		productID = order.ProductID
	}
	ctx, span := s.tracer.Start(ctx, "Service.CreateOrder", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "creating order", slog.Int64("product.id", productID))
	result, err := s.inner.CreateOrder(ctx, order)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to create order", slog.Int64("product.id", productID))
	}
	s.metrics.recordCreated(ctx, result.Entity.Status)
	span.SetAttributes(attribute.Int64("order.id", result.Entity.ID), attribute.String("order.status", string(result.Entity.Status)))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order created",
		slog.Int64("order.id", result.Entity.ID),
		slog.String("order.status", string(result.Entity.Status)),
	)
	return result, nil
}

func (s *Service) RetrieveOrder(ctx context.Context, id int64) (*ports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "Service.RetrieveOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.RetrieveOrder(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	var id int64
	if order != nil {
		id = order.ID
	}
	ctx, span := s.tracer.Start(ctx, "Service.UpdateOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "updating order", slog.Int64("order.id", id))
	result, err := s.inner.UpdateOrder(ctx, order)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to update order", slog.Int64("order.id", id))
	}
	s.metrics.recordUpdated(ctx, result.Entity.Status)
	span.SetAttributes(attribute.String("order.status", string(result.Entity.Status)))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order updated",
		slog.Int64("order.id", id),
		slog.String("order.status", string(result.Entity.Status)),
	)
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "Service.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.fail(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order deleted", slog.Int64("order.id", id))
	return nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*ports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "Service.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

func (s *Service) SearchOrders(ctx context.Context, status *domain.Status) ([]*ports.OrderProjection, error) {
	var attrs []attribute.KeyValue
	if status != nil {
		attrs = append(attrs, attribute.String("order.search.status", string(*status)))
	}
	ctx, span := s.tracer.Start(ctx, "Service.SearchOrders", trace.WithAttributes(attrs...))
	defer span.End()

	result, err := s.inner.SearchOrders(ctx, status)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to search orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

func (s *Service) AdvancedSearchOrders(ctx context.Context, criteria ports.SearchCriteria) ([]*ports.OrderProjection, error) {
	var attrs []attribute.KeyValue
	if criteria.Status != nil {
		attrs = append(attrs, attribute.String("order.search.status", string(*criteria.Status)))
	}
	if criteria.ProductID != nil {
		attrs = append(attrs, attribute.Int64("order.search.product_id", *criteria.ProductID))
	}
	ctx, span := s.tracer.Start(ctx, "Service.AdvancedSearchOrders", trace.WithAttributes(attrs...))
	defer span.End()

	result, err := s.inner.AdvancedSearchOrders(ctx, criteria)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to search orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "advanced order search", slog.Int("count", len(result)))
	return result, nil
}

func (s *Service) AdvanceOrder(ctx context.Context, id int64) (*ports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "Service.AdvanceOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.AdvanceOrder(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to advance order", slog.Int64("order.id", id))
	}
	s.metrics.recordAdvanced(ctx, result.Entity.Status)
	span.SetAttributes(attribute.String("order.status", string(result.Entity.Status)))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order advance requested",
		slog.Int64("order.id", id),
		slog.String("order.status", string(result.Entity.Status)),
	)
	return result, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated  metric.Int64Counter
	ordersUpdated  metric.Int64Counter
	ordersDeleted  metric.Int64Counter
	ordersAdvanced metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.orders_created", metric.WithDescription("Number of orders created"))
	updated, _ := m.Int64Counter("orders.service.orders_updated", metric.WithDescription("Number of orders updated"))
	deleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	advanced, _ := m.Int64Counter("orders.service.orders_advanced", metric.WithDescription("Number of explicit advance requests"))
	return serviceMetrics{
		ordersCreated:  created,
		ordersUpdated:  updated,
		ordersDeleted:  deleted,
		ordersAdvanced: advanced,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, status domain.Status) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context, status domain.Status) {
	if m.ordersUpdated != nil {
		m.ordersUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordAdvanced(ctx context.Context, status domain.Status) {
	if m.ordersAdvanced != nil {
		m.ordersAdvanced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ ports.Service = (*Service)(nil)
