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

	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
)

const tracerName = "github.com/Apurer/go-gin-inventory-server/internal/domains/products/adapters/observability/service"

// Service decorates the products application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
		s.logger = defaultLogger()
	}
	return s
}

// CreateProduct persists a new product with instrumentation.
func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateProduct", attribute.String("product.name", nameOf(product)))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("product.name", nameOf(product)))
	result, err := s.inner.CreateProduct(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.name", nameOf(product)))
	}
	s.metrics.recordCreated(ctx, result.Entity.Category)
	span.SetAttributes(attribute.Int64("product.id", result.Entity.ID))
	s.logInfo(ctx, "product created", slog.Int64("product.id", result.Entity.ID))
	return result, nil
}

// RetrieveProduct loads a single product.
func (s *Service) RetrieveProduct(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.RetrieveProduct", attribute.Int64("product.id", id))
	defer span.End()

	result, err := s.inner.RetrieveProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

// UpdateProduct overwrites product details.
func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	var id int64
	if product != nil {
		id = product.ID
	}
	ctx, span := s.startSpan(ctx, "Service.UpdateProduct", attribute.Int64("product.id", id))
	defer span.End()

	s.logInfo(ctx, "updating product", slog.Int64("product.id", id))
	result, err := s.inner.UpdateProduct(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "product updated", slog.Int64("product.id", id))
	return result, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteProduct", attribute.Int64("product.id", id))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.Int64("product.id", id))
	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}

// ListProducts returns every product.
func (s *Service) ListProducts(ctx context.Context) ([]*ports.ProductProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.ListProducts")
	defer span.End()

	result, err := s.inner.ListProducts(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.result.count", len(result)))
	return result, nil
}

// SearchProducts filters products by optional name and category.
func (s *Service) SearchProducts(ctx context.Context, criteria ports.SearchCriteria) ([]*ports.ProductProjection, error) {
	attrs := criteriaAttributes(criteria)
	ctx, span := s.startSpan(ctx, "Service.SearchProducts", attrs...)
	defer span.End()

	s.logInfo(ctx, "searching products", slog.Any("criteria", attrs))
	result, err := s.inner.SearchProducts(ctx, criteria)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search products")
	}
	span.SetAttributes(attribute.Int("product.result.count", len(result)))
	s.logInfo(ctx, "found products", slog.Int("count", len(result)))
	return result, nil
}

// LookupProducts performs the case-sensitive name and category lookup.
func (s *Service) LookupProducts(ctx context.Context, name, category string) ([]*ports.ProductProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.LookupProducts",
		attribute.String("product.search.name", name),
		attribute.String("product.search.category", category),
	)
	defer span.End()

	result, err := s.inner.LookupProducts(ctx, name, category)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to look up products")
	}
	span.SetAttributes(attribute.Int("product.result.count", len(result)))
	return result, nil
}

// AdjustStock adds delta to a product's stock.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int) (*ports.ProductProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.AdjustStock",
		attribute.Int64("product.id", id),
		attribute.Int("product.stock.delta", delta),
	)
	defer span.End()

	s.logInfo(ctx, "adjusting stock", slog.Int64("product.id", id), slog.Int("delta", delta))
	result, err := s.inner.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to adjust stock", slog.Int64("product.id", id))
	}
	s.metrics.recordStockAdjusted(ctx, delta)
	span.SetAttributes(attribute.Int("product.stock.quantity", result.Entity.StockQuantity))
	s.logInfo(ctx, "stock adjusted", slog.Int64("product.id", id), slog.Int("stock_quantity", result.Entity.StockQuantity))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func nameOf(product *domain.Product) string {
	if product == nil {
		return ""
	}
	return product.Name
}

func criteriaAttributes(c ports.SearchCriteria) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if c.Name != nil {
		attrs = append(attrs, attribute.String("product.search.name", *c.Name))
	}
	if c.Category != nil {
		attrs = append(attrs, attribute.String("product.search.category", *c.Category))
	}
	return attrs
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	created          metric.Int64Counter
	updated          metric.Int64Counter
	deleted          metric.Int64Counter
	stockAdjustments metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("products.service.created", metric.WithDescription("Number of products created"))
	updated, _ := m.Int64Counter("products.service.updated", metric.WithDescription("Number of products updated"))
	deleted, _ := m.Int64Counter("products.service.deleted", metric.WithDescription("Number of products deleted"))
	stockAdjustments, _ := m.Int64Counter("products.service.stock_adjustments", metric.WithDescription("Number of stock adjustments"))
	return serviceMetrics{
		created:          created,
		updated:          updated,
		deleted:          deleted,
		stockAdjustments: stockAdjustments,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, category string) {
	addCounter(ctx, m.created, 1, attribute.String("product.category", category))
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	addCounter(ctx, m.updated, 1)
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.deleted, 1)
}

func (m serviceMetrics) recordStockAdjusted(ctx context.Context, delta int) {
	direction := "increase"
	if delta < 0 {
		direction = "decrease"
	}
	addCounter(ctx, m.stockAdjustments, 1, attribute.String("direction", direction))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
