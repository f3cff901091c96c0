package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/application"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-inventory-server/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-inventory-server/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder runs the placement workflow and waits for its result. With an idempotency key the
// workflow id is derived from the key, so a retry joins the run already in flight.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, order *domain.Order, idempotencyKey string) (*ports.OrderProjection, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildOrderPlacementWorkflowID(order, idempotencyKey, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflow,
		orderworkflows.OrderPlacementWorkflowInput{Order: *order, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) || strings.TrimSpace(idempotencyKey) == "" {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var projection ports.OrderProjection
	if err := run.Get(ctx, &projection); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &projection, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// PlaceOrder delegates to the application service without durable orchestration. Deduplication by
// key is left to the caller's idempotency store.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, order *domain.Order, _ string) (*ports.OrderProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CreateOrder(ctx, order)
}

// translateWorkflowError restores the application sentinels carried as non-retryable error types.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrTypeProductNotFound:
		return fmt.Errorf("%w: %s", application.ErrProductNotFound, appErr.Message())
	case orderactivities.ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Message())
	default:
		return err
	}
}

func buildOrderPlacementWorkflowID(order *domain.Order, idempotencyKey, traceComponent string) string {
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("order-placement-%d-%s", order.ProductID, traceComponent)
}

// hashIdempotencyKey keeps the first 16 hex chars so workflow ids stay readable.
func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if spanCtx.IsValid() && spanCtx.TraceID().IsValid() {
		return spanCtx.TraceID().String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
