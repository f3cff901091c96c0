package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-inventory-server/internal/durable/temporal/activities/orders"
	"github.com/Apurer/go-gin-inventory-server/internal/durable/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the order to place.
type OrderPlacementWorkflowInput struct {
	Order   domain.Order
	TraceID string
}

// OrderPlacementWorkflow persists a new order and applies its first lifecycle step.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*ports.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	productID := input.Order.ProductID
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "productId", productID)...)
	projection, err := sequences.RunOrderPlacementSequence(ctx, orderactivities.PlaceOrderInput{Order: input.Order})
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "productId", productID, "error", err)...)
		return nil, err
	}
	if projection != nil && projection.Entity != nil {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", projection.Entity.ID)...)
	}
	return projection, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
