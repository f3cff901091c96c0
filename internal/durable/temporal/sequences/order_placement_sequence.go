package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-inventory-server/internal/durable/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the activities that persist and advance a new order.
func RunOrderPlacementSequence(ctx workflow.Context, input orderactivities.PlaceOrderInput) (*ports.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	productID := input.Order.ProductID
	logger.Info("order placement sequence started", "productId", productID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				orderactivities.ErrTypeInvalidInput,
				orderactivities.ErrTypeProductNotFound,
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var projection ports.OrderProjection
	err := workflow.ExecuteActivity(ctx, orderactivities.PlaceOrderActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("order placement sequence failed", "productId", productID, "error", err)
		return nil, err
	}
	if projection.Entity != nil {
		logger.Info("order placement sequence completed", "orderId", projection.Entity.ID)
	}
	return &projection, nil
}
