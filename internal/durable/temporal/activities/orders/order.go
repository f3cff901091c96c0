package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/application"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName stores a new order and applies its first lifecycle step.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
)

// PlaceOrderInput is the activity payload.
type PlaceOrderInput struct {
	Order domain.Order
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ports.Service
}

func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder creates the order. Validation and missing product failures are not retried.
func (a *Activities) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*ports.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "productId", input.Order.ProductID)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "productId", input.Order.ProductID)
	order := input.Order
	result, err := a.service.CreateOrder(ctx, &order)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "productId", input.Order.ProductID, "error", err)
		if errors.Is(err, application.ErrInvalidInput) || errors.Is(err, application.ErrProductNotFound) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), nonRetryableType(err), err)
		}
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", result.Entity.ID, "status", string(result.Entity.Status))
	return result, nil
}

// Application error types carried across the workflow boundary.
const (
	ErrTypeInvalidInput    = "InvalidOrderInput"
	ErrTypeProductNotFound = "ProductNotFound"
)

func nonRetryableType(err error) string {
	if errors.Is(err, application.ErrProductNotFound) {
		return ErrTypeProductNotFound
	}
	return ErrTypeInvalidInput
}
