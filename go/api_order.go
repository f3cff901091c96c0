package inventoryserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	orderhttpmapper "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/application"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
)

// HeaderIdempotencyKey lets clients retry order placement without creating duplicates.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service     ordersports.Service
	workflows   ordersports.WorkflowOrchestrator
	idempotency ordersports.IdempotencyStore
}

// NewOrderAPI creates an OrderAPI. A nil orchestrator places orders through the service directly and
// a nil idempotency store ignores Idempotency-Key headers.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator, idempotency ordersports.IdempotencyStore) OrderAPI {
	return OrderAPI{service: service, workflows: workflows, idempotency: idempotency}
}

// Post /api/orders
// Place a new order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	order, ok := bindOrder(c)
	if !ok {
		return
	}
	key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
	var (
		placed *ordersports.OrderProjection
		err    error
	)
	if key == "" || api.idempotency == nil {
		placed, err = api.placeOrder(c.Request.Context(), order, "")
	} else {
		placed, err = api.placeOrderOnce(c.Request.Context(), order, key)
	}
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(placed))
}

// idempotencyPollInterval and idempotencyWait bound how long a retry waits on a placement that another
// request already reserved.
var (
	idempotencyPollInterval = 25 * time.Millisecond
	idempotencyWait         = 30 * time.Second
)

// placeOrderOnce reserves key before placing, so concurrent retries wait for the first placement
// instead of racing it. A finished key replays its order.
func (api *OrderAPI) placeOrderOnce(ctx context.Context, order *domain.Order, key string) (*ordersports.OrderProjection, error) {
	hash, err := ordersapp.FingerprintPlacement(order)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(idempotencyWait)
	for {
		record, reserved, err := api.idempotency.Reserve(ctx, key, hash)
		if errors.Is(err, ordersports.ErrIdempotencyConflict) {
			return nil, fmt.Errorf("%w: key %q was used for a different order", ordersports.ErrIdempotencyConflict, key)
		}
		if err != nil {
			return nil, err
		}
		if reserved {
			return api.placeReserved(ctx, order, key)
		}
		if !record.Pending() {
			return api.service.RetrieveOrder(ctx, record.OrderID)
		}
		record, err = api.awaitPlacement(ctx, key, deadline)
		if err != nil {
			return nil, err
		}
		if record != nil {
			return api.service.RetrieveOrder(ctx, record.OrderID)
		}
		// The owner released the key after a failed placement; try to reserve it again.
	}
}

func (api *OrderAPI) placeReserved(ctx context.Context, order *domain.Order, key string) (*ordersports.OrderProjection, error) {
	placed, err := api.placeOrder(ctx, order, key)
	if err != nil {
		_ = api.idempotency.Release(context.WithoutCancel(ctx), key)
		return nil, err
	}
	if _, err := api.idempotency.Complete(context.WithoutCancel(ctx), key, placed.Entity.ID); err != nil {
		return nil, err
	}
	return placed, nil
}

// awaitPlacement polls a pending key. It returns the finished record, or nil when the key was released.
func (api *OrderAPI) awaitPlacement(ctx context.Context, key string, deadline time.Time) (*ordersports.IdempotencyRecord, error) {
	ticker := time.NewTicker(idempotencyPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
		record, err := api.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if record == nil || !record.Pending() {
			return record, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: placement for key %q is still in progress", ordersports.ErrIdempotencyConflict, key)
		}
	}
}

func (api *OrderAPI) placeOrder(ctx context.Context, order *domain.Order, key string) (*ordersports.OrderProjection, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, order, key)
	}
	return api.service.CreateOrder(ctx, order)
}

// Get /api/orders
// List every order
func (api *OrderAPI) ListOrders(c *gin.Context) {
	result, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjectionList(result))
}

// Get /api/orders/:id
// Find order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.RetrieveOrder(c.Request.Context(), id)
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(order))
}

// Put /api/orders
// Update an existing order
func (api *OrderAPI) UpdateOrder(c *gin.Context) {
	order, ok := bindOrder(c)
	if !ok {
		return
	}
	updated, err := api.service.UpdateOrder(c.Request.Context(), order)
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(updated))
}

// Delete /api/orders/:id
// Deletes an order
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Get /api/orders/search
// Finds orders by status
func (api *OrderAPI) SearchOrders(c *gin.Context) {
	status, ok := bindStatusQuery(c)
	if !ok {
		return
	}
	result, err := api.service.SearchOrders(c.Request.Context(), status)
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjectionList(result))
}

// Get /api/orders/advanced-search
// Finds orders by status and product
func (api *OrderAPI) AdvancedSearchOrders(c *gin.Context) {
	status, ok := bindStatusQuery(c)
	if !ok {
		return
	}
	var productID *int64
	if err := runtime.BindQueryParameter("form", true, false, "productId", c.Request.URL.Query(), &productID); err != nil {
		responder.BadRequest(c, err)
		return
	}
	criteria := ordersports.SearchCriteria{Status: status, ProductID: productID}
	result, err := api.service.AdvancedSearchOrders(c.Request.Context(), criteria)
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjectionList(result))
}

// Post /api/orders/:id/advance
// Moves an order one lifecycle step forward
func (api *OrderAPI) AdvanceOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	advanced, err := api.service.AdvanceOrder(c.Request.Context(), id)
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(advanced))
}

func bindOrder(c *gin.Context) (*domain.Order, bool) {
	var payload orderhttpmapper.OrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err)
		return nil, false
	}
	order, err := orderhttpmapper.ToDomainOrder(payload)
	if err != nil {
		responder.Validation(c, "status", err)
		return nil, false
	}
	return order, true
}

func bindStatusQuery(c *gin.Context) (*domain.Status, bool) {
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "status", c.Request.URL.Query(), &raw); err != nil {
		responder.BadRequest(c, err)
		return nil, false
	}
	if raw == nil || *raw == "" {
		return nil, true
	}
	status, err := domain.ParseStatus(*raw)
	if err != nil {
		responder.Validation(c, "status", err)
		return nil, false
	}
	return &status, true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		responder.BadRequest(c, err)
		return 0, false
	}
	return id, true
}
