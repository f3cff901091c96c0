package inventoryserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/catalog"
	orderhttpmapper "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/http/mapper"
	ordermemory "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/application"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/lifecycle"
	ordersports "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	producthttpmapper "github.com/Apurer/go-gin-inventory-server/internal/domains/products/adapters/http/mapper"
	productmemory "github.com/Apurer/go-gin-inventory-server/internal/domains/products/adapters/memory"
	productsapp "github.com/Apurer/go-gin-inventory-server/internal/domains/products/application"
	apierrors "github.com/Apurer/go-gin-inventory-server/internal/shared/errors"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	productService := productsapp.NewService(productmemory.NewRepository())
	orderRepo := ordermemory.NewRepository()
	registry, err := lifecycle.NewDefaultRegistry()
	require.NoError(t, err)
	orderService := ordersapp.NewService(orderRepo, lifecycle.NewEngine(registry, orderRepo),
		ordersapp.WithProductLookup(catalog.NewProductLookup(productService)))

	return NewRouter(ApiHandleFunctions{
		OrderAPI:   NewOrderAPI(orderService, nil, ordermemory.NewIdempotencyStore()),
		ProductAPI: NewProductAPI(productService),
	})
}

func do(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createProduct(t *testing.T, router http.Handler, name, category string) producthttpmapper.Product {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/products", producthttpmapper.ProductRequest{
		Name: name, Price: 10, StockQuantity: 5, Category: category,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[producthttpmapper.Product](t, rec)
}

func TestOrderAPI_CreateAdvancesToConfirmed(t *testing.T) {
	router := newTestRouter(t)
	product := createProduct(t, router, "Widget", "Tools")

	rec := do(t, router, http.MethodPost, "/api/orders", orderhttpmapper.OrderRequest{ProductID: product.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order := decode[orderhttpmapper.Order](t, rec)
	require.Equal(t, "CONFIRMED", order.Status)
	require.NotZero(t, order.ID)
	require.False(t, order.CreatedAt.IsZero())

	rec = do(t, router, http.MethodGet, "/api/orders/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, order.ID, decode[orderhttpmapper.Order](t, rec).ID)
}

func TestOrderAPI_CreateValidation(t *testing.T) {
	router := newTestRouter(t)
	product := createProduct(t, router, "Widget", "Tools")
	bogus := "LOST"

	cases := map[string]struct {
		body   any
		status int
	}{
		"zero quantity":   {orderhttpmapper.OrderRequest{ProductID: product.ID}, http.StatusBadRequest},
		"zero product":    {orderhttpmapper.OrderRequest{Quantity: 1}, http.StatusBadRequest},
		"unknown status":  {orderhttpmapper.OrderRequest{ProductID: product.ID, Quantity: 1, Status: &bogus}, http.StatusBadRequest},
		"missing product": {orderhttpmapper.OrderRequest{ProductID: 99, Quantity: 1}, http.StatusNotFound},
		"malformed body":  {"not-an-order", http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/orders", tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
		})
	}

	rec := do(t, router, http.MethodGet, "/api/orders", nil)
	require.Empty(t, decode[[]orderhttpmapper.Order](t, rec))
}

func TestOrderAPI_UpdateSearchAndAdvance(t *testing.T) {
	router := newTestRouter(t)
	product := createProduct(t, router, "Widget", "Tools")
	rec := do(t, router, http.MethodPost, "/api/orders", orderhttpmapper.OrderRequest{ProductID: product.ID, Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[orderhttpmapper.Order](t, rec)

	confirmed := "CONFIRMED"
	rec = do(t, router, http.MethodPut, "/api/orders", orderhttpmapper.OrderRequest{
		ID: created.ID, ProductID: product.ID, Quantity: 4, Status: &confirmed,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[orderhttpmapper.Order](t, rec)
	require.Equal(t, "SHIPPED", updated.Status)
	require.Equal(t, 4, updated.Quantity)

	rec = do(t, router, http.MethodGet, "/api/orders/search?status=shipped", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]orderhttpmapper.Order](t, rec), 1)

	rec = do(t, router, http.MethodGet, "/api/orders/search?status=bogus", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/orders/advanced-search?status=SHIPPED&productId=42", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[[]orderhttpmapper.Order](t, rec))

	rec = do(t, router, http.MethodGet, "/api/orders/advanced-search?productId=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/orders/1/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "DELIVERED", decode[orderhttpmapper.Order](t, rec).Status)

	rec = do(t, router, http.MethodPost, "/api/orders/1/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "DELIVERED", decode[orderhttpmapper.Order](t, rec).Status)
}

func TestOrderAPI_DeleteAndNotFound(t *testing.T) {
	router := newTestRouter(t)
	product := createProduct(t, router, "Widget", "Tools")
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/orders", orderhttpmapper.OrderRequest{ProductID: product.ID, Quantity: 1}).Code)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodDelete, "/api/orders/1", nil).Code)

	rec := do(t, router, http.MethodGet, "/api/orders/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, apierrors.TypeNotFound, problem.Type)
	require.Equal(t, "/api/orders/1", problem.Instance)

	require.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/orders/1", nil).Code)
	require.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/orders/abc", nil).Code)
}

func TestProductAPI_CRUDAndStock(t *testing.T) {
	router := newTestRouter(t)
	product := createProduct(t, router, "Widget", "Tools")

	rec := do(t, router, http.MethodPost, "/api/products", producthttpmapper.ProductRequest{Name: "Widget", Price: 1})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/products", producthttpmapper.ProductRequest{Name: "  ", Price: 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/products", producthttpmapper.ProductRequest{Name: "Cheap", Price: -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/products/1/adjust-stock?quantity=-8", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, -3, decode[producthttpmapper.Product](t, rec).StockQuantity)

	rec = do(t, router, http.MethodPost, "/api/products/1/adjust-stock", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/products", producthttpmapper.ProductRequest{
		ID: product.ID, Name: "Widget Pro", Price: 12, StockQuantity: 100, Category: "Tools",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[producthttpmapper.Product](t, rec)
	require.Equal(t, "Widget Pro", updated.Name)
	require.Equal(t, -3, updated.StockQuantity)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodDelete, "/api/products/1", nil).Code)
	require.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/products/1", nil).Code)
}

func TestProductAPI_SearchAndLookup(t *testing.T) {
	router := newTestRouter(t)
	createProduct(t, router, "Widget", "Tools")
	createProduct(t, router, "WIDE-SCREEN", "Displays")
	createProduct(t, router, "Gadget", "Toys")

	rec := do(t, router, http.MethodGet, "/api/products/search?name=wid", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]producthttpmapper.Product](t, rec), 2)

	rec = do(t, router, http.MethodGet, "/api/products/search", nil)
	require.Len(t, decode[[]producthttpmapper.Product](t, rec), 3)

	rec = do(t, router, http.MethodGet, "/api/products/lookup?name=Wid", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]producthttpmapper.Product](t, rec)
	require.Len(t, found, 1)
	require.Equal(t, "Widget", found[0].Name)

	rec = do(t, router, http.MethodGet, "/api/products", nil)
	require.Len(t, decode[[]producthttpmapper.Product](t, rec), 3)
}

func TestRequestID(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/products", nil)
	_, err := uuid.Parse(rec.Header().Get(HeaderRequestID))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	fixed := uuid.NewString()
	req.Header.Set(HeaderRequestID, fixed)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, fixed, rec.Header().Get(HeaderRequestID))
}

func TestOrderAPI_IdempotentPlacement(t *testing.T) {
	router := newTestRouter(t)
	product := createProduct(t, router, "Widget", "Tools")

	place := func(key string, quantity int) *httptest.ResponseRecorder {
		raw, err := json.Marshal(orderhttpmapper.OrderRequest{ProductID: product.ID, Quantity: quantity})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderIdempotencyKey, key)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := place("retry-1", 2)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := place("retry-1", 2)
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, decode[orderhttpmapper.Order](t, first).ID, decode[orderhttpmapper.Order](t, second).ID)

	conflict := place("retry-1", 3)
	require.Equal(t, http.StatusConflict, conflict.Code)

	rec := do(t, router, http.MethodGet, "/api/orders", nil)
	require.Len(t, decode[[]orderhttpmapper.Order](t, rec), 1)
}

type slowOrderService struct {
	ordersports.Service
	delay time.Duration
}

func (s slowOrderService) CreateOrder(ctx context.Context, order *domain.Order) (*ordersports.OrderProjection, error) {
	time.Sleep(s.delay)
	return s.Service.CreateOrder(ctx, order)
}

func TestOrderAPI_ConcurrentRetriesPlaceOneOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	productService := productsapp.NewService(productmemory.NewRepository())
	orderRepo := ordermemory.NewRepository()
	registry, err := lifecycle.NewDefaultRegistry()
	require.NoError(t, err)
	orderService := ordersapp.NewService(orderRepo, lifecycle.NewEngine(registry, orderRepo),
		ordersapp.WithProductLookup(catalog.NewProductLookup(productService)))
	router := NewRouter(ApiHandleFunctions{
		OrderAPI:   NewOrderAPI(slowOrderService{Service: orderService, delay: 50 * time.Millisecond}, nil, ordermemory.NewIdempotencyStore()),
		ProductAPI: NewProductAPI(productService),
	})
	product := createProduct(t, router, "Widget", "Tools")

	raw, err := json.Marshal(orderhttpmapper.OrderRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	const retries = 4
	recorders := make([]*httptest.ResponseRecorder, retries)
	var wg sync.WaitGroup
	for i := range recorders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(HeaderIdempotencyKey, "retry-concurrent")
			recorders[i] = httptest.NewRecorder()
			router.ServeHTTP(recorders[i], req)
		}(i)
	}
	wg.Wait()

	first := decode[orderhttpmapper.Order](t, recorders[0])
	for _, rec := range recorders {
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Equal(t, first.ID, decode[orderhttpmapper.Order](t, rec).ID)
	}

	rec := do(t, router, http.MethodGet, "/api/orders", nil)
	require.Len(t, decode[[]orderhttpmapper.Order](t, rec), 1)
}

func TestOrderAPI_FailedPlacementReleasesKey(t *testing.T) {
	router := newTestRouter(t)

	place := func() *httptest.ResponseRecorder {
		raw, err := json.Marshal(orderhttpmapper.OrderRequest{ProductID: 1, Quantity: 1})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderIdempotencyKey, "retry-missing")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNotFound, place().Code)

	createProduct(t, router, "Widget", "Tools")
	rec := place()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "CONFIRMED", decode[orderhttpmapper.Order](t, rec).Status)
}
