package inventoryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-Id"

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the per-resource handlers mounted by NewRouter.
type ApiHandleFunctions struct {
	OrderAPI   OrderAPI
	ProductAPI ProductAPI
}

// NewRouter returns a new router with middleware applied ahead of every route.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, middleware...)
}

// NewRouterWithGinEngine registers routes on an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router.Use(gin.Recovery(), RequestID())
	router.Use(middleware...)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler bound.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// RequestID propagates an inbound X-Request-Id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"CreateOrder", http.MethodPost, "/api/orders", handleFunctions.OrderAPI.CreateOrder},
		{"ListOrders", http.MethodGet, "/api/orders", handleFunctions.OrderAPI.ListOrders},
		{"UpdateOrder", http.MethodPut, "/api/orders", handleFunctions.OrderAPI.UpdateOrder},
		{"SearchOrders", http.MethodGet, "/api/orders/search", handleFunctions.OrderAPI.SearchOrders},
		{"AdvancedSearchOrders", http.MethodGet, "/api/orders/advanced-search", handleFunctions.OrderAPI.AdvancedSearchOrders},
		{"GetOrder", http.MethodGet, "/api/orders/:id", handleFunctions.OrderAPI.GetOrder},
		{"DeleteOrder", http.MethodDelete, "/api/orders/:id", handleFunctions.OrderAPI.DeleteOrder},
		{"AdvanceOrder", http.MethodPost, "/api/orders/:id/advance", handleFunctions.OrderAPI.AdvanceOrder},
		{"CreateProduct", http.MethodPost, "/api/products", handleFunctions.ProductAPI.CreateProduct},
		{"ListProducts", http.MethodGet, "/api/products", handleFunctions.ProductAPI.ListProducts},
		{"UpdateProduct", http.MethodPut, "/api/products", handleFunctions.ProductAPI.UpdateProduct},
		{"SearchProducts", http.MethodGet, "/api/products/search", handleFunctions.ProductAPI.SearchProducts},
		{"LookupProducts", http.MethodGet, "/api/products/lookup", handleFunctions.ProductAPI.LookupProducts},
		{"GetProduct", http.MethodGet, "/api/products/:id", handleFunctions.ProductAPI.GetProduct},
		{"DeleteProduct", http.MethodDelete, "/api/products/:id", handleFunctions.ProductAPI.DeleteProduct},
		{"AdjustStock", http.MethodPost, "/api/products/:id/adjust-stock", handleFunctions.ProductAPI.AdjustStock},
	}
}
