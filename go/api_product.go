package inventoryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	producthttpmapper "github.com/Apurer/go-gin-inventory-server/internal/domains/products/adapters/http/mapper"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
	productsports "github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
	apierrors "github.com/Apurer/go-gin-inventory-server/internal/shared/errors"
)

// ProductAPI wires HTTP transport with the products bounded context service.
type ProductAPI struct {
	service productsports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service productsports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Post /api/products
// Add a new product
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	product, ok := bindProduct(c)
	if !ok {
		return
	}
	saved, err := api.service.CreateProduct(c.Request.Context(), product)
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(saved))
}

// Get /api/products
// List every product
func (api *ProductAPI) ListProducts(c *gin.Context) {
	result, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjectionList(result))
}

// Get /api/products/:id
// Find product by ID
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.RetrieveProduct(c.Request.Context(), id)
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(product))
}

// Put /api/products
// Update an existing product
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	product, ok := bindProduct(c)
	if !ok {
		return
	}
	updated, err := api.service.UpdateProduct(c.Request.Context(), product)
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(updated))
}

// Delete /api/products/:id
// Deletes a product
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Post /api/products/:id/adjust-stock
// Adds a signed delta to the stock quantity
func (api *ProductAPI) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var quantity int
	if err := runtime.BindQueryParameter("form", true, true, "quantity", c.Request.URL.Query(), &quantity); err != nil {
		responder.BadRequest(c, err)
		return
	}
	adjusted, err := api.service.AdjustStock(c.Request.Context(), id, quantity)
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(adjusted))
}

// Get /api/products/search
// Finds products whose name and category contain the given text, ignoring case
func (api *ProductAPI) SearchProducts(c *gin.Context) {
	var criteria productsports.SearchCriteria
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "name", query, &criteria.Name); err != nil {
		responder.BadRequest(c, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", query, &criteria.Category); err != nil {
		responder.BadRequest(c, err)
		return
	}
	result, err := api.service.SearchProducts(c.Request.Context(), criteria)
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjectionList(result))
}

// Get /api/products/lookup
// Finds products by case-sensitive substrings of name and category
func (api *ProductAPI) LookupProducts(c *gin.Context) {
	var name, category *string
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "name", query, &name); err != nil {
		responder.BadRequest(c, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", query, &category); err != nil {
		responder.BadRequest(c, err)
		return
	}
	result, err := api.service.LookupProducts(c.Request.Context(), valueOrEmpty(name), valueOrEmpty(category))
	if err != nil {
		responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjectionList(result))
}

func bindProduct(c *gin.Context) (*domain.Product, bool) {
	var payload producthttpmapper.ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err)
		return nil, false
	}
	product, err := producthttpmapper.ToDomainProduct(payload)
	if err != nil {
		responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return nil, false
	}
	return product, true
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
