package storeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	storehttpmapper "github.com/Apurer/store-orders-api/internal/domains/stores/adapters/http/mapper"
	storesports "github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
	"github.com/Apurer/store-orders-api/internal/shared/validation"
)

// StoreAPI serves store registration and the store's product catalog.
type StoreAPI struct {
	service  storesports.Service
	validate *validatorv10.Validate
}

func NewStoreAPI(service storesports.Service) StoreAPI {
	return StoreAPI{service: service, validate: validation.New()}
}

// Post /v1/stores
// Register a store
func (api *StoreAPI) RegisterStore(c *gin.Context) {
	var payload storehttpmapper.RegisterStore
	if !bindJSON(c, &payload) {
		return
	}
	if err := validation.Struct(api.validate, payload); err != nil {
		respondError(c, err)
		return
	}
	store, err := api.service.RegisterStore(c.Request.Context(), storehttpmapper.ToRegisterStoreInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, storehttpmapper.FromDomainStore(store))
}

// Get /v1/stores/me
// Show the logged-in store
func (api *StoreAPI) GetCurrentStore(c *gin.Context) {
	store, err := api.service.GetStoreByEmail(c.Request.Context(), callerEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainStore(store))
}

// Post /v1/stores/products
// Add a product to the logged-in store
func (api *StoreAPI) AddProduct(c *gin.Context) {
	var payload storehttpmapper.NewProduct
	if !bindJSON(c, &payload) {
		return
	}
	if err := validation.Struct(api.validate, payload); err != nil {
		respondError(c, err)
		return
	}
	product, err := api.service.AddProduct(c.Request.Context(), callerEmail(c), storehttpmapper.ToAddProductInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, storehttpmapper.FromDomainProduct(product))
}

// Get /v1/stores/products
// List the logged-in store's products
func (api *StoreAPI) ListProducts(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	result, err := api.service.ListProducts(c.Request.Context(), callerEmail(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromProductPage(result))
}

// Get /v1/stores/products/:id
// Find a product of the logged-in store
func (api *StoreAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), callerEmail(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainProduct(product))
}

// Put /v1/stores/products/:id
// Replace a product of the logged-in store
func (api *StoreAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload storehttpmapper.ProductUpdate
	if !bindJSON(c, &payload) {
		return
	}
	if err := validation.Struct(api.validate, payload); err != nil {
		respondError(c, err)
		return
	}
	product, err := api.service.UpdateProduct(c.Request.Context(), callerEmail(c), id, storehttpmapper.ToUpdateProductInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainProduct(product))
}

// Patch /v1/stores/products/:id/price/:price
// Change the price of a product of the logged-in store
func (api *StoreAPI) ChangeProductPrice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	price, err := decimal.NewFromString(c.Param("price"))
	if err != nil {
		respondError(c, apperrors.Validation(apperrors.FieldViolation{Field: "price", Message: "must be a decimal number"}))
		return
	}
	product, err := api.service.ChangeProductPrice(c.Request.Context(), callerEmail(c), id, price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainProduct(product))
}

// Delete /v1/stores/products/:id
// Remove a product of the logged-in store
func (api *StoreAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), callerEmail(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/catalog/stores/:id/products
// List any store's products
func (api *StoreAPI) ListStoreCatalog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	result, err := api.service.ListStoreProducts(c.Request.Context(), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromProductPage(result))
}
