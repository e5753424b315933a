package storeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	orderhttpmapper "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/http/mapper"
	orderstypes "github.com/Apurer/store-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	"github.com/Apurer/store-orders-api/internal/shared/validation"
)

// OrderAPI lets a store see its orders and mark them dispatched.
type OrderAPI struct {
	service  ordersports.Service
	validate *validatorv10.Validate
}

func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service, validate: validation.New()}
}

// Get /v1/stores/orders
// List the logged-in store's orders, sorted by id
func (api *OrderAPI) ListOrders(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	result, err := api.service.ListOrdersForStore(c.Request.Context(), callerEmail(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromOrderPage(result))
}

// Get /v1/stores/orders/:id
// Find an order of the logged-in store
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id, callerEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Patch /v1/stores/orders/:id
// Mark an order dispatched
func (api *OrderAPI) DispatchOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload orderhttpmapper.StateChange
	if !bindJSON(c, &payload) {
		return
	}
	if err := validation.Struct(api.validate, payload); err != nil {
		respondError(c, err)
		return
	}
	// Unknown labels reach the engine as-is and fail its transition check.
	requested, err := domain.ParseState(payload.State)
	if err != nil {
		requested = domain.State(payload.State)
	}
	input := orderstypes.DispatchOrderInput{OrderID: id, CallerEmail: callerEmail(c), RequestedState: requested}
	if err := api.service.DispatchOrder(c.Request.Context(), input); err != nil {
		respondError(c, err)
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id, callerEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}
