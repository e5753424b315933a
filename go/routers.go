package storeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

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
	// Authenticated routes run behind the session middleware.
	Authenticated bool
}

// ApiHandleFunctions bundles every API the router serves.
type ApiHandleFunctions struct {
	StoreAPI   StoreAPI
	SessionAPI SessionAPI
	OrderAPI   OrderAPI
	// Authenticator resolves bearer tokens for authenticated routes.
	Authenticator Authenticator
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	authenticated := RequireSession(handleFunctions.Authenticator)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Authenticated {
			handlers = append([]gin.HandlerFunc{authenticated}, handlers...)
		}
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"RegisterStore", http.MethodPost, "/v1/stores", handleFunctions.StoreAPI.RegisterStore, false},
		{"Login", http.MethodPost, "/v1/sessions", handleFunctions.SessionAPI.Login, false},
		{"Logout", http.MethodDelete, "/v1/sessions", handleFunctions.SessionAPI.Logout, true},
		{"GetCurrentStore", http.MethodGet, "/v1/stores/me", handleFunctions.StoreAPI.GetCurrentStore, true},
		{"AddProduct", http.MethodPost, "/v1/stores/products", handleFunctions.StoreAPI.AddProduct, true},
		{"ListProducts", http.MethodGet, "/v1/stores/products", handleFunctions.StoreAPI.ListProducts, true},
		{"GetProduct", http.MethodGet, "/v1/stores/products/:id", handleFunctions.StoreAPI.GetProduct, true},
		{"UpdateProduct", http.MethodPut, "/v1/stores/products/:id", handleFunctions.StoreAPI.UpdateProduct, true},
		{"ChangeProductPrice", http.MethodPatch, "/v1/stores/products/:id/price/:price", handleFunctions.StoreAPI.ChangeProductPrice, true},
		{"DeleteProduct", http.MethodDelete, "/v1/stores/products/:id", handleFunctions.StoreAPI.DeleteProduct, true},
		{"ListStoreCatalog", http.MethodGet, "/v1/catalog/stores/:id/products", handleFunctions.StoreAPI.ListStoreCatalog, false},
		{"ListOrders", http.MethodGet, "/v1/stores/orders", handleFunctions.OrderAPI.ListOrders, true},
		{"GetOrder", http.MethodGet, "/v1/stores/orders/:id", handleFunctions.OrderAPI.GetOrder, true},
		{"DispatchOrder", http.MethodPatch, "/v1/stores/orders/:id", handleFunctions.OrderAPI.DispatchOrder, true},
	}
}
