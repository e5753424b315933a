package storeserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersmemory "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/store-orders-api/internal/domains/orders/application"
	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	storesmemory "github.com/Apurer/store-orders-api/internal/domains/stores/adapters/memory"
	storesapp "github.com/Apurer/store-orders-api/internal/domains/stores/application"
	"github.com/Apurer/store-orders-api/internal/platform/memtx"
)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, string, any) error { return nil }

type server struct {
	router     *gin.Engine
	orders     *ordersapp.Service
	registered int
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	storeRepo := storesmemory.NewStoreRepository()
	productRepo := storesmemory.NewProductRepository()
	stores := storesapp.NewService(storeRepo, productRepo, storesmemory.NewSessionStore())
	orderRepo := ordersmemory.NewRepository()
	orders := ordersapp.NewService(orderRepo, stores, stores, noopPublisher{}, memtx.New(),
		ordersapp.WithClock(func() time.Time { return time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC) }))

	storeAPI := NewStoreAPI(stores)
	sessionAPI := NewSessionAPI(stores)
	orderAPI := NewOrderAPI(orders)
	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		StoreAPI:      storeAPI,
		SessionAPI:    sessionAPI,
		OrderAPI:      orderAPI,
		Authenticator: stores,
	})
	return &server{router: router, orders: orders}
}

func (s *server) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates a store with one product and returns a session token.
func (s *server) registerAndLogin(t *testing.T, email string) (int64, string) {
	t.Helper()
	s.registered++
	rec := s.do(t, http.MethodPost, "/v1/stores", "", map[string]any{
		"cnpj":          fmt.Sprintf("1234567800019%d", s.registered),
		"corporateName": "Loja Azul",
		"email":         email,
		"phone":         fmt.Sprintf("1198765432%d", s.registered),
		"password":      "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var store struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &store))

	rec = s.do(t, http.MethodPost, "/v1/sessions", "", map[string]any{"email": email, "password": "secret"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

	rec = s.do(t, http.MethodPost, "/v1/stores/products", session.Token, map[string]any{
		"code": "123", "name": "Caneca", "price": "10.00", "quantity": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return store.ID, session.Token
}

func (s *server) seedOrder(t *testing.T, id, storeID int64) {
	t.Helper()
	client := &domain.Client{ID: 9, Name: "Ana", CPF: "12345678909", Email: "ana@mail.com"}
	err := s.orders.CreateOrder(context.Background(), &domain.Order{
		ID:         id,
		TotalValue: decimal.RequireFromString("20.00"),
		Store:      domain.StoreRef{ID: storeID},
		Client:     client,
		Address:    &domain.Address{ID: 4, Street: "Rua A", Number: "10", City: "Recife", CEP: "50000000", State: "PE"},
		Items:      []domain.LineItem{{Code: "123", Quantity: 2, Price: decimal.RequireFromString("10.00")}},
	})
	require.NoError(t, err)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestAuthenticatedRoutesRequireBearerToken(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/v1/stores/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/stores/orders", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	decodeProblem(t, rec)
}

func TestRegisterStoreRejectsInvalidBody(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/v1/stores", "", map[string]any{"cnpj": "1", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	extensions, _ := problem["extensions"].(map[string]any)
	assert.NotEmpty(t, extensions["fields"])
}

func TestCurrentStoreAndProducts(t *testing.T) {
	s := newServer(t)
	_, token := s.registerAndLogin(t, "loja@azul.com")

	rec := s.do(t, http.MethodGet, "/v1/stores/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"loja@azul.com"`)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodGet, "/v1/stores/products?page=0&size=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Content       []map[string]any `json:"content"`
		TotalElements int              `json:"totalElements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalElements)

	rec = s.do(t, http.MethodGet, "/v1/stores/products?size=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders(t *testing.T) {
	s := newServer(t)
	storeID, token := s.registerAndLogin(t, "loja@azul.com")

	rec := s.do(t, http.MethodGet, "/v1/stores/orders", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no orders found", decodeProblem(t, rec)["detail"])

	s.seedOrder(t, 7, storeID)
	s.seedOrder(t, 3, storeID)

	rec = s.do(t, http.MethodGet, "/v1/stores/orders?page=0&size=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page struct {
		Content []struct {
			ID    int64  `json:"id"`
			State string `json:"state"`
		} `json:"content"`
		TotalElements int `json:"totalElements"`
		TotalPages    int `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, int64(3), page.Content[0].ID)
	assert.Equal(t, "CRIADO", page.Content[0].State)
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
}

func TestDispatchOrder(t *testing.T) {
	s := newServer(t)
	storeID, token := s.registerAndLogin(t, "loja@azul.com")
	s.seedOrder(t, 1, storeID)

	rec := s.do(t, http.MethodPatch, "/v1/stores/orders/1", token, map[string]any{"state": "ENTREGUE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "only transition allowed is to DISPATCHED", decodeProblem(t, rec)["detail"])

	rec = s.do(t, http.MethodPatch, "/v1/stores/orders/1", token, map[string]any{"state": "ENVIADO"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"state":"ENVIADO"`)
	assert.Contains(t, rec.Body.String(), `"orderDispatched":"12/01/2024"`)
}

func TestDispatchOrderMasksForeignOrders(t *testing.T) {
	s := newServer(t)
	storeID, _ := s.registerAndLogin(t, "loja@azul.com")
	_, otherToken := s.registerAndLogin(t, "outra@loja.com")
	s.seedOrder(t, 1, storeID)

	rec := s.do(t, http.MethodPatch, "/v1/stores/orders/1", otherToken, map[string]any{"state": "ENVIADO"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no order found with id: 1", decodeProblem(t, rec)["detail"])

	rec = s.do(t, http.MethodGet, "/v1/stores/orders/1", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/stores/orders/abc", otherToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	s := newServer(t)
	_, token := s.registerAndLogin(t, "loja@azul.com")

	rec := s.do(t, http.MethodDelete, "/v1/sessions", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/stores/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductMaintenance(t *testing.T) {
	s := newServer(t)
	storeID, token := s.registerAndLogin(t, "loja@azul.com")
	_, otherToken := s.registerAndLogin(t, "outra@loja.com")

	rec := s.do(t, http.MethodPut, "/v1/stores/products/1", token, map[string]any{
		"code": "123", "name": "Caneca grande", "price": "24.90", "quantity": 50,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var product struct {
		Name     string          `json:"name"`
		Price    decimal.Decimal `json:"price"`
		Quantity int64           `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "Caneca grande", product.Name)
	assert.Equal(t, int64(50), product.Quantity)

	rec = s.do(t, http.MethodPut, "/v1/stores/products/1", token, map[string]any{"code": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/v1/stores/products/1/price/21.50", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.True(t, decimal.RequireFromString("21.50").Equal(product.Price))

	rec = s.do(t, http.MethodPatch, "/v1/stores/products/1/price/-3", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPatch, "/v1/stores/products/1/price/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/v1/catalog/stores/%d/products", storeID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"Caneca grande"`)

	rec = s.do(t, http.MethodDelete, "/v1/stores/products/1", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/v1/stores/products/1", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/v1/stores/products/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
