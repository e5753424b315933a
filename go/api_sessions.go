package storeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	storehttpmapper "github.com/Apurer/store-orders-api/internal/domains/stores/adapters/http/mapper"
	storesports "github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	"github.com/Apurer/store-orders-api/internal/shared/validation"
)

// SessionAPI issues and revokes store sessions.
type SessionAPI struct {
	service  storesports.Service
	validate *validatorv10.Validate
}

func NewSessionAPI(service storesports.Service) SessionAPI {
	return SessionAPI{service: service, validate: validation.New()}
}

// Post /v1/sessions
// Log a store in
func (api *SessionAPI) Login(c *gin.Context) {
	var payload storehttpmapper.Credentials
	if !bindJSON(c, &payload) {
		return
	}
	if err := validation.Struct(api.validate, payload); err != nil {
		respondError(c, err)
		return
	}
	session, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, storehttpmapper.FromSession(session))
}

// Delete /v1/sessions
// Log the current store out
func (api *SessionAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), c.GetString("sessionToken")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
