package storeserver

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
	apierrors "github.com/Apurer/store-orders-api/internal/shared/errors"
	"github.com/Apurer/store-orders-api/internal/shared/pagination"
)

// respondError writes err as a problem document.
func respondError(c *gin.Context, err error) {
	apierrors.RespondError(c, err)
}

// bindJSON decodes the request body into payload. Malformed JSON is invalid input.
func bindJSON(c *gin.Context, payload any) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err, "malformed request body: %s", err.Error()))
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperrors.Validation(apperrors.FieldViolation{Field: name, Message: "must be a positive integer"}))
		return 0, false
	}
	return id, true
}

// pageRequest reads zero-based ?page= and ?size= query parameters.
func pageRequest(c *gin.Context) (pagination.Request, bool) {
	var req pagination.Request
	var violations []apperrors.FieldViolation
	for _, param := range []struct {
		name   string
		target *int
	}{{"page", &req.Page}, {"size", &req.Size}} {
		raw := strings.TrimSpace(c.Query(param.name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			violations = append(violations, apperrors.FieldViolation{Field: param.name, Message: "must be a non-negative integer"})
			continue
		}
		*param.target = v
	}
	if len(violations) > 0 {
		respondError(c, apperrors.Validation(violations...))
		return req, false
	}
	return req.Normalize(), true
}
