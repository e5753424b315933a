package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

func TestFromError_MapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		typ    string
	}{
		{apperrors.NotFound("no order found with id: 1"), http.StatusNotFound, TypeNotFound},
		{apperrors.InvalidTransition("only transition allowed is to DISPATCHED"), http.StatusBadRequest, TypeInvalidTransition},
		{apperrors.Validation(apperrors.FieldViolation{Field: "id", Message: "is required"}), http.StatusBadRequest, TypeValidation},
		{apperrors.New(apperrors.ErrDuplicateKey, "order already exists with id: 1"), http.StatusBadRequest, TypeDuplicateKey},
		{apperrors.New(apperrors.ErrInvalidInput, "bad"), http.StatusBadRequest, TypeInvalidInput},
		{apperrors.New(apperrors.ErrUnauthorized, "invalid credentials"), http.StatusUnauthorized, TypeUnauthorized},
		{stderrors.New("pq: connection refused"), http.StatusInternalServerError, TypeInternal},
	}
	for _, tc := range cases {
		problem := FromError(tc.err)
		assert.Equal(t, tc.status, problem.Status, tc.err.Error())
		assert.Equal(t, tc.typ, problem.Type, tc.err.Error())
	}
	assert.NotContains(t, FromError(stderrors.New("pq: connection refused")).Detail, "pq")
}

func TestRespondError_WritesProblemJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/stores/orders/7", nil)

	RespondError(c, apperrors.Validation(apperrors.FieldViolation{Field: "state", Message: "is required"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/v1/stores/orders/7", body.Instance)
	fields, ok := body.Extensions["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "is required", fields["state"])
}
