package storeserver

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

const storeEmailKey = "storeEmail"

// Authenticator resolves a session token to the email of the logged-in store.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// RequireSession rejects requests without a valid bearer token and stores the
// caller's email in the gin context.
func RequireSession(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || auth == nil {
			respondError(c, apperrors.New(apperrors.ErrUnauthorized, "missing bearer token"))
			return
		}
		email, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(storeEmailKey, email)
		c.Set("sessionToken", token)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func callerEmail(c *gin.Context) string {
	return c.GetString(storeEmailKey)
}
