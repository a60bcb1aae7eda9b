package middleware

import (
	"context"
	"strings"

	"account-api.backend/internal/domain/entities"
	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// UserKey is the context key for the authenticated user projection
	UserKey = "user"
)

const (
	MsgAuthorizationRequired = "Authorization header is required"
	MsgInvalidAuthFormat     = "Invalid authorization format"
)

// Authenticator resolves a bearer token into the caller's identity
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entities.UserProjection, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller's projection under UserKey.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			abortUnauthorized(c, MsgAuthorizationRequired)
			return
		}

		if len(authHeader) < len(BearerPrefix) || !strings.EqualFold(authHeader[:len(BearerPrefix)], BearerPrefix) {
			abortUnauthorized(c, MsgInvalidAuthFormat)
			return
		}

		token := strings.TrimSpace(authHeader[len(BearerPrefix):])
		if token == "" {
			abortUnauthorized(c, MsgInvalidAuthFormat)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug(c.Request.Context(), "authentication failed",
				zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Error(domainerrors.Unauthorized(msg))
	c.Abort()
}

// GetUser returns the authenticated user set by AuthMiddleware
func GetUser(c *gin.Context) (*entities.UserProjection, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entities.UserProjection)
	return user, ok && user != nil
}
