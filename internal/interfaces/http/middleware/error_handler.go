package middleware

import (
	"fmt"
	"net/http"

	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the envelope for the last error a handler or middleware
// attached with c.Error. It must be registered before the handlers it covers.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		response.Error(c, c.Errors.Last().Err)
	}
}

// Recovery turns panics into a classified 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Error(c, fmt.Errorf("panic recovered: %v", recovered))
	})
}

// NoRoute reports unknown routes through the classifier
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Error(domainerrors.NewAppError(http.StatusNotFound, domainerrors.CodeNotFound,
			fmt.Sprintf("Route %s:%s not found", c.Request.Method, c.Request.URL.Path),
			domainerrors.ErrRouteNotFound))
	}
}
