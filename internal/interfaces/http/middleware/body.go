package middleware

import (
	"fmt"
	"mime"
	"net/http"

	domainerrors "account-api.backend/internal/domain/errors"
	"github.com/gin-gonic/gin"
)

// BodyLimit caps the request body at limit bytes. Reading past the cap fails
// with *http.MaxBytesError, which is classified as 413.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.Error(&http.MaxBytesError{Limit: limit})
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// RequireJSON rejects bodies that are not application/json. A request without
// a body passes through untouched.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		ct := c.GetHeader("Content-Type")
		if ct == "" {
			c.Error(domainerrors.TransportFailure(http.StatusBadRequest,
				"Request is missing the Content-Type header", domainerrors.ErrMissingContentType))
			c.Abort()
			return
		}

		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			c.Error(domainerrors.TransportFailure(http.StatusUnsupportedMediaType,
				fmt.Sprintf("Unsupported Media Type: %s", ct), domainerrors.ErrUnsupportedMediaType))
			c.Abort()
			return
		}

		c.Next()
	}
}
