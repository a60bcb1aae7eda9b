package response

import (
	"account-api.backend/pkg/logger"
	"account-api.backend/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the JSON shape of every response
type Envelope struct {
	Status  int                     `json:"status"`
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    interface{}             `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Status:  status,
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error classifies err and sends the matching error response.
// Internal failures are logged here and reach the client as a generic message.
func Error(c *gin.Context, err error) {
	cl := Classify(err)
	if cl.Internal {
		logger.Error(c.Request.Context(), "unhandled error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(cl.Status, Envelope{
		Status:  cl.Status,
		Success: false,
		Message: cl.Message,
		Errors:  cl.Errors,
	})
}
