package handlers

import (
	"fmt"

	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/pkg/validation"
	"github.com/gin-gonic/gin"
)

// bindJSON decodes and validates the request body. Decode failures are tagged
// with ErrMalformedBody so they classify as client errors.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	if _, ok := validation.FieldErrors(err); ok {
		return err
	}
	return fmt.Errorf("%w: %w", domainerrors.ErrMalformedBody, err)
}
