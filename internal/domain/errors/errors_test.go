package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	creds := InvalidCredentials()
	assert.Equal(t, http.StatusBadRequest, creds.Status)
	assert.Equal(t, CodeInvalidCredentials, creds.Code)
	assert.ErrorIs(t, creds, ErrInvalidCredentials)

	dup := DuplicateEmail()
	assert.Equal(t, http.StatusUnprocessableEntity, dup.Status)
	assert.ErrorIs(t, dup, ErrDuplicateEmail)

	tok := InvalidOrExpiredToken()
	assert.Equal(t, http.StatusUnprocessableEntity, tok.Status)
	assert.Equal(t, CodeInvalidOrExpiredToken, tok.Code)

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, "missing", notFound.Message)
	assert.ErrorIs(t, notFound, ErrNotFound)

	unauth := Unauthorized("nope")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)
	assert.Equal(t, CodeUnauthorized, unauth.Code)

	tf := TransportFailure(http.StatusUnsupportedMediaType, "bad type", ErrUnsupportedMediaType)
	assert.Equal(t, CodeTransportFailure, tf.Code)
	assert.ErrorIs(t, tf, ErrUnsupportedMediaType)

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, "Internal Server Error", internal.Message)
	assert.Equal(t, "db down", internal.Error())
}

func TestAppError_ErrorFallsBackToMessage(t *testing.T) {
	err := NewAppError(http.StatusTeapot, CodeInternal, "short and stout", nil)
	assert.Equal(t, "short and stout", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestAppError_AsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", InvalidCredentials())

	var appErr *AppError
	assert.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, CodeInvalidCredentials, appErr.Code)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("token", "The token field is required")
	assert.Equal(t, "validation failed: token: The token field is required", err.Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
