package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/pkg/validation"
)

// Validation envelope message
const MsgValidationFailed = "Validation failed"

const msgJSONParse = "JSON Parse error: "

// Classification is the client-facing outcome of a failure
type Classification struct {
	Status   int
	Code     domainerrors.Code
	Message  string
	Errors   []validation.FieldError
	Internal bool
}

type rule struct {
	name     string
	classify func(err error) (Classification, bool)
}

// rules are evaluated top to bottom; the first match wins.
var rules = []rule{
	{"validation", classifyValidation},
	{"route not found", classifyRouteNotFound},
	{"body too large", classifyBodyTooLarge},
	{"unsupported media type", classifyMediaType},
	{"malformed body", classifyMalformedBody},
	{"client error", classifyClientError},
}

// Classify maps any error onto a status, message and optional field errors.
// Anything no rule claims is an internal error.
func Classify(err error) Classification {
	for _, r := range rules {
		if cl, ok := r.classify(err); ok {
			return cl
		}
	}
	return Classification{
		Status:   http.StatusInternalServerError,
		Code:     domainerrors.CodeInternal,
		Message:  "Internal Server Error",
		Internal: true,
	}
}

func classifyValidation(err error) (Classification, bool) {
	if fields, ok := validation.FieldErrors(err); ok {
		return validationFailure(fields), true
	}

	var vErr *domainerrors.ValidationError
	if errors.As(err, &vErr) {
		fields := make([]validation.FieldError, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			fields = append(fields, validation.FieldError{Field: f.Field, Message: f.Message})
		}
		return validationFailure(fields), true
	}
	return Classification{}, false
}

func validationFailure(fields []validation.FieldError) Classification {
	return Classification{
		Status:  http.StatusUnprocessableEntity,
		Code:    domainerrors.CodeValidationFailure,
		Message: MsgValidationFailed,
		Errors:  fields,
	}
}

func classifyRouteNotFound(err error) (Classification, bool) {
	if !errors.Is(err, domainerrors.ErrRouteNotFound) {
		return Classification{}, false
	}
	msg := "Route not found"
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		msg = appErr.Message
	}
	return Classification{Status: http.StatusNotFound, Code: domainerrors.CodeNotFound, Message: msg}, true
}

func classifyBodyTooLarge(err error) (Classification, bool) {
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		return Classification{}, false
	}
	return transport(http.StatusRequestEntityTooLarge, "Request body is too large"), true
}

func classifyMediaType(err error) (Classification, bool) {
	if !errors.Is(err, domainerrors.ErrUnsupportedMediaType) {
		return Classification{}, false
	}
	return transport(http.StatusUnsupportedMediaType, messageOf(err, "Unsupported Media Type")), true
}

// classifyMalformedBody only trusts EOF conditions tagged with ErrMalformedBody;
// store and cache clients return the same errors on dropped connections.
func classifyMalformedBody(err error) (Classification, bool) {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, domainerrors.ErrMissingContentType):
		return transport(http.StatusBadRequest, messageOf(err, "Request is missing the Content-Type header")), true
	case errors.Is(err, domainerrors.ErrEmptyBody):
		return transport(http.StatusBadRequest, msgJSONParse+domainerrors.ErrEmptyBody.Error()), true
	case errors.As(err, &typeErr):
		return transport(http.StatusBadRequest, fmt.Sprintf(msgJSONParse+"field %s must be of type %s", typeErr.Field, typeErr.Type)), true
	case errors.As(err, &syntaxErr):
		return transport(http.StatusBadRequest, msgJSONParse+syntaxErr.Error()), true
	case !errors.Is(err, domainerrors.ErrMalformedBody):
		return Classification{}, false
	case errors.Is(err, io.EOF):
		return transport(http.StatusBadRequest, msgJSONParse+domainerrors.ErrEmptyBody.Error()), true
	case errors.Is(err, io.ErrUnexpectedEOF):
		return transport(http.StatusBadRequest, msgJSONParse+io.ErrUnexpectedEOF.Error()), true
	}
	return transport(http.StatusBadRequest, msgJSONParse+domainerrors.ErrMalformedBody.Error()), true
}

func classifyClientError(err error) (Classification, bool) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) || appErr.Status < 400 || appErr.Status > 499 {
		return Classification{}, false
	}
	return Classification{Status: appErr.Status, Code: appErr.Code, Message: appErr.Message}, true
}

func transport(status int, msg string) Classification {
	return Classification{Status: status, Code: domainerrors.CodeTransportFailure, Message: msg}
}

func messageOf(err error, fallback string) string {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
