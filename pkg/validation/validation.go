// Package validation wires request validation rules into gin's validator engine
// and turns validator failures into field-level messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Custom struct tags
const (
	StrongPasswordTag = "strongpassword"
	MaxBytesTag       = "maxbytes"
)

// Password policy. Every class must match at least once.
const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72

	PasswordUpperPattern  = `[A-Z]`
	PasswordLowerPattern  = `[a-z]`
	PasswordDigitPattern  = `[0-9]`
	PasswordSymbolPattern = `[^A-Za-z0-9\s]`
)

var passwordClasses = []*regexp.Regexp{
	regexp.MustCompile(PasswordUpperPattern),
	regexp.MustCompile(PasswordLowerPattern),
	regexp.MustCompile(PasswordDigitPattern),
	regexp.MustCompile(PasswordSymbolPattern),
}

var (
	registerOnce sync.Once
	registerErr  error
)

// FieldError is a single client-facing validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// IsStrongPassword reports whether s satisfies the password policy
func IsStrongPassword(s string) bool {
	if len([]rune(s)) < MinPasswordLength {
		return false
	}
	for _, re := range passwordClasses {
		if !re.MatchString(s) {
			return false
		}
	}
	return true
}

func strongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// maxBytes bounds the UTF-8 length of a string field, unlike max which
// counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// jsonFieldName reports struct fields by their json name
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Register installs the custom rules on v
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(MaxBytesTag, maxBytes); err != nil {
		return err
	}
	return v.RegisterValidation(StrongPasswordTag, strongPassword)
}

// RegisterGinValidators installs the custom rules on gin's default engine.
// Safe to call more than once.
func RegisterGinValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		registerErr = Register(v)
	})
	return registerErr
}

// FieldErrors converts validator failures into client-facing messages.
// The bool is false when err is not a validator error.
func FieldErrors(err error) ([]FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out, true
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address", field)
	case "min":
		return fmt.Sprintf("The %s field must have at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters", field, fe.Param())
	case MaxBytesTag:
		return fmt.Sprintf("The %s field must not be greater than %s bytes", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field and %s field must be the same", field, strings.ToLower(fe.Param()))
	case StrongPasswordTag:
		return fmt.Sprintf("The %s field must contain an uppercase letter, a lowercase letter, a number and a symbol", field)
	default:
		return fmt.Sprintf("The %s field is invalid", field)
	}
}
