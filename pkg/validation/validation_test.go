package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,maxbytes=72,strongpassword"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Str0ng!Pass":   true,
		"Aa1!aaaa":      true,
		"Aa1!aaa":       false, // too short
		"str0ng!pass":   false, // no upper
		"STR0NG!PASS":   false, // no lower
		"Strong!Pass":   false, // no digit
		"Str0ngPass":    false, // no symbol
		"Str0ng Pass12": false, // space is not a symbol
		"":              false,
	}
	for pw, want := range cases {
		assert.Equal(t, want, IsStrongPassword(pw), pw)
	}
}

func TestFieldErrors_UsesJSONNamesAndMessages(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(registerInput{
		Email:                "not-an-email",
		Password:             "weakpass",
		PasswordConfirmation: "different",
	})
	require.Error(t, err)

	fields, ok := FieldErrors(err)
	require.True(t, ok)

	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "The name field is required", byField["name"])
	assert.Equal(t, "The email field must be a valid email address", byField["email"])
	assert.Contains(t, byField["password"], "uppercase")
	assert.Equal(t, "The password_confirmation field and password field must be the same", byField["password_confirmation"])
}

func TestFieldErrors_ValidInput(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(registerInput{
		Name:                 "A",
		Email:                "a@x.com",
		Password:             "Str0ng!Pass",
		PasswordConfirmation: "Str0ng!Pass",
	})
	assert.NoError(t, err)
}

func TestFieldErrors_PasswordByteLimit(t *testing.T) {
	v := newValidator(t)

	atLimit := "Str0ng!" + strings.Repeat("a", MaxPasswordBytes-7)
	require.NoError(t, v.Struct(registerInput{
		Name: "A", Email: "a@x.com", Password: atLimit, PasswordConfirmation: atLimit,
	}))

	cases := map[string]string{
		"ascii":     "Str0ng!" + strings.Repeat("a", MaxPasswordBytes-6),
		"multibyte": "Str0ng!" + strings.Repeat("é", 40), // 47 runes, 87 bytes
	}
	for name, pw := range cases {
		t.Run(name, func(t *testing.T) {
			err := v.Struct(registerInput{Name: "A", Email: "a@x.com", Password: pw, PasswordConfirmation: pw})
			require.Error(t, err)

			fields, ok := FieldErrors(err)
			require.True(t, ok)
			require.Len(t, fields, 1)
			assert.Equal(t, "password", fields[0].Field)
			assert.Equal(t, "The password field must not be greater than 72 bytes", fields[0].Message)
		})
	}
}

func TestFieldErrors_NotValidatorError(t *testing.T) {
	fields, ok := FieldErrors(errors.New("boom"))
	assert.False(t, ok)
	assert.Nil(t, fields)
}

func TestRegisterGinValidators_Idempotent(t *testing.T) {
	require.NoError(t, RegisterGinValidators())
	require.NoError(t, RegisterGinValidators())
}
