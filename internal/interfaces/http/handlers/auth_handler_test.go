package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"account-api.backend/internal/domain/entities"
	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/internal/interfaces/http/middleware"
	"account-api.backend/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authServiceStub struct {
	registerFn      func(ctx context.Context, input *entities.RegisterInput) (*entities.UserProjection, error)
	loginFn         func(ctx context.Context, input *entities.LoginInput) (*entities.LoginResult, error)
	verifyEmailFn   func(ctx context.Context, token string) (*entities.UserProjection, error)
	updateProfileFn func(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProjection, error)
	logoutFn        func(ctx context.Context, userID uuid.UUID) error
}

func (s authServiceStub) Register(ctx context.Context, input *entities.RegisterInput) (*entities.UserProjection, error) {
	return s.registerFn(ctx, input)
}
func (s authServiceStub) Login(ctx context.Context, input *entities.LoginInput) (*entities.LoginResult, error) {
	return s.loginFn(ctx, input)
}
func (s authServiceStub) VerifyEmail(ctx context.Context, token string) (*entities.UserProjection, error) {
	return s.verifyEmailFn(ctx, token)
}
func (s authServiceStub) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProjection, error) {
	return s.updateProfileFn(ctx, userID, input)
}
func (s authServiceStub) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.logoutFn(ctx, userID)
}

type envelope struct {
	Status  int                     `json:"status"`
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    json.RawMessage         `json:"data"`
	Errors  []validation.FieldError `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func newAuthTestRouter(h *AuthHandler, caller *entities.UserProjection) *gin.Engine {
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/verify-email", h.VerifyEmail)

	withUser := func(c *gin.Context) {
		if caller != nil {
			c.Set(middleware.UserKey, caller)
		}
		c.Next()
	}
	r.GET("/profile", withUser, h.GetProfile)
	r.PUT("/profile", withUser, h.UpdateProfile)
	r.POST("/logout", withUser, h.Logout)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterGinValidators())

	userID := uuid.New()
	h := NewAuthHandler(authServiceStub{
		registerFn: func(_ context.Context, input *entities.RegisterInput) (*entities.UserProjection, error) {
			if input.Email == "taken@example.com" {
				return nil, domainerrors.DuplicateEmail()
			}
			return &entities.UserProjection{ID: userID, Name: input.Name, Email: input.Email}, nil
		},
	})
	r := newAuthTestRouter(h, nil)

	t.Run("created", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/register",
			`{"name":"Ann","email":"ann@example.com","password":"Secret1!x","password_confirmation":"Secret1!x"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		assert.Equal(t, MsgRegistered, env.Message)

		var user entities.UserProjection
		require.NoError(t, json.Unmarshal(env.Data, &user))
		assert.Equal(t, userID, user.ID)
		assert.NotContains(t, string(env.Data), "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/register",
			`{"name":"Ann","email":"taken@example.com","password":"Secret1!x","password_confirmation":"Secret1!x"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "Email already registered", decodeEnvelope(t, rec).Message)
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/register",
			`{"name":"Ann","email":"not-an-email","password":"weakpass","password_confirmation":"other"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Validation failed", env.Message)
		fields := map[string]bool{}
		for _, fe := range env.Errors {
			fields[fe.Field] = true
		}
		assert.True(t, fields["email"])
		assert.True(t, fields["password"])
		assert.True(t, fields["password_confirmation"])
	})

	t.Run("password over bcrypt limit", func(t *testing.T) {
		pw := "Str0ng!" + strings.Repeat("a", 66)
		rec := doJSON(r, http.MethodPost, "/register",
			`{"name":"Ann","email":"ann@example.com","password":"`+pw+`","password_confirmation":"`+pw+`"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

		env := decodeEnvelope(t, rec)
		require.Len(t, env.Errors, 1)
		assert.Equal(t, validation.FieldError{Field: "password", Message: "The password field must not be greater than 72 bytes"}, env.Errors[0])
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/register", `{"name":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "JSON Parse error: unexpected EOF", decodeEnvelope(t, rec).Message)
	})

	t.Run("wrong field type", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/register", `{"name":42}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "JSON Parse error: field name must be of type string", decodeEnvelope(t, rec).Message)
	})

	t.Run("empty body", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/register", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "JSON Parse error: "+domainerrors.ErrEmptyBody.Error(), decodeEnvelope(t, rec).Message)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterGinValidators())

	user := entities.UserProjection{ID: uuid.New(), Name: "Ann", Email: "ann@example.com"}
	h := NewAuthHandler(authServiceStub{
		loginFn: func(_ context.Context, input *entities.LoginInput) (*entities.LoginResult, error) {
			switch input.Email {
			case "ann@example.com":
				return &entities.LoginResult{UserInformation: user, Token: "signed"}, nil
			case "boom@example.com":
				return nil, errors.New("db down")
			}
			return nil, domainerrors.InvalidCredentials()
		},
	})
	r := newAuthTestRouter(h, nil)

	rec := doJSON(r, http.MethodPost, "/login", `{"email":"ann@example.com","password":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":200,"success":true,"message":"Login successful","data":{"user_information":{"id":"`+user.ID.String()+`","name":"Ann","email":"ann@example.com"},"token":"signed"}}`, rec.Body.String())

	rec = doJSON(r, http.MethodPost, "/login", `{"email":"who@example.com","password":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeEnvelope(t, rec).Message)

	rec = doJSON(r, http.MethodPost, "/login", `{"email":"boom@example.com","password":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeEnvelope(t, rec).Message)
	assert.NotContains(t, rec.Body.String(), "db down")

	rec = doJSON(r, http.MethodPost, "/login", `{"email":"ann@example.com"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, decodeEnvelope(t, rec).Errors, 1)
	assert.Equal(t, "password", decodeEnvelope(t, rec).Errors[0].Field)
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &entities.UserProjection{ID: uuid.New(), Name: "Ann", Email: "ann@example.com"}
	var got []string
	h := NewAuthHandler(authServiceStub{
		verifyEmailFn: func(_ context.Context, token string) (*entities.UserProjection, error) {
			got = append(got, token)
			switch token {
			case "good":
				return user, nil
			case "":
				return nil, domainerrors.NewValidationError("token", "The token field is required")
			case "orphan":
				return nil, domainerrors.NotFound("User not found")
			}
			return nil, domainerrors.InvalidOrExpiredToken()
		},
	})
	r := newAuthTestRouter(h, nil)

	rec := doJSON(r, http.MethodPost, "/verify-email", `{"token":"good"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MsgEmailVerified, decodeEnvelope(t, rec).Message)

	rec = doJSON(r, http.MethodPost, "/verify-email?token=good", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(r, http.MethodPost, "/verify-email?token=ignored", `{"token":"stale"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Invalid or expired verification token", decodeEnvelope(t, rec).Message)

	rec = doJSON(r, http.MethodPost, "/verify-email", `{"token":"orphan"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(r, http.MethodPost, "/verify-email", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "token", decodeEnvelope(t, rec).Errors[0].Field)

	rec = doJSON(r, http.MethodPost, "/verify-email", `{"token":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, []string{"good", "good", "stale", "orphan", ""}, got)
}

func TestAuthHandler_Profile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterGinValidators())

	caller := &entities.UserProjection{ID: uuid.New(), Name: "Ann", Email: "ann@example.com"}
	var loggedOut uuid.UUID
	h := NewAuthHandler(authServiceStub{
		updateProfileFn: func(_ context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProjection, error) {
			return &entities.UserProjection{ID: userID, Name: input.Name, Email: caller.Email}, nil
		},
		logoutFn: func(_ context.Context, userID uuid.UUID) error {
			loggedOut = userID
			return nil
		},
	})

	t.Run("get", func(t *testing.T) {
		rec := doJSON(newAuthTestRouter(h, caller), http.MethodGet, "/profile", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var user entities.UserProjection
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &user))
		assert.Equal(t, *caller, user)
	})

	t.Run("update", func(t *testing.T) {
		rec := doJSON(newAuthTestRouter(h, caller), http.MethodPut, "/profile", `{"name":"Annie"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var user entities.UserProjection
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &user))
		assert.Equal(t, "Annie", user.Name)
	})

	t.Run("update rejects short name", func(t *testing.T) {
		rec := doJSON(newAuthTestRouter(h, caller), http.MethodPut, "/profile", `{"name":"A"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("logout", func(t *testing.T) {
		rec := doJSON(newAuthTestRouter(h, caller), http.MethodPost, "/logout", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, caller.ID, loggedOut)
	})

	t.Run("no caller", func(t *testing.T) {
		r := newAuthTestRouter(h, nil)
		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/profile"},
			{http.MethodPut, "/profile"},
			{http.MethodPost, "/logout"},
		} {
			rec := doJSON(r, tc.method, tc.path, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		}
	})
}
