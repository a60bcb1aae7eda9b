package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"account-api.backend/internal/domain/entities"
	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/internal/interfaces/http/middleware"
	"account-api.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	MsgRegistered       = "User registered successfully. Please check your email to verify your account."
	MsgLoggedIn         = "Login successful"
	MsgEmailVerified    = "Email verified successfully"
	MsgProfile          = "Profile retrieved successfully"
	MsgProfileUpdated   = "Profile updated successfully"
	MsgLoggedOut        = "Logged out successfully"
	msgNotAuthenticated = "User not authenticated"
)

type authService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.UserProjection, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.LoginResult, error)
	VerifyEmail(ctx context.Context, token string) (*entities.UserProjection, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProjection, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

// AuthHandler handles authentication and profile endpoints
type AuthHandler struct {
	authUsecase authService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase authService) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Register handles user registration
// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, MsgRegistered, user)
}

// Login handles user login
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, MsgLoggedIn, result)
}

// VerifyEmail consumes a verification token taken from the JSON body,
// or from the token query parameter when the body is empty.
// POST /verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input entities.VerifyEmailInput
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &input); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, err)
			return
		}
	}
	if input.Token == "" {
		input.Token = c.Query("token")
	}

	user, err := h.authUsecase.VerifyEmail(c.Request.Context(), input.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, MsgEmailVerified, user)
}

// GetProfile returns the authenticated caller
// GET /profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized(msgNotAuthenticated))
		return
	}

	response.Success(c, http.StatusOK, MsgProfile, user)
}

// UpdateProfile changes the caller's name
// PUT /profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized(msgNotAuthenticated))
		return
	}

	var input entities.UpdateProfileInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.authUsecase.UpdateProfile(c.Request.Context(), user.ID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, MsgProfileUpdated, updated)
}

// Logout drops the caller's cached session
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized(msgNotAuthenticated))
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), user.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, MsgLoggedOut, nil)
}
