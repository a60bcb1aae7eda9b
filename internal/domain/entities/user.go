package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User represents a user entity
type User struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	EmailVerifiedAt null.Time `json:"email_verified_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsVerified reports whether the user has confirmed their email address
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt.Valid
}

// Projection returns the public view of the user
func (u *User) Projection() UserProjection {
	return UserProjection{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// UserProjection is the subset of a user that is safe to return to clients.
// It is also the value stored in the session cache.
type UserProjection struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// RegisterInput represents input for creating a user
type RegisterInput struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8,maxbytes=72,strongpassword"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailInput represents input for consuming a verification token
type VerifyEmailInput struct {
	Token string `json:"token" form:"token"`
}

// UpdateProfileInput represents input for updating the caller's profile
type UpdateProfileInput struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}

// LoginResult is returned after successful credential verification
type LoginResult struct {
	UserInformation UserProjection `json:"user_information"`
	Token           string         `json:"token"`
}
