package repositories

import (
	"context"
	"time"

	"account-api.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	// GetVerifiedByEmail only matches users whose email_verified_at is set.
	GetVerifiedByEmail(ctx context.Context, email string) (*entities.User, error)
	// GetVerifiedByID only matches users whose email_verified_at is set.
	GetVerifiedByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error
}

// EmailVerificationRepository defines email verification ledger operations
type EmailVerificationRepository interface {
	Create(ctx context.Context, token *entities.EmailVerificationToken) error
	GetByToken(ctx context.Context, token string) (*entities.EmailVerificationToken, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PasswordResetRepository defines password reset ledger operations
type PasswordResetRepository interface {
	Create(ctx context.Context, token *entities.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*entities.PasswordResetToken, error)
	DeleteByToken(ctx context.Context, token string) error
}
