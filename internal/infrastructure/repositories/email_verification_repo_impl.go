package repositories

import (
	"context"
	"errors"
	"time"

	"account-api.backend/internal/domain/entities"
	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailVerificationRepository implements the email verification ledger
type EmailVerificationRepository struct {
	db *gorm.DB
}

// NewEmailVerificationRepository creates a new email verification repository
func NewEmailVerificationRepository(db *gorm.DB) *EmailVerificationRepository {
	return &EmailVerificationRepository{db: db}
}

// Create inserts a verification token
func (r *EmailVerificationRepository) Create(ctx context.Context, token *entities.EmailVerificationToken) error {
	m := &models.EmailVerifyToken{
		ID:        token.ID,
		UserID:    token.UserID,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.UTC(),
		CreatedAt: token.CreatedAt,
		UpdatedAt: token.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByToken looks a token up by exact match, regardless of expiry
func (r *EmailVerificationRepository) GetByToken(ctx context.Context, token string) (*entities.EmailVerificationToken, error) {
	var m models.EmailVerifyToken
	if err := GetDB(ctx, r.db).Where("token = ?", token).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.EmailVerificationToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// DeleteByID consumes a token. Deleting a row that is already gone reports ErrNotFound.
func (r *EmailVerificationRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Where("id = ?", id).Delete(&models.EmailVerifyToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteExpired removes every token whose expiry is at or before now
func (r *EmailVerificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Where("expires_at <= ?", now.UTC()).Delete(&models.EmailVerifyToken{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
