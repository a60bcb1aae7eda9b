package repositories

import (
	"context"
	"errors"

	"account-api.backend/internal/domain/entities"
	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/internal/infrastructure/models"
	"gorm.io/gorm"
)

// PasswordResetRepository implements the password reset ledger
type PasswordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new password reset repository
func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create inserts a reset token
func (r *PasswordResetRepository) Create(ctx context.Context, token *entities.PasswordResetToken) error {
	m := &models.PasswordResetToken{
		ID:        token.ID,
		UserID:    token.UserID,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.UTC(),
		CreatedAt: token.CreatedAt,
		UpdatedAt: token.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByToken looks a reset token up by exact match
func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*entities.PasswordResetToken, error) {
	var m models.PasswordResetToken
	if err := GetDB(ctx, r.db).Where("token = ?", token).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.PasswordResetToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// DeleteByToken consumes a reset token
func (r *PasswordResetRepository) DeleteByToken(ctx context.Context, token string) error {
	result := GetDB(ctx, r.db).Where("token = ?", token).Delete(&models.PasswordResetToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
