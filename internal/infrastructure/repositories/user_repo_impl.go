package repositories

import (
	"context"
	"errors"
	"time"

	"account-api.backend/internal/domain/entities"
	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. A unique violation on email maps to ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Password:        user.PasswordHash,
		EmailVerifiedAt: user.EmailVerifiedAt.Ptr(),
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}

	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(GetDB(ctx, r.db).Where("id = ?", id))
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(GetDB(ctx, r.db).Where("email = ?", email))
}

// GetVerifiedByEmail gets a verified user by email
func (r *UserRepository) GetVerifiedByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(GetDB(ctx, r.db).Where("email = ? AND email_verified_at IS NOT NULL", email))
}

// GetVerifiedByID gets a verified user by ID
func (r *UserRepository) GetVerifiedByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(GetDB(ctx, r.db).Where("id = ? AND email_verified_at IS NOT NULL", id))
}

// UpdateName updates a user's display name
func (r *UserRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":       name,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkEmailVerified stamps email_verified_at. An already verified user keeps
// the existing timestamp.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	db := GetDB(ctx, r.db)
	result := db.Model(&models.User{}).
		Where("id = ? AND email_verified_at IS NULL", id).
		Updates(map[string]interface{}{
			"email_verified_at": at.UTC(),
			"updated_at":        at.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) first(query *gorm.DB) (*entities.User, error) {
	var m models.User
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		PasswordHash:    m.Password,
		EmailVerifiedAt: null.TimeFromPtr(m.EmailVerifiedAt),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
