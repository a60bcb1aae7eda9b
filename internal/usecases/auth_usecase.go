package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"account-api.backend/internal/domain/entities"
	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/internal/domain/repositories"
	"account-api.backend/internal/infrastructure/mail"
	"account-api.backend/pkg/crypto"
	"account-api.backend/pkg/logger"
	"account-api.backend/pkg/metrics"
	"account-api.backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultMailTimeout = 30 * time.Second

var (
	hashPassword              = crypto.HashPassword
	checkPassword             = crypto.CheckPassword
	generateVerificationToken = crypto.GenerateVerificationToken
)

// AuthOptions holds the policy knobs of AuthUsecase
type AuthOptions struct {
	// InvalidateSessionOnMutation drops the cached session when the user changes or logs out.
	InvalidateSessionOnMutation bool
	MailTimeout                 time.Duration
	Metrics                     *metrics.Metrics
	// ErrHandler receives verification email failures. Defaults to logging them.
	ErrHandler ErrFunc
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo       repositories.UserRepository
	emailVerifRepo repositories.EmailVerificationRepository
	uow            repositories.UnitOfWork
	tokens         TokenIssuer
	sessions       SessionCache
	mailer         VerificationMailer
	opts           AuthOptions
	wg             *sync.WaitGroup
	nowFunc        func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	emailVerifRepo repositories.EmailVerificationRepository,
	uow repositories.UnitOfWork,
	tokens TokenIssuer,
	sessions SessionCache,
	mailer VerificationMailer,
	opts AuthOptions,
) *AuthUsecase {
	if opts.MailTimeout <= 0 {
		opts.MailTimeout = defaultMailTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNop()
	}
	if opts.ErrHandler == nil {
		opts.ErrHandler = func(err error) {
			logger.Error(context.Background(), "background task failed", zap.Error(err))
		}
	}
	return &AuthUsecase{
		userRepo:       userRepo,
		emailVerifRepo: emailVerifRepo,
		uow:            uow,
		tokens:         tokens,
		sessions:       sessions,
		mailer:         mailer,
		opts:           opts,
		wg:             &sync.WaitGroup{},
		nowFunc:        time.Now,
	}
}

// Wait blocks until every pending verification email has been handed off
func (u *AuthUsecase) Wait() {
	u.wg.Wait()
}

// Register creates an unverified user together with its verification token and
// emails the link. No bearer token is issued until the address is verified.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.UserProjection, error) {
	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.DuplicateEmail()
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	token, err := generateVerificationToken()
	if err != nil {
		return nil, err
	}

	now := u.nowFunc().UTC()
	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	verification := &entities.EmailVerificationToken{
		ID:        utils.GenerateUUIDv7(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(entities.EmailVerificationTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		return u.emailVerifRepo.Create(txCtx, verification)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateEmail) {
			return nil, domainerrors.DuplicateEmail()
		}
		return nil, err
	}

	u.dispatchVerification(ctx, user, token)

	projection := user.Projection()
	return &projection, nil
}

// dispatchVerification sends the email on a worker so a slow or failing relay
// never affects the registration response.
func (u *AuthUsecase) dispatchVerification(ctx context.Context, user *entities.User, token string) {
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()

		wCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.opts.MailTimeout)
		defer cancel()

		err := u.mailer.SendVerification(wCtx, user.Name, user.Email, token, entities.EmailVerificationTTL)
		if err != nil {
			u.opts.Metrics.MailDispatch.WithLabelValues(mail.ViewVerifyEmail, "failed").Inc()
			logger.Error(wCtx, "failed to send verification email",
				zap.String("user_id", user.ID.String()),
				zap.String("recipient", user.Email),
				zap.Error(err),
			)
			u.opts.ErrHandler(fmt.Errorf("send verification email for user %s: %w", user.ID, err))
			return
		}
		u.opts.Metrics.MailDispatch.WithLabelValues(mail.ViewVerifyEmail, "sent").Inc()
	}()
}

// Login verifies credentials of a verified user and issues a bearer token.
// Unknown email, unverified email and wrong password are indistinguishable.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.LoginResult, error) {
	user, err := u.userRepo.GetVerifiedByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials()
		}
		return nil, err
	}

	if !checkPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.InvalidCredentials()
	}

	token, err := u.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &entities.LoginResult{
		UserInformation: user.Projection(),
		Token:           token,
	}, nil
}

// VerifyEmail consumes a verification token and marks the owner verified.
// Expired tokens are rejected and left in place.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, token string) (*entities.UserProjection, error) {
	if token == "" {
		return nil, domainerrors.NewValidationError("token", "The token field is required")
	}

	record, err := u.emailVerifRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidOrExpiredToken()
		}
		return nil, err
	}

	now := u.nowFunc()
	if record.IsExpired(now) {
		return nil, domainerrors.InvalidOrExpiredToken()
	}

	user, err := u.userRepo.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.MarkEmailVerified(txCtx, user.ID, now); err != nil {
			return err
		}
		// a concurrent request consumed the same token first
		if err := u.emailVerifRepo.DeleteByID(txCtx, record.ID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.InvalidOrExpiredToken()
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}

	projection := user.Projection()
	return &projection, nil
}

// UpdateProfile changes the caller's display name
func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProjection, error) {
	if err := u.userRepo.UpdateName(ctx, userID, input.Name); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}

	if u.opts.InvalidateSessionOnMutation {
		if err := u.sessions.Delete(ctx, userID.String()); err != nil {
			logger.Warn(ctx, "failed to invalidate session after profile update",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	projection := user.Projection()
	return &projection, nil
}

// Logout drops the cached session when the invalidation policy is on.
// Bearer tokens stay valid until they expire.
func (u *AuthUsecase) Logout(ctx context.Context, userID uuid.UUID) error {
	if !u.opts.InvalidateSessionOnMutation {
		return nil
	}
	return u.sessions.Delete(ctx, userID.String())
}
