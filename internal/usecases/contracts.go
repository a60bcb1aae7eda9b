package usecases

import (
	"context"
	"time"

	"account-api.backend/pkg/jwt"
	"github.com/google/uuid"
)

// TokenIssuer signs bearer tokens for a subject
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID) (string, error)
}

// TokenVerifier checks a bearer token's signature and expiry
type TokenVerifier interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// SessionCache stores public user snapshots keyed by subject id, with a TTL
type SessionCache interface {
	Get(ctx context.Context, subjectID string, dst interface{}) (bool, error)
	Set(ctx context.Context, subjectID string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, subjectID string) error
}

// VerificationMailer delivers the email-verification link
type VerificationMailer interface {
	SendVerification(ctx context.Context, name, email, token string, validFor time.Duration) error
}

// ErrFunc receives failures from work that runs outside the request
type ErrFunc func(error)
