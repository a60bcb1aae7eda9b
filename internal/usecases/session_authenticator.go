package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"account-api.backend/internal/domain/entities"
	domainerrors "account-api.backend/internal/domain/errors"
	"account-api.backend/pkg/jwt"
	"account-api.backend/pkg/logger"
	"account-api.backend/pkg/metrics"
	"account-api.backend/pkg/redis"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Rejection messages of the authentication gate
const (
	MsgInvalidToken         = "Invalid token"
	MsgTokenExpired         = "Token has expired"
	MsgUserNotFoundVerified = "User not found or email not verified"
)

// VerifiedUserLookup finds a user whose email has been verified
type VerifiedUserLookup interface {
	GetVerifiedByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// SessionAuthenticator turns a bearer token into an authenticated identity.
// The session cache is consulted first; on a miss the store is queried and
// the snapshot is cached for ttl.
type SessionAuthenticator struct {
	tokens   TokenVerifier
	sessions SessionCache
	users    VerifiedUserLookup
	ttl      time.Duration
	metrics  *metrics.Metrics
}

// NewSessionAuthenticator creates the gate
func NewSessionAuthenticator(tokens TokenVerifier, sessions SessionCache, users VerifiedUserLookup, ttl time.Duration, m *metrics.Metrics) *SessionAuthenticator {
	if m == nil {
		m = metrics.NewNop()
	}
	return &SessionAuthenticator{
		tokens:   tokens,
		sessions: sessions,
		users:    users,
		ttl:      ttl,
		metrics:  m,
	}
}

// Authenticate verifies token and resolves the caller
func (a *SessionAuthenticator) Authenticate(ctx context.Context, token string) (*entities.UserProjection, error) {
	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, domainerrors.Unauthorized(MsgTokenExpired)
		}
		return nil, domainerrors.Unauthorized(MsgInvalidToken)
	}

	subject := claims.UserID.String()

	var cached entities.UserProjection
	hit, err := a.sessions.Get(ctx, subject, &cached)
	switch {
	case errors.Is(err, redis.ErrCorruptEntry):
		a.metrics.SessionCacheLookups.WithLabelValues(metrics.CacheCorrupt).Inc()
		logger.Warn(ctx, "discarding undecodable session cache entry", zap.String("user_id", subject))
	case err != nil:
		a.metrics.SessionCacheLookups.WithLabelValues(metrics.CacheError).Inc()
		return nil, fmt.Errorf("session cache lookup: %w", err)
	case hit && cached.ID == claims.UserID:
		a.metrics.SessionCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		return &cached, nil
	case hit:
		a.metrics.SessionCacheLookups.WithLabelValues(metrics.CacheCorrupt).Inc()
		logger.Warn(ctx, "session cache entry belongs to another subject", zap.String("user_id", subject))
	default:
		a.metrics.SessionCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	}

	user, err := a.users.GetVerifiedByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized(MsgUserNotFoundVerified)
		}
		return nil, err
	}

	projection := user.Projection()
	if err := a.sessions.Set(ctx, subject, projection, a.ttl); err != nil {
		a.metrics.SessionCacheWrites.WithLabelValues("failed").Inc()
		logger.Warn(ctx, "failed to cache session", zap.String("user_id", subject), zap.Error(err))
	} else {
		a.metrics.SessionCacheWrites.WithLabelValues("stored").Inc()
	}

	return &projection, nil
}
