package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/extreme-startup/internal/auth/jwt"
	"github.com/gokatarajesh/extreme-startup/internal/logging"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Revoker remembers logged-out token ids until they would have expired.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Token is an issued admin session.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ServiceOptions configures the auth service. One of AdminPassword or
// AdminPasswordHash is required; a plain password is hashed on startup.
type ServiceOptions struct {
	AdminPassword     string
	AdminPasswordHash string
	TokenConfig       jwt.TokenConfig
	Revoker           Revoker
}

// Service authenticates the game administrator.
type Service struct {
	passwordHash string
	tokenMgr     *jwt.Manager
	revoker      Revoker
	logger       zerolog.Logger
}

// NewService creates an authentication service.
func NewService(opts ServiceOptions, logger zerolog.Logger) (*Service, error) {
	hash := opts.AdminPasswordHash
	if hash == "" {
		if opts.AdminPassword == "" {
			return nil, errors.New("admin password not configured")
		}
		h, err := HashPassword(opts.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = h
	} else if err := checkHash(hash); err != nil {
		return nil, err
	}

	return &Service{
		passwordHash: hash,
		tokenMgr:     jwt.NewManager(opts.TokenConfig),
		revoker:      opts.Revoker,
		logger:       logging.Component(logger, "auth"),
	}, nil
}

// Login exchanges the admin password for a signed token.
func (s *Service) Login(ctx context.Context, password string) (*Token, error) {
	if err := VerifyPassword(s.passwordHash, password); err != nil {
		s.logger.Warn().Msg("admin login rejected")
		return nil, ErrInvalidCredentials
	}

	signed, claims, err := s.tokenMgr.GenerateAdminToken()
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info().Str("token_id", claims.ID).Msg("admin logged in")
	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// ValidateToken checks signature, expiry and revocation.
func (s *Service) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.tokenMgr.Validate(token)
	if err != nil {
		return nil, err
	}
	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Logout revokes the token behind claims for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.revoker == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info().Str("token_id", claims.ID).Msg("admin logged out")
	return nil
}

// RedisRevoker stores revoked token ids as expiring Redis keys.
type RedisRevoker struct {
	redis  *redis.Client
	prefix string
}

func NewRedisRevoker(client *redis.Client, prefix string) *RedisRevoker {
	if prefix == "" {
		prefix = "auth:revoked"
	}
	return &RedisRevoker{redis: client, prefix: prefix}
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return r.redis.Set(ctx, r.key(tokenID), 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.redis.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisRevoker) key(tokenID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, tokenID)
}
