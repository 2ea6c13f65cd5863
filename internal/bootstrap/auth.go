package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dtapi/booking-api/config"
	"github.com/dtapi/booking-api/internal/adapters/devauth"
	"github.com/dtapi/booking-api/internal/adapters/oidc"
	redisadapter "github.com/dtapi/booking-api/internal/adapters/redis"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/observability/metrics"
	"github.com/dtapi/booking-api/internal/ports"
	"github.com/dtapi/booking-api/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Users       core.UserRepository
	UserCache   *core.UserCacheService
	Metrics     metrics.Sink
	Logger      *slog.Logger
}

// BuildAuthService creates the credential resolver. Stored sessions always
// resolve; OIDC and dev verifiers are added when configured.
func BuildAuthService(ctx context.Context, cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth requires a redis client for the session store")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	verifiers, err := buildVerifiers(ctx, cfg.Auth, logger)
	if err != nil {
		return nil, err
	}

	opts := service.AuthServiceOptions{
		Sessions:  redisadapter.NewSessionStore(cfg.RedisClient, redisadapter.WithPrefix(cfg.Auth.SessionPrefix)),
		Users:     cfg.Users,
		Verifiers: verifiers,
		Metrics:   cfg.Metrics,
	}
	// A nil *UserCacheService must not become a non-nil interface.
	if cfg.UserCache != nil {
		opts.UserCache = cfg.UserCache
	}
	return service.NewAuthService(opts), nil
}

func buildVerifiers(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (service.AuthVerifiers, error) {
	var out service.AuthVerifiers

	if cfg.OIDC.Enabled() {
		v, err := oidc.NewVerifier(ctx, oidc.VerifierConfig{
			IssuerURL: cfg.OIDC.IssuerURL,
			ClientID:  cfg.OIDC.ClientID,
		})
		if err != nil {
			return out, fmt.Errorf("create oidc verifier: %w", err)
		}
		out.OIDC = v
		logger.InfoContext(ctx, "oidc bearer verification enabled", "issuer", cfg.OIDC.IssuerURL)
	}

	if cfg.Dev.Enabled() {
		v, err := devauth.NewVerifier(devauth.Config{
			UserID:          cfg.Dev.UserID,
			Email:           cfg.Dev.Email,
			Token:           cfg.Dev.Token,
			SessionDuration: cfg.Dev.SessionDuration,
		})
		if err != nil {
			return out, fmt.Errorf("create dev verifier: %w", err)
		}
		out.Dev = v
		logger.WarnContext(ctx, "dev authentication enabled", "user_id", cfg.Dev.UserID)
	}

	return out, nil
}

// NewSessionStore exposes the configured Redis session store to tooling
// that writes sessions.
func NewSessionStore(client redis.UniversalClient, cfg config.AuthConfig) ports.SessionStore {
	return redisadapter.NewSessionStore(client, redisadapter.WithPrefix(cfg.SessionPrefix))
}
