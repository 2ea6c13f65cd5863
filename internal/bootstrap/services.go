package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/dtapi/booking-api/config"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/data"
	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	httpx "github.com/dtapi/booking-api/internal/http"
	"github.com/dtapi/booking-api/internal/observability/metrics"
	"github.com/dtapi/booking-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Jobs          *service.JobListingService
	Auth          *service.AuthService
	UserCache     *core.UserCacheService
	Health        map[string]httpx.HealthCheck
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink    metrics.Sink
	MetricsHandler http.Handler // nil when Prometheus is disabled
	MetricsConfig  config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Jobs           *data.JobRepo
	Users          *data.UserRepo
	TranslatorJobs *data.TranslatorJobRepo
	Cache          *data.RedisCacheRepo // nil without redis
}

func buildObservability(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) ObservabilityContainer {
	out := ObservabilityContainer{MetricsSink: metrics.Noop{}, MetricsConfig: cfg}
	if !cfg.IsEnabled() {
		return out
	}
	prom := metrics.NewPrometheus(cfg.Namespace)
	out.MetricsSink = prom
	out.MetricsHandler = prom.Handler()
	logger.Info("prometheus metrics enabled", "namespace", cfg.Namespace)
	return out
}

func buildRepositories(deps *ServiceDeps, cacheCfg config.CacheConfig) *serviceRepositories {
	repos := &serviceRepositories{
		Jobs:           data.NewJobRepo(deps.DB, data.RepoConfig{Logger: deps.Logger}),
		Users:          data.NewUserRepo(deps.DB),
		TranslatorJobs: data.NewTranslatorJobRepo(deps.DB),
	}
	if deps.RedisClient != nil && cacheCfg.Enabled {
		repos.Cache = data.NewRedisCacheRepo(deps.RedisClient, cacheCfg.Prefix)
	}
	return repos
}

func newUserCacheService(repos *serviceRepositories, jobsCfg config.JobsConfig, logger *slog.Logger) *core.UserCacheService {
	opts := core.UserCacheServiceOptions{
		Users:  repos.Users,
		Config: core.UserCacheConfig{TTL: jobsCfg.UserCacheTTL},
		Logger: logger,
	}
	if repos.Cache != nil {
		opts.Cache = repos.Cache
	}
	return core.NewUserCacheService(opts)
}

// RolesFromConfig maps the configured admin identifiers to domain roles.
func RolesFromConfig(cfg config.UsersConfig) domainauth.Roles {
	return domainauth.Roles{
		Admin:      domainauth.UserType(cfg.AdminRole),
		SuperAdmin: domainauth.UserType(cfg.SuperAdminRole),
	}
}

func buildHealthChecks(deps *ServiceDeps) map[string]httpx.HealthCheck {
	checks := map[string]httpx.HealthCheck{}
	if deps.DB != nil {
		checks["postgres"] = deps.DB.PingContext
	}
	if deps.RedisClient != nil {
		client := deps.RedisClient
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return checks
}

// NewServices wires repositories, caches and services from configuration.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil || deps.DB == nil {
		return ServiceContainer{}, errors.New("config and database are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	obs := buildObservability(logger, cfg.Observability.Metrics)
	repos := buildRepositories(deps, cfg.Cache)
	userCache := newUserCacheService(repos, cfg.Jobs, logger)

	auth, err := BuildAuthService(ctx, AuthConfig{
		Auth:        cfg.Auth,
		RedisClient: deps.RedisClient,
		Users:       repos.Users,
		UserCache:   userCache,
		Metrics:     obs.MetricsSink,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	jobs := service.NewJobListingService(service.JobListingServiceOptions{
		Repos: service.JobListingRepos{
			Jobs:           repos.Jobs,
			Users:          repos.Users,
			TranslatorJobs: repos.TranslatorJobs,
			UserCache:      userCache,
		},
		Config: service.JobListingConfig{
			Roles:    RolesFromConfig(cfg.Users),
			PageSize: cfg.Jobs.PageSize,
		},
		Logger:  logger,
		Metrics: obs.MetricsSink,
	})

	return ServiceContainer{
		Jobs:          jobs,
		Auth:          auth,
		UserCache:     userCache,
		Health:        buildHealthChecks(deps),
		Observability: obs,
	}, nil
}
