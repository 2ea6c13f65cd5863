package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func parseEnv(t *testing.T, vars map[string]string) AppConfig {
	t.Helper()
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	cfg.Sanitize()
	return cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	cfg := parseEnv(t, map[string]string{})

	if cfg.IsDev {
		t.Fatal("expected production mode by default")
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTP.Addr)
	}
	if cfg.Postgres.Host != "localhost" || cfg.Postgres.Port != 5432 {
		t.Fatalf("unexpected postgres defaults %+v", cfg.Postgres)
	}
	if cfg.Users.AdminRole != "admin" || cfg.Users.SuperAdminRole != "superadmin" {
		t.Fatalf("unexpected role defaults %+v", cfg.Users)
	}
	if cfg.Jobs.PageSize != 15 {
		t.Fatalf("expected page size 15, got %d", cfg.Jobs.PageSize)
	}
	if cfg.Jobs.UserCacheTTL != 5*time.Minute {
		t.Fatalf("expected user cache ttl 5m, got %v", cfg.Jobs.UserCacheTTL)
	}
	if cfg.Auth.OIDC.Enabled() || cfg.Auth.Dev.Enabled() {
		t.Fatal("expected token verifiers to be disabled by default")
	}
	if cfg.Observability.Metrics.IsEnabled() {
		t.Fatal("expected metrics to be disabled by default")
	}
	if cfg.Auth.SessionPrefix != "session:" {
		t.Fatalf("unexpected session prefix %q", cfg.Auth.SessionPrefix)
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	cfg := parseEnv(t, map[string]string{
		"DEV":                                "true",
		"DB_HOST":                            "db",
		"HTTP_REQUEST_TIMEOUT":               "3s",
		"REDIS_URI":                          "redis://cache:6379/1",
		"AUTH_OIDC_ISSUER_URL":               "https://id.example.com",
		"AUTH_OIDC_CLIENT_ID":                "booking",
		"DEV_AUTH_USER_ID":                   "7",
		"USERS_ADMIN_ROLE":                   "staff",
		"USERS_SUPERADMIN_ROLE":              "root",
		"JOBS_PAGE_SIZE":                     "50",
		"JOBS_USER_CACHE_TTL":                "1m",
		"OBSERVABILITY_PROMETHEUS_ENABLED":   "true",
		"OBSERVABILITY_PROMETHEUS_NAMESPACE": "bookings",
		"HTTP_COMPRESSION_ENABLED":           "true",
	})

	if !cfg.IsDev {
		t.Fatal("expected dev mode")
	}
	if cfg.Postgres.Host != "db" {
		t.Fatalf("unexpected postgres config %+v", cfg.Postgres)
	}
	if cfg.HTTP.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected request timeout %v", cfg.HTTP.RequestTimeout)
	}
	if cfg.Redis.URI != "redis://cache:6379/1" {
		t.Fatalf("unexpected redis uri %q", cfg.Redis.URI)
	}
	if !cfg.Auth.OIDC.Enabled() {
		t.Fatal("expected oidc to be enabled")
	}
	if !cfg.Auth.Dev.Enabled() || cfg.Auth.Dev.UserID != 7 {
		t.Fatalf("expected dev auth for user 7, got %+v", cfg.Auth.Dev)
	}
	if cfg.Users.AdminRole != "staff" || cfg.Users.SuperAdminRole != "root" {
		t.Fatalf("unexpected roles %+v", cfg.Users)
	}
	if cfg.Jobs.PageSize != 50 || cfg.Jobs.UserCacheTTL != time.Minute {
		t.Fatalf("unexpected jobs config %+v", cfg.Jobs)
	}
	if !cfg.Observability.Metrics.IsEnabled() || cfg.Observability.Metrics.Namespace != "bookings" {
		t.Fatalf("unexpected metrics config %+v", cfg.Observability.Metrics)
	}
	if !cfg.HTTP.CompressionEnabled {
		t.Fatal("expected compression to be enabled")
	}
}

func TestAppConfig_DevAuthRequiresDevMode(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	cfg := parseEnv(t, map[string]string{"DEV_AUTH_USER_ID": "7"})

	if cfg.Auth.Dev.Enabled() {
		t.Fatal("expected dev auth to be disabled outside dev mode")
	}
}

func TestAppConfig_DetectDevModeFromAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "Development")
	cfg := parseEnv(t, map[string]string{"DEV_AUTH_USER_ID": "3"})

	if !cfg.IsDev {
		t.Fatal("expected APP_ENV=development to enable dev mode")
	}
	if cfg.Auth.Dev.UserID != 3 {
		t.Fatalf("expected dev user 3 to survive, got %d", cfg.Auth.Dev.UserID)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{in: 0, want: 1},
		{in: 6, want: 6},
		{in: 12, want: 9},
	}
	for _, tt := range tests {
		cfg := HTTPConfig{CompressionLevel: tt.in}
		cfg.Sanitize()
		if cfg.CompressionLevel != tt.want {
			t.Fatalf("level %d: expected %d, got %d", tt.in, tt.want, cfg.CompressionLevel)
		}
		if cfg.Addr != ":8080" || cfg.ShutdownTimeout != 30*time.Second {
			t.Fatalf("expected defaults to be restored, got %+v", cfg)
		}
	}
}

func TestUsersConfig_Sanitize(t *testing.T) {
	cfg := UsersConfig{AdminRole: "  ", SuperAdminRole: " root "}
	cfg.Sanitize()

	if cfg.AdminRole != "admin" {
		t.Fatalf("expected admin default, got %q", cfg.AdminRole)
	}
	if cfg.SuperAdminRole != "root" {
		t.Fatalf("expected trimmed role, got %q", cfg.SuperAdminRole)
	}
}

func TestJobsConfig_Sanitize(t *testing.T) {
	cfg := JobsConfig{PageSize: -4, UserCacheTTL: -time.Second}
	cfg.Sanitize()

	if cfg.PageSize != 15 {
		t.Fatalf("expected default page size, got %d", cfg.PageSize)
	}
	if cfg.UserCacheTTL != 0 {
		t.Fatalf("expected negative ttl to disable caching, got %v", cfg.UserCacheTTL)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, Namespace: " booking-api "}
	cfg.Sanitize()

	if cfg.Namespace != "booking_api" {
		t.Fatalf("expected dashes to be replaced, got %q", cfg.Namespace)
	}

	cfg = ObservabilityMetricsConfig{Enabled: true, Namespace: "9bad name"}
	cfg.Sanitize()

	if cfg.Namespace != defaultMetricsNamespace {
		t.Fatalf("expected invalid namespace to fall back, got %q", cfg.Namespace)
	}
	if !cfg.IsEnabled() {
		t.Fatal("expected metrics to remain enabled")
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{
		OIDC: OIDCConfig{IssuerURL: " https://id.example.com ", ClientID: " "},
		Dev:  DevAuthConfig{UserID: -1},
	}
	cfg.Sanitize()

	if cfg.OIDC.Enabled() {
		t.Fatal("expected oidc without client id to be disabled")
	}
	if cfg.OIDC.IssuerURL != "https://id.example.com" {
		t.Fatalf("expected trimmed issuer, got %q", cfg.OIDC.IssuerURL)
	}
	if cfg.Dev.UserID != 0 || cfg.Dev.SessionDuration != 8*time.Hour {
		t.Fatalf("unexpected dev auth config %+v", cfg.Dev)
	}
	if cfg.SessionPrefix != "session:" {
		t.Fatalf("expected default session prefix, got %q", cfg.SessionPrefix)
	}
}
