package config

import (
	"strings"
	"time"
)

// OIDCConfig configures bearer ID-token verification.
// Verification is enabled when both IssuerURL and ClientID are set.
type OIDCConfig struct {
	IssuerURL string `env:"ISSUER_URL"`
	ClientID  string `env:"CLIENT_ID"`
}

// Enabled reports whether OIDC verification is configured.
func (c OIDCConfig) Enabled() bool {
	return c.IssuerURL != "" && c.ClientID != ""
}

// DevAuthConfig controls dev authentication identity.
// Only honoured in dev mode; UserID zero disables it.
type DevAuthConfig struct {
	UserID          int64         `env:"USER_ID"          envDefault:"0"`
	Email           string        `env:"EMAIL"            envDefault:"dev@example.com"`
	Token           string        `env:"TOKEN"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// Enabled reports whether dev authentication is configured.
func (c DevAuthConfig) Enabled() bool { return c.UserID > 0 }

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	OIDC OIDCConfig    `envPrefix:"AUTH_OIDC_"`
	Dev  DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionPrefix is the Redis key prefix of stored sessions.
	SessionPrefix string `env:"AUTH_SESSION_PREFIX" envDefault:"session:"`
}

// Sanitize trims identifiers and resets invalid values.
func (c *AuthConfig) Sanitize() {
	c.OIDC.IssuerURL = strings.TrimSpace(c.OIDC.IssuerURL)
	c.OIDC.ClientID = strings.TrimSpace(c.OIDC.ClientID)
	c.Dev.Email = strings.TrimSpace(c.Dev.Email)
	if c.Dev.UserID < 0 {
		c.Dev.UserID = 0
	}
	if c.Dev.SessionDuration <= 0 {
		c.Dev.SessionDuration = 8 * time.Hour
	}
	if strings.TrimSpace(c.SessionPrefix) == "" {
		c.SessionPrefix = "session:"
	}
}
