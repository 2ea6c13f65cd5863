package config

import (
	"strings"
	"time"
)

const (
	defaultAdminRole      = "admin"
	defaultSuperAdminRole = "superadmin"
	defaultJobPageSize    = 15
)

// UsersConfig names the user types that grant listing privileges.
type UsersConfig struct {
	AdminRole      string `env:"ADMIN_ROLE"      envDefault:"admin"`
	SuperAdminRole string `env:"SUPERADMIN_ROLE" envDefault:"superadmin"`
}

// Sanitize restores defaults for blank role identifiers.
func (c *UsersConfig) Sanitize() {
	if c.AdminRole = strings.TrimSpace(c.AdminRole); c.AdminRole == "" {
		c.AdminRole = defaultAdminRole
	}
	if c.SuperAdminRole = strings.TrimSpace(c.SuperAdminRole); c.SuperAdminRole == "" {
		c.SuperAdminRole = defaultSuperAdminRole
	}
}

// JobsConfig controls job listings.
type JobsConfig struct {
	PageSize     int           `env:"PAGE_SIZE"      envDefault:"15"`
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`
}

// Sanitize applies guardrails to listing configuration values.
func (c *JobsConfig) Sanitize() {
	if c.PageSize <= 0 {
		c.PageSize = defaultJobPageSize
	}
	if c.UserCacheTTL < 0 {
		c.UserCacheTTL = 0
	}
}
