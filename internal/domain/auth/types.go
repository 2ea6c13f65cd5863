package auth

// Package auth contains domain-level types for authenticated principals and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// UserType identifies what kind of platform user a principal is.
// Admin and super-admin identifiers are deployment configuration (see Roles).
type UserType string

const (
	UserTypeCustomer   UserType = "customer"
	UserTypeTranslator UserType = "translator"
)

// ConsumerTypeRWS marks consumers whose listings are restricted to rws jobs.
const ConsumerTypeRWS = "RWS"

// Roles carries the configured identifiers for the privileged user types.
type Roles struct {
	Admin      UserType
	SuperAdmin UserType
}

// IsAdminOrSuperAdmin reports whether t is one of the configured privileged types.
func (r Roles) IsAdminOrSuperAdmin(t UserType) bool {
	if t == "" {
		return false
	}
	return t == r.Admin || t == r.SuperAdmin
}

// IsSuperAdmin reports whether t is the configured super-admin type.
func (r Roles) IsSuperAdmin(t UserType) bool {
	return t != "" && t == r.SuperAdmin
}

// Identity represents a principal verified by an identity provider.
// UserID is set only when the provider already knows the platform user;
// otherwise the user is resolved by Email.
type Identity struct {
	Subject   string
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

// Session is the server-side record of an authenticated platform user.
// Sessions are written by the user/session service; this service only reads them.
type Session struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	UserType     UserType  `json:"user_type"`
	ConsumerType string    `json:"consumer_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }
