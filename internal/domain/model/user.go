package model

import (
	"errors"
	"time"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
)

var (
	// ErrUserNotFound is returned when a user lookup has no match.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserTypeMismatch is returned when a user is neither a customer nor a translator.
	ErrUserTypeMismatch = errors.New("user type didn't match with the system")
)

// User is a platform account. Meta and Average are only set when the
// corresponding relation was loaded.
type User struct {
	ID        int64               `json:"id"                db:"id"`
	Name      string              `json:"name"              db:"name"`
	Email     string              `json:"email"             db:"email"`
	UserType  domainauth.UserType `json:"user_type"         db:"user_type"`
	CreatedAt time.Time           `json:"created_at"        db:"created_at"`
	Meta      *UserMeta           `json:"user_meta,omitempty" db:"-"`
	Average   *float64            `json:"average,omitempty"   db:"-"`
}

// Is reports whether the user is of the given type.
func (u *User) Is(t domainauth.UserType) bool {
	return u != nil && u.UserType == t
}

// UserMeta holds per-user profile attributes used by listing filters.
type UserMeta struct {
	UserID       int64  `json:"user_id"       db:"user_id"`
	ConsumerType string `json:"consumer_type" db:"consumer_type"`
	CustomerType string `json:"customer_type" db:"customer_type"`
}
