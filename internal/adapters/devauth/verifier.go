package devauth

// Package devauth provides a config-driven TokenVerifier for local development.

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"time"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/ports"
)

var _ ports.TokenVerifier = (*Verifier)(nil)

// ErrTokenMismatch is returned when a shared dev token is configured and the
// presented credential does not match it.
var ErrTokenMismatch = errors.New("dev auth: token mismatch")

// Config controls the dev verifier behavior.
// UserID is required; Token may be empty to accept any credential.
type Config struct {
	UserID          int64
	Email           string
	Token           string
	SessionDuration time.Duration // default 8h when zero
}

// Verifier implements ports.TokenVerifier for local development.
// It skips the identity provider and always resolves to the configured user.
type Verifier struct {
	cfg Config
	now func() time.Time
}

// NewVerifier constructs a dev verifier from Config.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.UserID <= 0 {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = 8 * time.Hour
	}
	return &Verifier{cfg: cfg, now: time.Now}, nil
}

// Verify returns the configured identity with a fresh expiry.
func (v *Verifier) Verify(_ context.Context, rawToken string) (domainauth.Identity, error) {
	if v.cfg.Token != "" && subtle.ConstantTimeCompare([]byte(rawToken), []byte(v.cfg.Token)) != 1 {
		return domainauth.Identity{}, ErrTokenMismatch
	}
	return domainauth.Identity{
		Subject:   "dev-" + strconv.FormatInt(v.cfg.UserID, 10),
		UserID:    v.cfg.UserID,
		Email:     v.cfg.Email,
		ExpiresAt: v.now().Add(v.cfg.SessionDuration),
	}, nil
}
