package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtapi/booking-api/internal/core"
	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/observability/metrics"
	"github.com/dtapi/booking-api/internal/ports"
)

var (
	// ErrUnauthenticated is returned when no credential resolves to a live session.
	ErrUnauthenticated = errors.New("unauthenticated")

	errSessionExpired = fmt.Errorf("%w: session expired", ErrUnauthenticated)
)

// Credential sources, used as metric tags.
const (
	authSourceSession = "session"
	authSourceOIDC    = "oidc"
	authSourceDev     = "dev"
	authSourceNone    = "none"
)

// AuthVerifiers groups the optional token verifiers consulted when a
// credential is not a stored session id.
type AuthVerifiers struct {
	OIDC ports.TokenVerifier // Optional: bearer ID tokens
	Dev  ports.TokenVerifier // Optional: local development fallback
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Sessions  ports.SessionStore  // Required
	Users     core.UserRepository // Required when a verifier is configured
	UserCache userLookup          // Optional: read-through user cache
	Verifiers AuthVerifiers
	Metrics   metrics.Sink
}

// AuthService resolves request credentials into sessions. Sessions are issued
// elsewhere; verified tokens are mapped onto platform users on the fly.
type AuthService struct {
	sessions   ports.SessionStore
	users      core.UserRepository
	userLookup userLookup
	oidc       ports.TokenVerifier
	dev        ports.TokenVerifier
	metrics    metrics.Sink
	now        func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	hasVerifier := opts.Verifiers.OIDC != nil || opts.Verifiers.Dev != nil
	if hasVerifier && opts.Users == nil {
		panic("UserRepository is required when a token verifier is configured")
	}

	sink := opts.Metrics
	if sink == nil {
		sink = metrics.Noop{}
	}
	var lookup userLookup
	switch {
	case opts.UserCache != nil:
		lookup = opts.UserCache
	case opts.Users != nil:
		lookup = userRepoLookup{repo: opts.Users}
	}

	return &AuthService{
		sessions:   opts.Sessions,
		users:      opts.Users,
		userLookup: lookup,
		oidc:       opts.Verifiers.OIDC,
		dev:        opts.Verifiers.Dev,
		metrics:    sink,
		now:        time.Now,
	}
}

// Resolve maps a raw credential (bearer token or session cookie value) to the
// session of the requesting user. An empty credential only resolves when the
// dev verifier is configured.
func (s *AuthService) Resolve(ctx context.Context, rawToken string) (sess domainauth.Session, err error) {
	source := authSourceNone
	defer func() { s.emit(source, err) }()

	rawToken = strings.TrimSpace(rawToken)
	if rawToken != "" {
		source = authSourceSession
		sess, err = s.storedSession(ctx, rawToken)
		if !errors.Is(err, ports.ErrSessionNotFound) {
			return sess, err
		}

		if s.oidc != nil {
			source = authSourceOIDC
			identity, verifyErr := s.oidc.Verify(ctx, rawToken)
			if verifyErr == nil {
				return s.sessionForIdentity(ctx, identity, rawToken)
			}
			slog.DebugContext(ctx, "bearer token rejected", "error", verifyErr)
		}
	}

	if s.dev != nil {
		source = authSourceDev
		identity, verifyErr := s.dev.Verify(ctx, rawToken)
		if verifyErr != nil {
			return domainauth.Session{}, fmt.Errorf("%w: %w", ErrUnauthenticated, verifyErr)
		}
		return s.sessionForIdentity(ctx, identity, "dev-"+uuid.NewString())
	}

	return domainauth.Session{}, ErrUnauthenticated
}

// storedSession loads a session by id, removing it when it has expired.
func (s *AuthService) storedSession(ctx context.Context, id string) (domainauth.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return domainauth.Session{}, err
		}
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}

	if sess.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return domainauth.Session{}, errSessionExpired
	}
	return sess, nil
}

func (s *AuthService) sessionForIdentity(
	ctx context.Context,
	identity domainauth.Identity,
	sessionID string,
) (domainauth.Session, error) {
	user, err := s.userForIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return domainauth.Session{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		return domainauth.Session{}, err
	}

	sess := domainauth.Session{
		ID:        sessionID,
		UserID:    user.ID,
		Email:     user.Email,
		UserType:  user.UserType,
		ExpiresAt: identity.ExpiresAt,
	}
	if user.Meta != nil {
		sess.ConsumerType = user.Meta.ConsumerType
	}
	return sess, nil
}

func (s *AuthService) userForIdentity(ctx context.Context, identity domainauth.Identity) (*model.User, error) {
	if identity.UserID != 0 {
		user, err := s.userLookup.GetUser(ctx, identity.UserID)
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}
		return user, nil
	}

	byEmail, err := s.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	// Email lookups skip the meta row; the id lookup carries it.
	user, err := s.userLookup.GetUser(ctx, byEmail.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) emit(source string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultDenied
		if !errors.Is(err, ErrUnauthenticated) {
			result = metrics.ResultError
		}
	}
	s.metrics.Count(metrics.MetricAuthResolve, 1, map[string]string{"source": source, "result": result})
}
