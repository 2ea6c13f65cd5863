package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dtapi/booking-api/config"
	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/mocks"
	"github.com/dtapi/booking-api/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMiniRedisClient(t *testing.T) redis.UniversalClient {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestBuildAuthService_RequiresRedis(t *testing.T) {
	svc, err := BuildAuthService(context.Background(), AuthConfig{Logger: discardLogger()})
	require.Error(t, err)
	assert.Nil(t, svc)
}

func TestBuildAuthService_StoredSession(t *testing.T) {
	client := newMiniRedisClient(t)
	authCfg := config.AuthConfig{SessionPrefix: "session:"}

	svc, err := BuildAuthService(context.Background(), AuthConfig{
		Auth:        authCfg,
		RedisClient: client,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)

	stored := domainauth.Session{
		ID:        "sess-1",
		UserID:    4,
		UserType:  domainauth.UserTypeTranslator,
		ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second),
	}
	require.NoError(t, NewSessionStore(client, authCfg).Save(context.Background(), stored))

	got, err := svc.Resolve(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, stored.UserID, got.UserID)
	assert.Equal(t, stored.UserType, got.UserType)

	_, err = svc.Resolve(context.Background(), "unknown")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestBuildAuthService_DevVerifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	users.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&model.User{
		ID:       7,
		Email:    "admin@example.com",
		UserType: "admin",
	}, nil)

	svc, err := BuildAuthService(context.Background(), AuthConfig{
		Auth: config.AuthConfig{
			SessionPrefix: "session:",
			Dev:           config.DevAuthConfig{UserID: 7, Token: "let-me-in", SessionDuration: time.Hour},
		},
		RedisClient: newMiniRedisClient(t),
		Users:       users,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)

	sess, err := svc.Resolve(context.Background(), "let-me-in")
	require.NoError(t, err)
	assert.Equal(t, int64(7), sess.UserID)
	assert.Equal(t, domainauth.UserType("admin"), sess.UserType)
	assert.Contains(t, sess.ID, "dev-")

	_, err = svc.Resolve(context.Background(), "wrong")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestBuildAuthService_InvalidOIDCIssuer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := BuildAuthService(ctx, AuthConfig{
		Auth: config.AuthConfig{
			OIDC: config.OIDCConfig{IssuerURL: "http://127.0.0.1:1", ClientID: "booking"},
		},
		RedisClient: newMiniRedisClient(t),
		Users:       mocks.NewMockUserRepository(gomock.NewController(t)),
		Logger:      discardLogger(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oidc")
}
