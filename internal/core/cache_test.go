package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
)

//go:generate mockgen -source=cache.go -destination=cache_mock.go -package=core
//go:generate mockgen -destination=user_repository_mock_test.go -package=core github.com/dtapi/booking-api/internal/core UserRepository

func testUser() *model.User {
	return &model.User{
		ID:        42,
		Name:      "Ada",
		Email:     "ada@example.com",
		UserType:  auth.UserTypeCustomer,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Meta:      &model.UserMeta{UserID: 42, ConsumerType: "paid"},
	}
}

func TestUserCacheService_GetUser(t *testing.T) {
	t.Parallel()

	cachedBody, err := json.Marshal(testUser())
	require.NoError(t, err)

	tests := []struct {
		name    string
		setup   func(*MockCacheRepository, *MockUserRepository)
		wantErr bool
	}{
		{
			name: "cache hit skips repository",
			setup: func(cache *MockCacheRepository, _ *MockUserRepository) {
				cache.EXPECT().Get(gomock.Any(), "user:42").Return(cachedBody, nil)
			},
		},
		{
			name: "cache miss reads through and stores",
			setup: func(cache *MockCacheRepository, users *MockUserRepository) {
				cache.EXPECT().Get(gomock.Any(), "user:42").Return(nil, nil)
				users.EXPECT().GetByID(gomock.Any(), int64(42)).Return(testUser(), nil)
				cache.EXPECT().Set(gomock.Any(), "user:42", cachedBody, time.Minute).Return(nil)
			},
		},
		{
			name: "cache read error falls back to repository",
			setup: func(cache *MockCacheRepository, users *MockUserRepository) {
				cache.EXPECT().Get(gomock.Any(), "user:42").Return(nil, errors.New("redis down"))
				users.EXPECT().GetByID(gomock.Any(), int64(42)).Return(testUser(), nil)
				cache.EXPECT().Set(gomock.Any(), "user:42", gomock.Any(), time.Minute).Return(errors.New("redis down"))
			},
		},
		{
			name: "corrupt entry is replaced",
			setup: func(cache *MockCacheRepository, users *MockUserRepository) {
				cache.EXPECT().Get(gomock.Any(), "user:42").Return([]byte("{not json"), nil)
				users.EXPECT().GetByID(gomock.Any(), int64(42)).Return(testUser(), nil)
				cache.EXPECT().Set(gomock.Any(), "user:42", cachedBody, time.Minute).Return(nil)
			},
		},
		{
			name: "repository error is returned and nothing cached",
			setup: func(cache *MockCacheRepository, users *MockUserRepository) {
				cache.EXPECT().Get(gomock.Any(), "user:42").Return(nil, nil)
				users.EXPECT().GetByID(gomock.Any(), int64(42)).Return(nil, model.ErrUserNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			cache := NewMockCacheRepository(ctrl)
			users := NewMockUserRepository(ctrl)
			tt.setup(cache, users)

			svc := NewUserCacheService(UserCacheServiceOptions{
				Cache:  cache,
				Users:  users,
				Config: UserCacheConfig{TTL: time.Minute},
			})
			got, err := svc.GetUser(context.Background(), 42)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrUserNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testUser(), got)
		})
	}
}

func TestUserCacheService_DisabledCache(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	users := NewMockUserRepository(ctrl)
	users.EXPECT().GetByID(gomock.Any(), int64(42)).Return(testUser(), nil).Times(2)

	noCache := NewUserCacheService(UserCacheServiceOptions{Users: users, Config: DefaultUserCacheConfig()})
	_, err := noCache.GetUser(context.Background(), 42)
	require.NoError(t, err)

	// A zero TTL bypasses an otherwise configured cache.
	zeroTTL := NewUserCacheService(UserCacheServiceOptions{Cache: NewMockCacheRepository(ctrl), Users: users})
	_, err = zeroTTL.GetUser(context.Background(), 42)
	require.NoError(t, err)
}

func TestUserCacheService_InvalidateUser(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	cache := NewMockCacheRepository(ctrl)
	users := NewMockUserRepository(ctrl)
	svc := NewUserCacheService(UserCacheServiceOptions{Cache: cache, Users: users, Config: DefaultUserCacheConfig()})

	cache.EXPECT().Delete(gomock.Any(), "user:7").Return(true, nil)
	require.NoError(t, svc.InvalidateUser(context.Background(), 7))

	cache.EXPECT().Delete(gomock.Any(), "user:8").Return(false, errors.New("boom"))
	err := svc.InvalidateUser(context.Background(), 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalidate user 8")

	require.NoError(t, NewUserCacheService(UserCacheServiceOptions{Users: users}).InvalidateUser(context.Background(), 9))
}

func TestNewUserCacheService_RequiresRepository(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewUserCacheService(UserCacheServiceOptions{}) })
}
