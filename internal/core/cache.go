// Package core provides the port interfaces and cache orchestration shared by the booking services.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dtapi/booking-api/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
// This follows the hexagonal architecture pattern where the core defines interfaces
// and the data layer provides implementations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// UserCacheConfig holds configuration for user caching.
type UserCacheConfig struct {
	TTL time.Duration `json:"ttl"`
}

// DefaultUserCacheConfig returns a UserCacheConfig with sensible defaults.
func DefaultUserCacheConfig() UserCacheConfig {
	return UserCacheConfig{TTL: 5 * time.Minute}
}

// UserCacheServiceOptions bundles dependencies for NewUserCacheService.
type UserCacheServiceOptions struct {
	Cache  CacheRepository
	Users  UserRepository
	Config UserCacheConfig
	Logger *slog.Logger
}

// UserCacheService is a read-through cache in front of UserRepository.GetByID.
// Cache failures degrade to a direct repository read.
type UserCacheService struct {
	cache  CacheRepository
	users  UserRepository
	ttl    time.Duration
	logger *slog.Logger
}

// NewUserCacheService creates a new UserCacheService. A nil cache disables caching.
func NewUserCacheService(opts UserCacheServiceOptions) *UserCacheService {
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserCacheService{
		cache:  opts.Cache,
		users:  opts.Users,
		ttl:    opts.Config.TTL,
		logger: logger.With("component", "user_cache"),
	}
}

// GetUser returns the user with the given id, from cache when possible.
func (s *UserCacheService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	if s.cache == nil || s.ttl <= 0 {
		return s.users.GetByID(ctx, id)
	}

	key := userKey(id)
	if cached, err := s.cache.Get(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "user cache read failed", "user_id", id, "error", err)
	} else if len(cached) > 0 {
		var u model.User
		if jsonErr := json.Unmarshal(cached, &u); jsonErr == nil {
			return &u, nil
		}
		s.logger.WarnContext(ctx, "discarding corrupt user cache entry", "user_id", id)
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if body, jsonErr := json.Marshal(u); jsonErr == nil {
		if setErr := s.cache.Set(ctx, key, body, s.ttl); setErr != nil {
			s.logger.WarnContext(ctx, "user cache write failed", "user_id", id, "error", setErr)
		}
	}
	return u, nil
}

// InvalidateUser removes the cached entry for a user.
func (s *UserCacheService) InvalidateUser(ctx context.Context, id int64) error {
	if s.cache == nil {
		return nil
	}
	if _, err := s.cache.Delete(ctx, userKey(id)); err != nil {
		return fmt.Errorf("invalidate user %d: %w", id, err)
	}
	return nil
}

func userKey(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}
