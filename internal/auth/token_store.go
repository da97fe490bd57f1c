package auth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"sevaportal/internal/cache"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
)

// ErrRefreshTokenNotFound is returned when a refresh token is unknown or expired.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// TokenStore defines server-side token bookkeeping.
type TokenStore interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uint, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// RedisTokenStore keeps tokens in Redis.
type RedisTokenStore struct {
	cache *cache.Client
}

var _ TokenStore = (*RedisTokenStore)(nil)

// NewRedisTokenStore creates a Redis-backed token store.
func NewRedisTokenStore(cache *cache.Client) *RedisTokenStore {
	return &RedisTokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token with TTL.
func (s *RedisTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	payload := []byte(strconv.FormatUint(uint64(userID), 10))
	return s.cache.Set(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl)
}

// GetRefreshToken returns the user a refresh token was issued to.
func (s *RedisTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil || data == nil {
		return 0, ErrRefreshTokenNotFound
	}
	uid, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, ErrRefreshTokenNotFound
	}
	return uint(uid), nil
}

// DeleteRefreshToken removes a refresh token.
func (s *RedisTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *RedisTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.cache.Set(ctx, accessTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted checks if an access token is blacklisted.
func (s *RedisTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, accessTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil // Not blacklisted if error (fail safe)
	}
	return data != nil, nil
}

// MemoryTokenStore keeps tokens in process memory. The server falls back to
// it when Redis is unreachable.
type MemoryTokenStore struct {
	mu      sync.Mutex
	entries map[string]memoryToken
	now     func() time.Time
}

type memoryToken struct {
	userID    uint
	expiresAt time.Time
}

var _ TokenStore = (*MemoryTokenStore)(nil)

// NewMemoryTokenStore creates an in-process token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{entries: make(map[string]memoryToken), now: time.Now}
}

func (s *MemoryTokenStore) put(key string, userID uint, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryToken{userID: userID, expiresAt: s.now().Add(ttl)}
}

func (s *MemoryTokenStore) get(key string) (memoryToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return memoryToken{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return memoryToken{}, false
	}
	return e, true
}

func (s *MemoryTokenStore) StoreRefreshToken(_ context.Context, tokenID string, userID uint, ttl time.Duration) error {
	s.put(refreshTokenKeyPrefix+tokenID, userID, ttl)
	return nil
}

func (s *MemoryTokenStore) GetRefreshToken(_ context.Context, tokenID string) (uint, error) {
	e, ok := s.get(refreshTokenKeyPrefix + tokenID)
	if !ok {
		return 0, ErrRefreshTokenNotFound
	}
	return e.userID, nil
}

func (s *MemoryTokenStore) DeleteRefreshToken(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, refreshTokenKeyPrefix+tokenID)
	return nil
}

func (s *MemoryTokenStore) BlacklistAccessToken(_ context.Context, tokenID string, ttl time.Duration) error {
	s.put(accessTokenKeyPrefix+tokenID, 0, ttl)
	return nil
}

func (s *MemoryTokenStore) IsAccessTokenBlacklisted(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.get(accessTokenKeyPrefix + tokenID)
	return ok, nil
}
