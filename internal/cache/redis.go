package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/moment_cart/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	analyticsKey = "moment_cart:analytics"
	sessionKey   = "moment_cart:session"

	sessionTTL = 30 * time.Minute
)

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (r *RedisCache) Get(ctx context.Context) (*domain.CartAnalytics, error) {
	data, err := r.client.Get(ctx, analyticsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var analytics domain.CartAnalytics
	if err := json.Unmarshal(data, &analytics); err != nil {
		return nil, fmt.Errorf("unmarshal analytics failed: %w", err)
	}
	return &analytics, nil
}

func (r *RedisCache) Set(ctx context.Context, analytics *domain.CartAnalytics) error {
	data, err := json.Marshal(analytics)
	if err != nil {
		return fmt.Errorf("marshal analytics failed: %w", err)
	}

	// Jitter spreads expiry so repeated invalidations don't line up.
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, analyticsKey, data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, analyticsKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// RedisSession keeps session state under a TTL so it cannot outlive a
// session by more than the expiry window.
type RedisSession struct {
	client *redis.Client
}

func NewRedisSession(client *redis.Client) *RedisSession {
	return &RedisSession{client: client}
}

func (r *RedisSession) Load(ctx context.Context) (SessionState, error) {
	data, err := r.client.Get(ctx, sessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return SessionState{}, nil
	}
	if err != nil {
		return SessionState{}, fmt.Errorf("redis get failed: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return SessionState{}, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return state, nil
}

func (r *RedisSession) Save(ctx context.Context, state SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSession) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
