package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/moment_cart/internal/domain"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func sampleAnalytics() *domain.CartAnalytics {
	return &domain.CartAnalytics{
		TotalEvents:          2,
		TotalPrice:           1_600_000,
		TotalAudience:        240_000,
		CostPerImpression:    6.67,
		AveragePricePerEvent: 800_000,
		Recommendations:      []string{"add creative files before checkout"},
	}
}

func TestRedisCache_MissOnEmpty(t *testing.T) {
	_, client := setupRedis(t)
	c := NewRedisCache(client)

	_, err := c.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_SetGetRoundTrip(t *testing.T) {
	_, client := setupRedis(t)
	c := NewRedisCache(client)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleAnalytics()))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleAnalytics(), got)
}

func TestRedisCache_SetAppliesTTLWithJitter(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewRedisCache(client)

	require.NoError(t, c.Set(context.Background(), sampleAnalytics()))

	ttl := mr.TTL("moment_cart:analytics")
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 20*time.Minute)
}

func TestRedisCache_DeleteInvalidates(t *testing.T) {
	_, client := setupRedis(t)
	c := NewRedisCache(client)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleAnalytics()))
	require.NoError(t, c.Delete(ctx))

	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_GetCorruptPayloadFails(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewRedisCache(client)

	require.NoError(t, mr.Set("moment_cart:analytics", "{not json"))

	_, err := c.Get(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisSession_LoadEmptyIsZeroState(t *testing.T) {
	_, client := setupRedis(t)
	s := NewRedisSession(client)

	state, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SessionState{}, state)
}

func TestRedisSession_SaveLoadClear(t *testing.T) {
	_, client := setupRedis(t)
	s := NewRedisSession(client)
	ctx := context.Background()

	want := SessionState{EditingTarget: "ci-1", CheckoutStep: "review"}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.Clear(ctx))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, SessionState{}, got)
}

func TestRedisSession_ExpiresWithTTL(t *testing.T) {
	mr, client := setupRedis(t)
	s := NewRedisSession(client)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, SessionState{CheckoutStep: "payment"}))
	assert.Equal(t, 30*time.Minute, mr.TTL("moment_cart:session"))

	mr.FastForward(31 * time.Minute)

	state, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, SessionState{}, state)
}
