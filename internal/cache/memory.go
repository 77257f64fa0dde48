package cache

import (
	"context"
	"sync"

	"github.com/fjod/moment_cart/internal/domain"
)

// MemoryCache is the in-process AnalyticsCache, used when no redis is
// configured and as the test double.
type MemoryCache struct {
	m         sync.RWMutex
	analytics *domain.CartAnalytics
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(context.Context) (*domain.CartAnalytics, error) {
	c.m.RLock()
	defer c.m.RUnlock()
	if c.analytics == nil {
		return nil, ErrCacheMiss
	}
	out := *c.analytics
	return &out, nil
}

func (c *MemoryCache) Set(_ context.Context, analytics *domain.CartAnalytics) error {
	c.m.Lock()
	defer c.m.Unlock()
	stored := *analytics
	c.analytics = &stored
	return nil
}

func (c *MemoryCache) Delete(context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.analytics = nil
	return nil
}

// MemorySession is the in-process SessionStore. Being process-local already
// satisfies the rule that session data must not survive a restart.
type MemorySession struct {
	m     sync.RWMutex
	state SessionState
}

func NewMemorySession() *MemorySession {
	return &MemorySession{}
}

func (s *MemorySession) Load(context.Context) (SessionState, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.state, nil
}

func (s *MemorySession) Save(_ context.Context, state SessionState) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.state = state
	return nil
}

func (s *MemorySession) Clear(context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.state = SessionState{}
	return nil
}
