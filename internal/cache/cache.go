// Package cache holds the ephemeral stores: the derived-analytics cache and
// the session-scoped UI state. Nothing here survives a session restart;
// durable state lives in the storage package.
package cache

import (
	"context"
	"errors"

	"github.com/fjod/moment_cart/internal/domain"
)

// AnalyticsCache keeps the last computed cart analytics. Invalidated on every
// cart mutation.
type AnalyticsCache interface {
	Get(ctx context.Context) (*domain.CartAnalytics, error)
	Set(ctx context.Context, analytics *domain.CartAnalytics) error
	Delete(ctx context.Context) error
}

// SessionState is transient UI state: what the user is editing and where in
// the checkout flow they are.
type SessionState struct {
	EditingTarget string `json:"editing_target,omitempty"`
	CheckoutStep  string `json:"checkout_step,omitempty"`
}

type SessionStore interface {
	Load(ctx context.Context) (SessionState, error)
	Save(ctx context.Context, state SessionState) error
	Clear(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
