package cart

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// WalletProvider supplies the prepaid balance checkout validates against.
// This core only reads it; settlement happens elsewhere.
type WalletProvider interface {
	Balance(ctx context.Context) (int64, error)
}

// StaticWallet serves a fixed balance, adjustable for demos and tests.
type StaticWallet struct {
	m       sync.RWMutex
	balance int64
}

func NewStaticWallet(balance int64) *StaticWallet {
	return &StaticWallet{balance: balance}
}

func (w *StaticWallet) Balance(context.Context) (int64, error) {
	w.m.RLock()
	defer w.m.RUnlock()
	return w.balance, nil
}

func (w *StaticWallet) SetBalance(balance int64) {
	w.m.Lock()
	defer w.m.Unlock()
	w.balance = balance
}

// BreakerWallet wraps a provider with a circuit breaker so a flapping wallet
// backend fails fast instead of stalling every checkout.
type BreakerWallet struct {
	provider WalletProvider
	cb       *gobreaker.CircuitBreaker[int64]
}

func NewBreakerWallet(provider WalletProvider) *BreakerWallet {
	settings := gobreaker.Settings{
		Name:        "wallet",
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &BreakerWallet{
		provider: provider,
		cb:       gobreaker.NewCircuitBreaker[int64](settings),
	}
}

func (w *BreakerWallet) Balance(ctx context.Context) (int64, error) {
	return w.cb.Execute(func() (int64, error) {
		return w.provider.Balance(ctx)
	})
}
