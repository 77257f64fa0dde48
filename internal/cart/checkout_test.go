package cart

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fjod/moment_cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPricedEvent registers an event whose halftime moment costs exactly price.
func (f *fixture) seedPricedEvent(id string, price int64) domain.Event {
	event := f.seedEvent(id)
	event.PriceTable = []domain.MomentPrice{{Kind: domain.MomentHalftime, Price: price}}
	event.MomentCatalog = []domain.MomentKind{domain.MomentHalftime}
	f.catalog.Put(event)
	return event
}

func (f *fixture) addConfigured(t *testing.T, eventID string, price int64) {
	t.Helper()
	f.seedPricedEvent(eventID, price)
	item, err := f.svc.AddEvent(context.Background(), eventID)
	require.NoError(t, err)
	f.configure(t, item.CartItemID, domain.SelectedMoment{
		Kind:      domain.MomentHalftime,
		UnitPrice: price,
		Quantity:  1,
		Period:    domain.PeriodHalftime,
	})
}

func TestValidateCheckout_ShortfallExact(t *testing.T) {
	f := newFixture(t)
	f.addConfigured(t, "e1", 1_250_000)
	f.wallet.SetBalance(1_000_000)

	result, err := f.svc.ValidateCheckout(context.Background())
	require.NoError(t, err)
	assert.False(t, result.IsValid)

	found := false
	for _, msg := range result.Errors {
		if strings.Contains(msg, "short by 250000") {
			found = true
		}
	}
	assert.True(t, found, "shortfall must be reported exactly: %v", result.Errors)
}

func TestProcessCheckout_Success(t *testing.T) {
	f := newFixture(t)
	f.addConfigured(t, "e1", 500_000)
	f.addConfigured(t, "e2", 700_000)

	receipt, err := f.svc.ProcessCheckout(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.TransactionID, "TXN-"))
	assert.Equal(t, int64(1_200_000), receipt.Amount)
	assert.Equal(t, 2, receipt.ItemCount)

	state := f.svc.State()
	assert.Equal(t, 0, state.TotalItems)
	assert.Empty(t, f.store.LoadCartItems(context.Background()))
	assert.False(t, state.Loading)
}

func TestProcessCheckout_InsufficientFunds(t *testing.T) {
	f := newFixture(t)
	f.addConfigured(t, "e1", 2_000_000)
	f.wallet.SetBalance(500_000)

	_, err := f.svc.ProcessCheckout(context.Background())
	require.Error(t, err)

	var cartErr *domain.CartError
	require.ErrorAs(t, err, &cartErr)
	assert.Equal(t, domain.ErrKindInsufficientFunds, cartErr.Kind)
	assert.True(t, cartErr.Recoverable)
	assert.Contains(t, cartErr.RecoveryHint, "recharge")
	assert.Equal(t, 1, f.svc.State().TotalItems, "failed checkout must not clear the cart")
}

func TestProcessCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ProcessCheckout(context.Background())
	require.Error(t, err)
	var cartErr *domain.CartError
	require.ErrorAs(t, err, &cartErr)
	assert.Equal(t, domain.ErrKindValidation, cartErr.Kind)
}

func TestProcessCheckout_UnconfiguredItem(t *testing.T) {
	f := newFixture(t)
	f.seedEvent("e1")
	_, err := f.svc.AddEvent(context.Background(), "e1")
	require.NoError(t, err)

	_, err = f.svc.ProcessCheckout(context.Background())
	require.Error(t, err)
	var cartErr *domain.CartError
	require.ErrorAs(t, err, &cartErr)
	assert.Equal(t, domain.ErrKindValidation, cartErr.Kind)
	assert.Contains(t, cartErr.Message, "not configured")
}

func TestProcessCheckout_PaymentRefused(t *testing.T) {
	f := newFixture(t)
	f.addConfigured(t, "e1", 500_000)
	f.outcome.OK = false
	f.outcome.Reason = "issuer refused"

	_, err := f.svc.ProcessCheckout(context.Background())
	require.Error(t, err)

	var cartErr *domain.CartError
	require.ErrorAs(t, err, &cartErr)
	assert.Contains(t, cartErr.Message, "issuer refused")
	assert.Equal(t, 1, f.svc.State().TotalItems, "refused payment must not clear the cart")
}

func TestProcessCheckout_WalletFailure(t *testing.T) {
	f := newFixture(t)
	f.addConfigured(t, "e1", 500_000)

	failing := failingWallet{err: errors.New("dial tcp: connection refused")}
	f.svc.wallet = failing

	_, err := f.svc.ProcessCheckout(context.Background())
	require.Error(t, err)
	var cartErr *domain.CartError
	require.ErrorAs(t, err, &cartErr)
	assert.Equal(t, domain.ErrKindNetwork, cartErr.Kind)
}

type failingWallet struct {
	err error
}

func (w failingWallet) Balance(context.Context) (int64, error) {
	return 0, w.err
}

func TestBreakerWallet_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := failingWallet{err: errors.New("wallet backend down")}
	wallet := NewBreakerWallet(inner)

	for i := 0; i < 3; i++ {
		_, err := wallet.Balance(context.Background())
		require.Error(t, err)
	}

	_, err := wallet.Balance(context.Background())
	require.Error(t, err)
	cartErr := Translate(err)
	assert.Equal(t, domain.ErrKindNetwork, cartErr.Kind)
}

func TestSimulatedProcessor_Charge(t *testing.T) {
	p := NewSimulatedProcessor(10*time.Millisecond, FixedOutcome{OK: true})

	start := time.Now()
	result, err := p.Charge(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.True(t, strings.HasPrefix(result.TransactionID, "TXN-"))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
