// Package rules is the business-rule validation engine. Every entry point is
// a pure predicate over domain values returning a domain.ValidationResult;
// the orchestrating service composes them before dispatching state changes.
package rules

import (
	"fmt"
	"time"

	"github.com/fjod/moment_cart/internal/domain"
)

const (
	// MaxCartItems is the hard ceiling on distinct events in one cart.
	MaxCartItems = 10
	// NearLimitMargin triggers a warning when the cart is this close to full.
	NearLimitMargin = 2

	// MinMoments and MaxMoments bound the selected moment count per item.
	MinMoments = 1
	MaxMoments = 5

	// HighValueMoment warns on any single moment line above this.
	HighValueMoment int64 = 1_000_000
	// CheckoutHardCap rejects any cart priced above this.
	CheckoutHardCap int64 = 50_000_000
	// LargeCartPrice and LargeCartItems only warn, never block.
	LargeCartPrice int64 = 10_000_000
	LargeCartItems       = 5

	// StaleEventCutoff is how far in the past an event may lie.
	StaleEventCutoff = 365 * 24 * time.Hour
	// NearStartWindow warns when the event starts this soon.
	NearStartWindow = 12 * time.Hour
	// LowAudience warns below this combined attendance.
	LowAudience int64 = 10_000
)

// ValidateEvent checks whether a catalog event can be added to a cart.
// The caller supplies the clock so the rule stays deterministic.
func ValidateEvent(event domain.Event, now time.Time) domain.ValidationResult {
	r := domain.OKResult()

	if event.Status != domain.EventStatusActive {
		r.AddError("event %q is not active (status: %s)", event.Name, event.Status)
	}
	if now.Sub(event.StartsAt) > StaleEventCutoff {
		r.AddError("event %q is more than a year in the past", event.Name)
	}
	if !event.HasPricing() {
		r.AddWarning("event %q has no moments or pricing configured yet", event.Name)
	}
	if until := event.StartsAt.Sub(now); until > 0 && until < NearStartWindow {
		r.AddWarning("event %q starts in less than 12 hours", event.Name)
	}
	if event.CombinedAttendance() < LowAudience {
		r.AddWarning("event %q reaches fewer than 10,000 people", event.Name)
	}
	return r
}

// ValidateMoments checks a moment selection against its source event's
// current catalog and price table. A unit price that no longer matches the
// table means the client cached prices that have since changed.
func ValidateMoments(moments []domain.SelectedMoment, event domain.Event) domain.ValidationResult {
	r := domain.OKResult()

	if len(moments) < MinMoments {
		r.AddError("at least %d moment must be selected", MinMoments)
	}
	if len(moments) > MaxMoments {
		r.AddError("no more than %d moments may be selected", MaxMoments)
	}

	var totalQuantity int
	for _, m := range moments {
		if m.Quantity < 1 {
			r.AddError("moment %s has quantity %d; must be at least 1", m.Kind, m.Quantity)
			continue
		}
		totalQuantity += m.Quantity

		if !event.HasMoment(m.Kind) {
			r.AddError("moment %s is not offered for event %q", m.Kind, event.Name)
			continue
		}
		current, ok := event.PriceFor(m.Kind)
		if !ok || current != m.UnitPrice {
			r.AddError("price for moment %s is out of date; refresh the event", m.Kind)
		}
		if m.Total() > HighValueMoment {
			r.AddWarning("moment %s costs more than %d", m.Kind, HighValueMoment)
		}
	}

	if event.MaxMoments > 0 && totalQuantity > event.MaxMoments {
		r.AddError("selected quantity %d exceeds the event limit of %d moments", totalQuantity, event.MaxMoments)
	}
	return r
}

// ValidateCheckout gates the checkout operation against the wallet balance.
// Beyond the cart-wide checks it re-validates every item and its moments,
// prefixing messages with the item index.
func ValidateCheckout(state domain.CartState, walletBalance int64, now time.Time) domain.ValidationResult {
	r := domain.OKResult()

	if len(state.Items) == 0 {
		r.AddError("cart is empty")
		return r
	}

	for i, item := range state.Items {
		if !item.IsConfigured {
			r.AddError("item %d (%s): moments are not configured", i, item.Name)
		}
		prefix := itemPrefix(i, item)
		r.Merge(prefix, ValidateEvent(item.Event, now))
		if item.IsConfigured {
			r.Merge(prefix, ValidateMoments(item.SelectedMoments, item.Event))
		}
	}

	if state.TotalPrice > CheckoutHardCap {
		r.AddError("cart total %d exceeds the maximum of %d", state.TotalPrice, CheckoutHardCap)
	}
	if walletBalance < state.TotalPrice {
		r.AddError("insufficient funds: short by %d", state.TotalPrice-walletBalance)
	}
	if state.TotalPrice > LargeCartPrice {
		r.AddWarning("cart total exceeds %d; double-check the selection before paying", LargeCartPrice)
	}
	if len(state.Items) > LargeCartItems {
		r.AddWarning("cart holds more than %d events", LargeCartItems)
	}
	return r
}

// ValidateCartLimits checks the cart size ceiling, and when newEvent is given,
// whether adding it is allowed.
func ValidateCartLimits(items []domain.CartItem, newEvent *domain.Event) domain.ValidationResult {
	r := domain.OKResult()

	size := len(items)
	if newEvent != nil {
		if size+1 > MaxCartItems {
			r.AddError("cart is full: at most %d events", MaxCartItems)
		}
		for _, it := range items {
			if it.Event.ID == newEvent.ID {
				r.AddError("event %q is already in the cart", newEvent.Name)
				break
			}
		}
		size++
	}
	if size <= MaxCartItems && size >= MaxCartItems-NearLimitMargin {
		r.AddWarning("cart is nearly full (%d of %d events)", size, MaxCartItems)
	}
	return r
}

func itemPrefix(i int, item domain.CartItem) string {
	return fmt.Sprintf("item %d (%s): ", i, item.Name)
}
