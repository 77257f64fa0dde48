// Package reducer holds the pure cart state transition function. It performs
// no I/O and no business-rule validation; callers gate every action through
// the rules package first. Keeping it a plain function over a tagged action
// union makes the state machine exhaustively testable.
package reducer

import (
	"time"

	"github.com/fjod/moment_cart/internal/calc"
	"github.com/fjod/moment_cart/internal/domain"
)

// Reduce applies one action to a cart state and returns the next state. The
// input state is never mutated. The caller supplies the clock used to stamp
// LastUpdated so transitions stay deterministic.
func Reduce(state domain.CartState, action domain.Action, now time.Time) domain.CartState {
	switch a := action.(type) {
	case domain.AddItem:
		// The sole duplicate guard at this level: same event id is a no-op.
		if _, exists := state.ItemByEventID(a.Item.Event.ID); exists {
			return state
		}
		items := append(domain.CloneItems(state.Items), a.Item.Clone())
		return withItems(state, items, now)

	case domain.RemoveItem:
		items := make([]domain.CartItem, 0, len(state.Items))
		for _, it := range state.Items {
			if it.CartItemID != a.CartItemID {
				items = append(items, it.Clone())
			}
		}
		return withItems(state, items, now)

	case domain.UpdateItem:
		items := domain.CloneItems(state.Items)
		for i := range items {
			if items[i].CartItemID != a.CartItemID {
				continue
			}
			applyPatch(&items[i], a.Patch)
		}
		return withItems(state, items, now)

	case domain.ClearCart:
		// Totals reset; loading and error ride along untouched.
		next := state
		next.Items = []domain.CartItem{}
		next.TotalItems = 0
		next.TotalPrice = 0
		next.TotalAudience = 0
		next.LastUpdated = now
		return next

	case domain.ConfigureMoments:
		return withItems(state, replaceMoments(state.Items, a.CartItemID, a.Moments), now)

	case domain.UpdateMoments:
		return withItems(state, replaceMoments(state.Items, a.CartItemID, a.Moments), now)

	case domain.LoadCart:
		return withItems(state, domain.CloneItems(a.Items), now)

	case domain.LoadDraft:
		return withItems(state, domain.CloneItems(a.Items), now)

	case domain.ToggleOpen:
		next := state
		next.IsOpen = !state.IsOpen
		return next

	case domain.SetLoading:
		next := state
		next.Loading = a.Loading
		return next

	case domain.SetError:
		next := state
		next.Error = a.Err
		return next

	case domain.ClearError:
		next := state
		next.Error = nil
		return next

	default:
		return state
	}
}

// withItems recomputes every derived field from the resulting item list.
func withItems(state domain.CartState, items []domain.CartItem, now time.Time) domain.CartState {
	next := state
	next.Items = items
	next.TotalItems = len(items)
	next.TotalPrice = calc.TotalPrice(items)
	next.TotalAudience = calc.TotalAudience(items)
	next.LastUpdated = now
	return next
}

func replaceMoments(items []domain.CartItem, cartItemID string, moments []domain.SelectedMoment) []domain.CartItem {
	out := domain.CloneItems(items)
	for i := range out {
		if out[i].CartItemID != cartItemID {
			continue
		}
		out[i].SelectedMoments = make([]domain.SelectedMoment, len(moments))
		copy(out[i].SelectedMoments, moments)
		out[i].IsConfigured = true
		final := momentSum(moments)
		out[i].FinalPrice = &final
	}
	return out
}

func applyPatch(item *domain.CartItem, patch domain.ItemPatch) {
	if patch.SelectedMoments != nil {
		item.SelectedMoments = make([]domain.SelectedMoment, len(patch.SelectedMoments))
		copy(item.SelectedMoments, patch.SelectedMoments)
		if item.IsConfigured {
			final := momentSum(item.SelectedMoments)
			item.FinalPrice = &final
		}
	}
	if patch.IsConfigured != nil {
		item.IsConfigured = *patch.IsConfigured
	}
	if patch.EstimatedPrice != nil {
		item.EstimatedPrice = *patch.EstimatedPrice
	}
}

func momentSum(moments []domain.SelectedMoment) int64 {
	var total int64
	for _, m := range moments {
		total += m.Total()
	}
	return total
}
