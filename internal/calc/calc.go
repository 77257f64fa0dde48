// Package calc derives totals and analytics from cart items. Every function
// is pure: the same item list always yields the same output.
package calc

import "github.com/fjod/moment_cart/internal/domain"

// ItemTotal is the effective price of one item: the sum of its selected
// moments when any are present, otherwise the estimated seed price.
func ItemTotal(item domain.CartItem) int64 {
	if len(item.SelectedMoments) == 0 {
		return item.EstimatedPrice
	}
	var total int64
	for _, m := range item.SelectedMoments {
		total += m.Total()
	}
	return total
}

func TotalPrice(items []domain.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += ItemTotal(it)
	}
	return total
}

func TotalAudience(items []domain.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.CombinedAttendance()
	}
	return total
}

// CostPerImpression is price divided by audience, 0 when nobody is reached.
func CostPerImpression(price, audience int64) float64 {
	if audience <= 0 {
		return 0
	}
	return float64(price) / float64(audience)
}

// Analytics summarizes the cart. Recommendations are static heuristics, not
// a learned model.
func Analytics(items []domain.CartItem) domain.CartAnalytics {
	a := domain.CartAnalytics{
		TotalEvents:   len(items),
		TotalPrice:    TotalPrice(items),
		TotalAudience: TotalAudience(items),
	}
	a.CostPerImpression = CostPerImpression(a.TotalPrice, a.TotalAudience)
	if a.TotalEvents > 0 {
		a.AveragePricePerEvent = a.TotalPrice / int64(a.TotalEvents)
	}
	a.Recommendations = recommendations(items, a)
	return a
}

func recommendations(items []domain.CartItem, a domain.CartAnalytics) []string {
	var recs []string
	if len(items) == 0 {
		return append(recs, "Add events to your cart to start building a campaign")
	}

	unconfigured := 0
	for _, it := range items {
		if !it.IsConfigured {
			unconfigured++
		}
	}
	if unconfigured > 0 {
		recs = append(recs, "Configure moments for every event to lock in final prices before checkout")
	}
	if a.CostPerImpression > 100 {
		recs = append(recs, "Cost per impression is high; consider events with larger combined audiences")
	}
	if a.TotalAudience >= 1_000_000 {
		recs = append(recs, "Large combined audience; halftime moments tend to reach the most viewers")
	}
	if len(items) == 1 {
		recs = append(recs, "Spreading moments across multiple events usually improves reach per unit spent")
	}
	return recs
}
