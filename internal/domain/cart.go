package domain

import "time"

// SelectedMoment is one purchased advertising slot inside a cart item.
type SelectedMoment struct {
	Kind          MomentKind `json:"kind"`
	UnitPrice     int64      `json:"unit_price"`
	Quantity      int        `json:"quantity"`
	Period        Period     `json:"period"`
	CreativeFiles []string   `json:"creative_files,omitempty"`
}

// Total is the moment's line total.
func (m SelectedMoment) Total() int64 {
	return m.UnitPrice * int64(m.Quantity)
}

// CartItem is an event placed in the cart. At most one item per event id may
// exist in a cart. FinalPrice stays nil until moments have been explicitly
// saved for the item.
type CartItem struct {
	Event

	CartItemID      string           `json:"cart_item_id"`
	AddedAt         time.Time        `json:"added_at"`
	SelectedMoments []SelectedMoment `json:"selected_moments"`
	IsConfigured    bool             `json:"is_configured"`
	EstimatedPrice  int64            `json:"estimated_price"`
	FinalPrice      *int64           `json:"final_price,omitempty"`
}

// Clone deep-copies the item so reducer output never aliases caller slices.
func (i CartItem) Clone() CartItem {
	out := i
	if i.SelectedMoments != nil {
		out.SelectedMoments = make([]SelectedMoment, len(i.SelectedMoments))
		copy(out.SelectedMoments, i.SelectedMoments)
		for j, m := range i.SelectedMoments {
			if m.CreativeFiles != nil {
				files := make([]string, len(m.CreativeFiles))
				copy(files, m.CreativeFiles)
				out.SelectedMoments[j].CreativeFiles = files
			}
		}
	}
	if i.FinalPrice != nil {
		p := *i.FinalPrice
		out.FinalPrice = &p
	}
	return out
}

// CloneItems deep-copies a cart item list.
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// CartState is the single live cart value. TotalItems, TotalPrice and
// TotalAudience are always derived from Items by the calc package; they are
// never written independently of a reducer transition.
type CartState struct {
	Items         []CartItem `json:"items"`
	TotalItems    int        `json:"total_items"`
	TotalPrice    int64      `json:"total_price"`
	TotalAudience int64      `json:"total_audience"`
	IsOpen        bool       `json:"is_open"`
	Loading       bool       `json:"loading"`
	Error         *CartError `json:"error,omitempty"`
	LastUpdated   time.Time  `json:"last_updated"`
}

// ItemByEventID returns the cart item holding the given catalog event.
func (s CartState) ItemByEventID(eventID string) (CartItem, bool) {
	for _, it := range s.Items {
		if it.Event.ID == eventID {
			return it, true
		}
	}
	return CartItem{}, false
}

// ItemByID returns the cart item with the given cart item id.
func (s CartState) ItemByID(cartItemID string) (CartItem, bool) {
	for _, it := range s.Items {
		if it.CartItemID == cartItemID {
			return it, true
		}
	}
	return CartItem{}, false
}
