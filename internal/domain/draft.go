package domain

import "time"

// Draft is a named snapshot of a cart saved for later completion. Drafts live
// independently of the live cart and never auto-expire here.
type Draft struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Items       []CartItem `json:"items"`
	TotalPrice  int64      `json:"total_price"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Tags        []string   `json:"tags,omitempty"`
}

// Preferences is the user-tunable part of the persisted record.
type Preferences struct {
	AutoSave           bool         `json:"auto_save"`
	Notifications      bool         `json:"notifications"`
	DefaultMomentKinds []MomentKind `json:"default_moment_kinds,omitempty"`
}

func DefaultPreferences() Preferences {
	return Preferences{AutoSave: true, Notifications: true}
}

// CartAnalytics is the derived summary the calc package produces.
type CartAnalytics struct {
	TotalEvents          int      `json:"total_events"`
	TotalPrice           int64    `json:"total_price"`
	TotalAudience        int64    `json:"total_audience"`
	CostPerImpression    float64  `json:"cost_per_impression"`
	AveragePricePerEvent int64    `json:"average_price_per_event"`
	Recommendations      []string `json:"recommendations"`
}
