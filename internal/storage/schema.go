package storage

import (
	"time"

	"github.com/fjod/moment_cart/internal/domain"
)

// SchemaVersion is written into every persisted record so a future
// incompatible shape can be detected and migrated. No migration logic exists
// yet; the field is read and written faithfully.
const SchemaVersion = "1.0.0"

const timeFormat = "2006-01-02T15:04:05Z07:00"

// persistedSchema is the durable on-disk shape. Dates are strings here;
// conversion to and from time.Time happens only in this file.
type persistedSchema struct {
	Version     string             `json:"version"`
	Cart        persistedCart      `json:"cart"`
	Drafts      []persistedDraft   `json:"drafts"`
	Preferences domain.Preferences `json:"preferences"`
}

type persistedCart struct {
	Items    []persistedItem `json:"items"`
	Metadata schemaMetadata  `json:"metadata"`
}

type schemaMetadata struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type persistedItem struct {
	EventID        string                  `json:"event_id"`
	EventName      string                  `json:"event_name"`
	EventStatus    string                  `json:"event_status"`
	StartsAt       string                  `json:"starts_at"`
	MomentCatalog  []domain.MomentKind     `json:"moment_catalog"`
	PriceTable     []domain.MomentPrice    `json:"price_table"`
	MaxMoments     int                     `json:"max_moments"`
	Attendance     int64                   `json:"attendance"`
	TVAttendance   int64                   `json:"tv_attendance"`
	CartItemID     string                  `json:"cart_item_id"`
	AddedAt        string                  `json:"added_at"`
	Moments        []domain.SelectedMoment `json:"selected_moments"`
	IsConfigured   bool                    `json:"is_configured"`
	EstimatedPrice int64                   `json:"estimated_price"`
	FinalPrice     *int64                  `json:"final_price,omitempty"`
}

type persistedDraft struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Items       []persistedItem `json:"items"`
	TotalPrice  int64           `json:"total_price"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	Tags        []string        `json:"tags,omitempty"`
}

func defaultSchema(now time.Time) persistedSchema {
	stamp := now.Format(timeFormat)
	return persistedSchema{
		Version: SchemaVersion,
		Cart: persistedCart{
			Items:    []persistedItem{},
			Metadata: schemaMetadata{CreatedAt: stamp, UpdatedAt: stamp},
		},
		Drafts:      []persistedDraft{},
		Preferences: domain.DefaultPreferences(),
	}
}

func toPersistedItem(item domain.CartItem) persistedItem {
	return persistedItem{
		EventID:        item.Event.ID,
		EventName:      item.Event.Name,
		EventStatus:    string(item.Event.Status),
		StartsAt:       item.Event.StartsAt.Format(timeFormat),
		MomentCatalog:  item.Event.MomentCatalog,
		PriceTable:     item.Event.PriceTable,
		MaxMoments:     item.Event.MaxMoments,
		Attendance:     item.Event.Attendance,
		TVAttendance:   item.Event.TVAttendance,
		CartItemID:     item.CartItemID,
		AddedAt:        item.AddedAt.Format(timeFormat),
		Moments:        item.SelectedMoments,
		IsConfigured:   item.IsConfigured,
		EstimatedPrice: item.EstimatedPrice,
		FinalPrice:     item.FinalPrice,
	}
}

func itemFromPersisted(p persistedItem) domain.CartItem {
	return domain.CartItem{
		Event: domain.Event{
			ID:            p.EventID,
			Name:          p.EventName,
			Status:        domain.EventStatus(p.EventStatus),
			StartsAt:      parseTime(p.StartsAt),
			MomentCatalog: p.MomentCatalog,
			PriceTable:    p.PriceTable,
			MaxMoments:    p.MaxMoments,
			Attendance:    p.Attendance,
			TVAttendance:  p.TVAttendance,
		},
		CartItemID:      p.CartItemID,
		AddedAt:         parseTime(p.AddedAt),
		SelectedMoments: p.Moments,
		IsConfigured:    p.IsConfigured,
		EstimatedPrice:  p.EstimatedPrice,
		FinalPrice:      p.FinalPrice,
	}
}

func toPersistedItems(items []domain.CartItem) []persistedItem {
	out := make([]persistedItem, len(items))
	for i, it := range items {
		out[i] = toPersistedItem(it)
	}
	return out
}

func itemsFromPersisted(items []persistedItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	for i, p := range items {
		out[i] = itemFromPersisted(p)
	}
	return out
}

func toPersistedDraft(d domain.Draft) persistedDraft {
	return persistedDraft{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Items:       toPersistedItems(d.Items),
		TotalPrice:  d.TotalPrice,
		CreatedAt:   d.CreatedAt.Format(timeFormat),
		UpdatedAt:   d.UpdatedAt.Format(timeFormat),
		Tags:        d.Tags,
	}
}

func draftFromPersisted(p persistedDraft) domain.Draft {
	return domain.Draft{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Items:       itemsFromPersisted(p.Items),
		TotalPrice:  p.TotalPrice,
		CreatedAt:   parseTime(p.CreatedAt),
		UpdatedAt:   parseTime(p.UpdatedAt),
		Tags:        p.Tags,
	}
}

// parseTime rehydrates a stored date. An unparseable value degrades to the
// zero time instead of failing the whole read.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
