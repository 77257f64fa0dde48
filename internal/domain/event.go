package domain

import "time"

type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusFinished  EventStatus = "finished"
)

type MomentKind string

const (
	MomentPreGame    MomentKind = "pre_game"
	MomentFirstHalf  MomentKind = "first_half"
	MomentHalftime   MomentKind = "halftime"
	MomentSecondHalf MomentKind = "second_half"
	MomentPostGame   MomentKind = "post_game"
)

type Period string

const (
	PeriodFirstHalf  Period = "first_half"
	PeriodHalftime   Period = "halftime"
	PeriodSecondHalf Period = "second_half"
)

// MomentPrice is one row of an event's current price table.
type MomentPrice struct {
	Kind  MomentKind `json:"kind"`
	Price int64      `json:"price"`
}

// Event is the read-only catalog record this core consumes. It is never
// mutated here; the catalog service owns it.
type Event struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Status        EventStatus   `json:"status"`
	StartsAt      time.Time     `json:"starts_at"`
	MomentCatalog []MomentKind  `json:"moment_catalog"`
	PriceTable    []MomentPrice `json:"price_table"`
	MaxMoments    int           `json:"max_moments"`
	Attendance    int64         `json:"attendance"`
	TVAttendance  int64         `json:"tv_attendance"`
}

// PriceFor returns the current price for a moment kind, false when the kind
// is not in the price table.
func (e Event) PriceFor(kind MomentKind) (int64, bool) {
	for _, p := range e.PriceTable {
		if p.Kind == kind {
			return p.Price, true
		}
	}
	return 0, false
}

func (e Event) HasMoment(kind MomentKind) bool {
	for _, k := range e.MomentCatalog {
		if k == kind {
			return true
		}
	}
	return false
}

func (e Event) CombinedAttendance() int64 {
	return e.Attendance + e.TVAttendance
}

// HasPricing reports whether the catalog has published moments and prices for
// the event yet. Events may be added to a cart before that happens.
func (e Event) HasPricing() bool {
	return len(e.MomentCatalog) > 0 && len(e.PriceTable) > 0
}
