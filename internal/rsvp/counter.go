package rsvp

import (
	"github.com/velvetsocial/community-backend/internal/event"
)

// CapacitySnapshot is derived, never stored: occupancy is recomputed
// from the live RSVP set on every decision point so it cannot drift.
type CapacitySnapshot struct {
	Men     int `json:"men"`
	Women   int `json:"women"`
	Couples int `json:"couples"`
}

// For returns the occupancy for a category; unknown categories get 0
func (c CapacitySnapshot) For(category string) int {
	switch category {
	case CategoryMen:
		return c.Men
	case CategoryWomen:
		return c.Women
	case CategoryCouples:
		return c.Couples
	}
	return 0
}

// Count aggregates non-declined RSVPs per category. A pending request
// still reserves a slot (optimistic hold).
func Count(rsvps []RSVP) CapacitySnapshot {
	var snap CapacitySnapshot
	for _, r := range rsvps {
		if r.Status == StatusDeclined {
			continue
		}
		switch r.Category {
		case CategoryMen:
			snap.Men++
		case CategoryWomen:
			snap.Women++
		case CategoryCouples:
			snap.Couples++
		}
	}
	return snap
}

// IsFull reports whether a category has reached its ceiling
func IsFull(e *event.Event, category string, rsvps []RSVP) bool {
	return Count(rsvps).For(category) >= e.Cap(category)
}
