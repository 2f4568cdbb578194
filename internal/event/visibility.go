package event

import (
	"hash/fnv"
	"math"
	"strings"
)

// CanSeeAddress reports whether a viewer may see the exact address for an
// event. Public events are always visible; hosts always see their own
// events; vetted events require an approved RSVP. Private-tier addresses
// are never exposed here to non-hosts — whether a private event is visible
// at all is decided earlier by VisibleToViewer.
func CanSeeAddress(e *Event, viewerEmail string, viewerRSVPStatus string) bool {
	if e.PrivacyTier == TierPublic {
		return true
	}
	if strings.EqualFold(viewerEmail, e.HostEmail) {
		return true
	}
	if e.PrivacyTier == TierVetted && viewerRSVPStatus == "approved" {
		return true
	}
	return false
}

// VisibleToViewer reports whether the event appears in the viewer's catalog
// at all. Only private events are filtered: the host and invited emails
// (case-insensitive) get through, everyone else does not.
func VisibleToViewer(e *Event, viewerEmail string) bool {
	if e.PrivacyTier != TierPrivate {
		return true
	}
	if strings.EqualFold(viewerEmail, e.HostEmail) {
		return true
	}
	for _, invited := range e.InvitedList() {
		if strings.EqualFold(invited, viewerEmail) {
			return true
		}
	}
	return false
}

// ResolveCoordinate returns the coordinate pair a viewer may see. Absent
// coordinates stay absent. Visible viewers get the exact pair; everyone
// else gets a pair offset by 500-1000m, derived deterministically from the
// slug so the marker stays put across reloads.
func ResolveCoordinate(e *Event, visible bool) (*float64, *float64) {
	if e.Lat == nil || e.Lng == nil {
		return nil, nil
	}
	if visible {
		lat, lng := *e.Lat, *e.Lng
		return &lat, &lng
	}

	lat := *e.Lat + fuzzOffsetMeters(e.Slug, "lat")/111000.0
	lng := *e.Lng + fuzzOffsetMeters(e.Slug, "lng")/111000.0/math.Cos(*e.Lat*math.Pi/180.0)
	return &lat, &lng
}

// fuzzOffsetMeters derives a signed offset in [500,1000) meters from a
// stable hash of slug+axis. Sign comes from hash parity.
func fuzzOffsetMeters(slug, axis string) float64 {
	h := fnv.New32a()
	h.Write([]byte(slug))
	h.Write([]byte(axis))
	sum := h.Sum32()

	meters := 500.0 + float64(sum%500)
	if sum%2 == 1 {
		meters = -meters
	}
	return meters
}
