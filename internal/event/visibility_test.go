package event

import (
	"math"
	"testing"

	"gorm.io/datatypes"
)

func ptr(f float64) *float64 { return &f }

func TestCanSeeAddress(t *testing.T) {
	tests := []struct {
		name        string
		tier        string
		viewerEmail string
		rsvpStatus  string
		want        bool
	}{
		{"public always visible", TierPublic, "stranger@x.com", "", true},
		{"vetted pending hidden", TierVetted, "guest@x.com", "pending", false},
		{"vetted approved visible", TierVetted, "guest@x.com", "approved", true},
		{"vetted declined hidden", TierVetted, "guest@x.com", "declined", false},
		{"host always sees own event", TierVetted, "host@x.com", "", true},
		{"host match is case-insensitive", TierPrivate, "HOST@X.COM", "", true},
		{"private approved guest still hidden", TierPrivate, "guest@x.com", "approved", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{PrivacyTier: tt.tier, HostEmail: "host@x.com"}
			if got := CanSeeAddress(e, tt.viewerEmail, tt.rsvpStatus); got != tt.want {
				t.Errorf("CanSeeAddress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleToViewer(t *testing.T) {
	private := &Event{
		PrivacyTier:   TierPrivate,
		HostEmail:     "host@x.com",
		InvitedEmails: datatypes.JSON([]byte(`["a@x.com","b@x.com"]`)),
	}

	tests := []struct {
		name   string
		event  *Event
		viewer string
		want   bool
	}{
		{"public visible to anyone", &Event{PrivacyTier: TierPublic}, "nobody@x.com", true},
		{"vetted visible to anyone", &Event{PrivacyTier: TierVetted}, "nobody@x.com", true},
		{"private invited", private, "a@x.com", true},
		{"private invited case-insensitive", private, "A@X.COM", true},
		{"private host", private, "host@x.com", true},
		{"private stranger", private, "stranger@x.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleToViewer(tt.event, tt.viewer); got != tt.want {
				t.Errorf("VisibleToViewer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveCoordinateExact(t *testing.T) {
	e := &Event{Slug: "rooftop-social", Lat: ptr(48.2082), Lng: ptr(16.3738)}

	lat, lng := ResolveCoordinate(e, true)
	if lat == nil || lng == nil {
		t.Fatal("expected coordinates, got nil")
	}
	if *lat != 48.2082 || *lng != 16.3738 {
		t.Errorf("visible=true must return the unmodified pair, got (%v, %v)", *lat, *lng)
	}
}

func TestResolveCoordinateAbsent(t *testing.T) {
	e := &Event{Slug: "no-location"}
	if lat, lng := ResolveCoordinate(e, false); lat != nil || lng != nil {
		t.Errorf("expected absent coordinates, got (%v, %v)", lat, lng)
	}
}

func TestResolveCoordinateFuzzDeterministic(t *testing.T) {
	e := &Event{Slug: "rooftop-social", Lat: ptr(48.2082), Lng: ptr(16.3738)}

	lat1, lng1 := ResolveCoordinate(e, false)
	lat2, lng2 := ResolveCoordinate(e, false)

	if *lat1 != *lat2 || *lng1 != *lng2 {
		t.Errorf("fuzz must be deterministic per slug: (%v,%v) vs (%v,%v)", *lat1, *lng1, *lat2, *lng2)
	}
	if *lat1 == *e.Lat && *lng1 == *e.Lng {
		t.Error("fuzzed pair must differ from the true coordinate")
	}
}

func TestResolveCoordinateFuzzRange(t *testing.T) {
	slugs := []string{"a", "dinner-club", "rooftop-social", "midnight-brunch", "x9"}
	for _, slug := range slugs {
		e := &Event{Slug: slug, Lat: ptr(48.2082), Lng: ptr(16.3738)}
		lat, lng := ResolveCoordinate(e, false)

		latMeters := math.Abs(*lat-*e.Lat) * 111000.0
		if latMeters < 500 || latMeters >= 1000 {
			t.Errorf("slug %q: lat offset %.1fm outside [500,1000)", slug, latMeters)
		}

		lngMeters := math.Abs(*lng-*e.Lng) * 111000.0 * math.Cos(*e.Lat*math.Pi/180.0)
		if lngMeters < 499.9 || lngMeters >= 1000.1 {
			t.Errorf("slug %q: lng offset %.1fm outside [500,1000)", slug, lngMeters)
		}
	}
}

func TestFuzzAxesIndependent(t *testing.T) {
	latOff := fuzzOffsetMeters("rooftop-social", "lat")
	lngOff := fuzzOffsetMeters("rooftop-social", "lng")
	if latOff == lngOff {
		t.Error("lat and lng axes should be seeded separately")
	}
}
